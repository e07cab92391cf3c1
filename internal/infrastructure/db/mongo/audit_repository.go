package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookmarket/seller-system/internal/core/domain"
	"github.com/bookmarket/seller-system/internal/core/ports"
)

const eventsCollection = "seller_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// InsertEvent persists a lifecycle event to the seller_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.SellerEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"seller_id":   event.SellerID,
		"email":       event.Email,
		"action":      event.Action,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	_, err := r.db.Collection(eventsCollection).InsertOne(ctx, doc)
	return err
}
