package ports

import (
	"context"

	"github.com/bookmarket/seller-system/internal/core/domain"
)

// SellerUpdate carries a partial update. Nil fields are left untouched; the
// struct itself is the allow-list of mutable columns, so anything outside it
// is rejected before reaching the repository.
type SellerUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Empty reports whether the update would change nothing.
func (u SellerUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil
}

// SellerRepository defines persistence operations for seller accounts.
type SellerRepository interface {
	// Create inserts the seller and returns it with its assigned id.
	// The email uniqueness check and the insert are a single atomic
	// operation: concurrent registrations with the same email yield exactly
	// one success, the rest observe domain.ErrEmailTaken.
	Create(ctx context.Context, seller *domain.Seller) (*domain.Seller, error)
	FindByID(ctx context.Context, id int64) (*domain.Seller, error)
	// FindByIDWithBooks loads the seller together with the books they own.
	FindByIDWithBooks(ctx context.Context, id int64) (*domain.SellerWithBooks, error)
	FindByEmail(ctx context.Context, email string) (*domain.Seller, error)
	List(ctx context.Context) ([]*domain.Seller, error)
	// UpdatePartial overwrites only the fields set in upd and returns the
	// updated record. A changed email hitting the unique index surfaces as
	// domain.ErrEmailTaken.
	UpdatePartial(ctx context.Context, id int64, upd SellerUpdate) (*domain.Seller, error)
	// Delete removes the seller and their book rows. Deleting a missing id
	// is domain.ErrSellerNotFound, not a silent success.
	Delete(ctx context.Context, id int64) error
}

// AuditRepository persists seller lifecycle events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.SellerEvent) error
}
