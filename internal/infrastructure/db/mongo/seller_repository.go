package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookmarket/seller-system/internal/core/domain"
	"github.com/bookmarket/seller-system/internal/core/ports"
)

const (
	sellersCollection  = "sellers"
	booksCollection    = "books"
	countersCollection = "counters"
)

// SellerRepository implements ports.SellerRepository on MongoDB. Sellers get
// sequential integer ids from a counters document, and the unique index on
// email makes insert-if-absent atomic: the losing side of a concurrent
// registration observes a duplicate key error, never a partial write.
type SellerRepository struct {
	db *mongo.Database
}

func NewSellerRepository(db *mongo.Database) *SellerRepository {
	return &SellerRepository{db: db}
}

type mongoSeller struct {
	ID           int64  `bson:"_id"`
	FirstName    string `bson:"first_name"`
	LastName     string `bson:"last_name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

type mongoBook struct {
	ID       int64  `bson:"_id"`
	Title    string `bson:"title"`
	Author   string `bson:"author"`
	Year     int    `bson:"year"`
	SellerID int64  `bson:"seller_id"`
}

func (r *SellerRepository) sellers() *mongo.Collection { return r.db.Collection(sellersCollection) }
func (r *SellerRepository) books() *mongo.Collection   { return r.db.Collection(booksCollection) }

// nextID reserves the next seller id by incrementing the shared counter
// document. Ids consumed by inserts that later fail are simply skipped.
func (r *SellerRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.db.Collection(countersCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": sellersCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (r *SellerRepository) Create(ctx context.Context, seller *domain.Seller) (*domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoSeller{
		ID:           id,
		FirstName:    seller.FirstName,
		LastName:     seller.LastName,
		Email:        seller.Email,
		PasswordHash: seller.PasswordHash,
		CreatedAt:    seller.CreatedAt.Unix(),
		UpdatedAt:    seller.UpdatedAt.Unix(),
	}

	if _, err := r.sellers().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return toDomainSeller(doc), nil
}

func (r *SellerRepository) FindByID(ctx context.Context, id int64) (*domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *SellerRepository) FindByEmail(ctx context.Context, email string) (*domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"email": email})
}

func (r *SellerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Seller, error) {
	var ms mongoSeller
	if err := r.sellers().FindOne(ctx, filter).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSellerNotFound
		}
		return nil, err
	}
	return toDomainSeller(ms), nil
}

func (r *SellerRepository) FindByIDWithBooks(ctx context.Context, id int64) (*domain.SellerWithBooks, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	seller, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}

	cursor, err := r.books().Find(ctx, bson.M{"seller_id": id})
	if err != nil {
		return nil, err
	}

	var docs []mongoBook
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	books := make([]domain.Book, 0, len(docs))
	for _, b := range docs {
		books = append(books, domain.Book{
			ID:       b.ID,
			Title:    b.Title,
			Author:   b.Author,
			Year:     b.Year,
			SellerID: b.SellerID,
		})
	}

	return &domain.SellerWithBooks{Seller: *seller, Books: books}, nil
}

func (r *SellerRepository) List(ctx context.Context) ([]*domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.sellers().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []mongoSeller
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	sellers := make([]*domain.Seller, 0, len(docs))
	for _, ms := range docs {
		sellers = append(sellers, toDomainSeller(ms))
	}
	return sellers, nil
}

// UpdatePartial overwrites only the fields set in upd. The read-modify-write
// runs as a single FindOneAndUpdate, so concurrent updates never interleave
// within one record.
func (r *SellerRepository) UpdatePartial(ctx context.Context, id int64, upd ports.SellerUpdate) (*domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if upd.FirstName != nil {
		set["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["last_name"] = *upd.LastName
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}

	var ms mongoSeller
	err := r.sellers().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ms)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSellerNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return toDomainSeller(ms), nil
}

// Delete removes the seller and cascades to their book rows.
func (r *SellerRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.sellers().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrSellerNotFound
	}

	if _, err := r.books().DeleteMany(ctx, bson.M{"seller_id": id}); err != nil {
		return err
	}
	return nil
}

// EnsureIndexes creates the unique email index that backs the registration
// conflict guarantee, plus the books lookup index.
func (r *SellerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.sellers().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = r.books().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "seller_id", Value: 1}},
	})
	return err
}

func toDomainSeller(ms mongoSeller) *domain.Seller {
	return &domain.Seller{
		ID:           ms.ID,
		FirstName:    ms.FirstName,
		LastName:     ms.LastName,
		Email:        ms.Email,
		PasswordHash: ms.PasswordHash,
		CreatedAt:    unixToTime(ms.CreatedAt),
		UpdatedAt:    unixToTime(ms.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
