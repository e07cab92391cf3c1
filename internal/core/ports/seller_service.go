package ports

import (
	"context"

	"github.com/bookmarket/seller-system/internal/core/domain"
)

// RegisterSellerInput carries validated registration fields from the
// transport layer to the service.
type RegisterSellerInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// SellerService defines the identity use-cases over seller accounts.
type SellerService interface {
	// Register hashes the password and creates the account. Returns
	// domain.ErrEmailTaken when the email is already registered.
	Register(ctx context.Context, input RegisterSellerInput) (*domain.Seller, error)
	// Authenticate verifies the credentials. An unknown email and a wrong
	// password both return domain.ErrInvalidCredentials so callers cannot
	// probe which emails exist.
	Authenticate(ctx context.Context, email, password string) (*domain.Seller, error)
	GetByID(ctx context.Context, id int64) (*domain.Seller, error)
	GetByEmail(ctx context.Context, email string) (*domain.Seller, error)
	GetByIDWithBooks(ctx context.Context, id int64) (*domain.SellerWithBooks, error)
	List(ctx context.Context) ([]*domain.Seller, error)
	Update(ctx context.Context, id int64, upd SellerUpdate) (*domain.Seller, error)
	Remove(ctx context.Context, id int64) error
}
