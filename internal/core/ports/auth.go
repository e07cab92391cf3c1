package ports

import (
	"context"
	"time"
)

// PasswordHasher produces and verifies one-way password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches the stored hash. Malformed
	// hashes are simply a mismatch, never an error.
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints and validates the signed bearer tokens that assert
// seller identity between requests. Tokens are stateless: validity is
// decided purely by signature and expiry.
type TokenIssuer interface {
	// Issue signs a token whose subject is the seller's email, expiring at
	// issue time plus the configured TTL.
	Issue(subject string) (string, error)
	// Validate checks signature and expiry and returns the subject email.
	// Every failure mode (forged, malformed, expired) surfaces uniformly as
	// domain.ErrInvalidToken.
	Validate(token string) (string, error)
}

// SellerEventInput is the DTO handed to the audit pipeline when a seller
// account changes state.
type SellerEventInput struct {
	SellerID   int64
	Email      string
	Action     string
	OccurredAt time.Time
}

// AuditService persists seller lifecycle events off the request path.
type AuditService interface {
	Process(ctx context.Context, event SellerEventInput) error
}
