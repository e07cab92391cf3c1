package domain

import (
	"errors"
	"time"
)

var ErrSellerNotFound = errors.New("seller not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrTooManyAttempts = errors.New("too many failed login attempts")
var ErrUnknownField = errors.New("unknown field")

// Seller is a marketplace vendor account. The password is stored only as a
// bcrypt hash and is never serialized.
type Seller struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Book is a catalogue entry owned by a seller. Book management lives in the
// catalogue subsystem; this service only reads them for the details view.
type Book struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     int    `json:"year"`
	SellerID int64  `json:"seller_id"`
}

// SellerWithBooks is the profile-details view: the seller plus the books
// currently attributed to them.
type SellerWithBooks struct {
	Seller
	Books []Book `json:"books"`
}

// Seller lifecycle actions recorded in the audit trail.
const (
	EventRegistered = "registered"
	EventUpdated    = "updated"
	EventDeleted    = "deleted"
)

// SellerEvent is one entry in the seller_events audit trail.
type SellerEvent struct {
	SellerID   int64     `json:"seller_id"`
	Email      string    `json:"email"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}
