package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookmarket/seller-system/internal/api/metrics"
	"github.com/bookmarket/seller-system/internal/core/domain"
	"github.com/bookmarket/seller-system/internal/core/ports"
)

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuditSink is the interface the service uses to hand lifecycle events to
// the audit dispatcher without blocking the request.
type AuditSink interface {
	Enqueue(event ports.SellerEventInput)
}

// SellerService implements registration, authentication and account CRUD.
// All storage access goes through the repository and all crypto through the
// hasher; the service itself holds no mutable state.
type SellerService struct {
	repo     ports.SellerRepository
	hasher   ports.PasswordHasher
	throttle LoginThrottle
	audit    AuditSink
	log      zerolog.Logger
}

func NewSellerService(
	repo ports.SellerRepository,
	hasher ports.PasswordHasher,
	throttle LoginThrottle,
	audit AuditSink,
	log zerolog.Logger,
) *SellerService {
	return &SellerService{
		repo:     repo,
		hasher:   hasher,
		throttle: throttle,
		audit:    audit,
		log:      log,
	}
}

// Register hashes the password and creates the account. The repository's
// unique index decides duplicate emails, so concurrent registrations with
// the same address produce exactly one account.
func (s *SellerService) Register(ctx context.Context, input ports.RegisterSellerInput) (*domain.Seller, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	seller := &domain.Seller{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, seller)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.emit(created, domain.EventRegistered)
	s.log.Info().Int64("seller_id", created.ID).Str("email", created.Email).Msg("seller registered")

	return created, nil
}

// Authenticate verifies the credentials. Unknown email and wrong password
// are indistinguishable to the caller; both count as a failed attempt for
// the throttle.
func (s *SellerService) Authenticate(ctx context.Context, email, password string) (*domain.Seller, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	blocked, err := s.throttle.Blocked(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("throttle check failed, proceeding")
	} else if blocked {
		metrics.LoginsTotal.WithLabelValues("blocked").Inc()
		return nil, domain.ErrTooManyAttempts
	}

	seller, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrSellerNotFound) {
			return nil, s.failLogin(ctx, email)
		}
		return nil, err
	}

	if !s.hasher.Verify(password, seller.PasswordHash) {
		return nil, s.failLogin(ctx, email)
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return seller, nil
}

func (s *SellerService) failLogin(ctx context.Context, email string) error {
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
	}
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	return domain.ErrInvalidCredentials
}

func (s *SellerService) GetByID(ctx context.Context, id int64) (*domain.Seller, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SellerService) GetByEmail(ctx context.Context, email string) (*domain.Seller, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *SellerService) GetByIDWithBooks(ctx context.Context, id int64) (*domain.SellerWithBooks, error) {
	return s.repo.FindByIDWithBooks(ctx, id)
}

func (s *SellerService) List(ctx context.Context) ([]*domain.Seller, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update: nil fields keep their stored values.
// An empty update is a no-op read so the caller still gets the record back.
func (s *SellerService) Update(ctx context.Context, id int64, upd ports.SellerUpdate) (*domain.Seller, error) {
	if upd.Empty() {
		return s.repo.FindByID(ctx, id)
	}

	updated, err := s.repo.UpdatePartial(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.emit(updated, domain.EventUpdated)
	s.log.Info().Int64("seller_id", id).Msg("seller updated")

	return updated, nil
}

// Remove deletes the account. Tokens already issued are not revoked; the
// auth middleware re-resolves the seller per request, so they stop working
// on their next use.
func (s *SellerService) Remove(ctx context.Context, id int64) error {
	seller, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.emit(seller, domain.EventDeleted)
	s.log.Info().Int64("seller_id", id).Str("email", seller.Email).Msg("seller deleted")

	return nil
}

func (s *SellerService) emit(seller *domain.Seller, action string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.SellerEventInput{
		SellerID:   seller.ID,
		Email:      seller.Email,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	})
}
