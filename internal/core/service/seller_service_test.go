package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookmarket/seller-system/internal/core/domain"
	"github.com/bookmarket/seller-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubSellerRepo struct {
	sellers map[int64]*domain.Seller
	books   map[int64][]domain.Book
	nextID  int64
}

func newStubSellerRepo() *stubSellerRepo {
	return &stubSellerRepo{
		sellers: make(map[int64]*domain.Seller),
		books:   make(map[int64][]domain.Book),
	}
}

func cloneSeller(s *domain.Seller) *domain.Seller {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func (r *stubSellerRepo) Create(_ context.Context, seller *domain.Seller) (*domain.Seller, error) {
	for _, existing := range r.sellers {
		if existing.Email == seller.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	copy := cloneSeller(seller)
	copy.ID = r.nextID
	r.sellers[copy.ID] = cloneSeller(copy)
	return copy, nil
}

func (r *stubSellerRepo) FindByID(_ context.Context, id int64) (*domain.Seller, error) {
	s, ok := r.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	return cloneSeller(s), nil
}

func (r *stubSellerRepo) FindByIDWithBooks(_ context.Context, id int64) (*domain.SellerWithBooks, error) {
	s, ok := r.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	books := append([]domain.Book(nil), r.books[id]...)
	if books == nil {
		books = []domain.Book{}
	}
	return &domain.SellerWithBooks{Seller: *cloneSeller(s), Books: books}, nil
}

func (r *stubSellerRepo) FindByEmail(_ context.Context, email string) (*domain.Seller, error) {
	for _, s := range r.sellers {
		if s.Email == email {
			return cloneSeller(s), nil
		}
	}
	return nil, domain.ErrSellerNotFound
}

func (r *stubSellerRepo) List(_ context.Context) ([]*domain.Seller, error) {
	out := make([]*domain.Seller, 0, len(r.sellers))
	for _, s := range r.sellers {
		out = append(out, cloneSeller(s))
	}
	return out, nil
}

func (r *stubSellerRepo) UpdatePartial(_ context.Context, id int64, upd ports.SellerUpdate) (*domain.Seller, error) {
	s, ok := r.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	if upd.Email != nil {
		for otherID, other := range r.sellers {
			if otherID != id && other.Email == *upd.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		s.Email = *upd.Email
	}
	if upd.FirstName != nil {
		s.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		s.LastName = *upd.LastName
	}
	return cloneSeller(s), nil
}

func (r *stubSellerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.sellers[id]; !ok {
		return domain.ErrSellerNotFound
	}
	delete(r.sellers, id)
	delete(r.books, id)
	return nil
}

type stubThrottle struct {
	blocked  bool
	checkErr error
	failures map[string]int
	resets   []string
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int)}
}

func (t *stubThrottle) Blocked(_ context.Context, email string) (bool, error) {
	return t.blocked, t.checkErr
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets = append(t.resets, email)
	return nil
}

type stubSink struct {
	events []ports.SellerEventInput
}

func (s *stubSink) Enqueue(event ports.SellerEventInput) {
	s.events = append(s.events, event)
}

func newTestService(repo *stubSellerRepo, throttle *stubThrottle, sink *stubSink) *SellerService {
	return NewSellerService(repo, NewBcryptHasher(4), throttle, sink, zerolog.Nop())
}

func register(t *testing.T, svc *SellerService, email string) *domain.Seller {
	t.Helper()
	seller, err := svc.Register(context.Background(), ports.RegisterSellerInput{
		FirstName: "Seller",
		LastName:  "Sellerow",
		Email:     email,
		Password:  "password1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return seller
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestSellerService_Register_Success(t *testing.T) {
	repo := newStubSellerRepo()
	sink := &stubSink{}
	svc := newTestService(repo, newStubThrottle(), sink)

	seller := register(t, svc, "a@mail.ru")

	if seller.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if seller.PasswordHash == "" || seller.PasswordHash == "password1" {
		t.Fatalf("expected hashed password, got %q", seller.PasswordHash)
	}
	if !NewBcryptHasher(4).Verify("password1", seller.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if len(sink.events) != 1 || sink.events[0].Action != domain.EventRegistered {
		t.Fatalf("expected a registered audit event, got %+v", sink.events)
	}
}

func TestSellerService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestService(newStubSellerRepo(), newStubThrottle(), &stubSink{})

	register(t, svc, "a@mail.ru")
	_, err := svc.Register(context.Background(), ports.RegisterSellerInput{
		FirstName: "Other",
		LastName:  "Seller",
		Email:     "a@mail.ru",
		Password:  "password2",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Authenticate
// ---------------------------------------------------------------------------

func TestSellerService_Authenticate_Success(t *testing.T) {
	repo := newStubSellerRepo()
	throttle := newStubThrottle()
	svc := newTestService(repo, throttle, &stubSink{})
	register(t, svc, "a@mail.ru")

	seller, err := svc.Authenticate(context.Background(), "a@mail.ru", "password1")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if seller.Email != "a@mail.ru" {
		t.Fatalf("unexpected seller: %+v", seller)
	}
	if len(throttle.resets) != 1 {
		t.Fatalf("expected throttle reset after successful login")
	}
}

func TestSellerService_Authenticate_WrongPassword(t *testing.T) {
	throttle := newStubThrottle()
	svc := newTestService(newStubSellerRepo(), throttle, &stubSink{})
	register(t, svc, "a@mail.ru")

	_, err := svc.Authenticate(context.Background(), "a@mail.ru", "wrongpass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if throttle.failures["a@mail.ru"] != 1 {
		t.Fatalf("expected one recorded failure, got %d", throttle.failures["a@mail.ru"])
	}
}

func TestSellerService_Authenticate_UnknownEmail(t *testing.T) {
	svc := newTestService(newStubSellerRepo(), newStubThrottle(), &stubSink{})

	// Unknown email and wrong password must be the same error kind.
	_, err := svc.Authenticate(context.Background(), "ghost@mail.ru", "password1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSellerService_Authenticate_Blocked(t *testing.T) {
	throttle := newStubThrottle()
	throttle.blocked = true
	svc := newTestService(newStubSellerRepo(), throttle, &stubSink{})

	_, err := svc.Authenticate(context.Background(), "a@mail.ru", "password1")
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestSellerService_Authenticate_ThrottleErrorIsNotFatal(t *testing.T) {
	throttle := newStubThrottle()
	throttle.checkErr = errors.New("redis down")
	svc := newTestService(newStubSellerRepo(), throttle, &stubSink{})
	register(t, svc, "a@mail.ru")

	if _, err := svc.Authenticate(context.Background(), "a@mail.ru", "password1"); err != nil {
		t.Fatalf("throttle outage should not block logins: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Remove / lookups
// ---------------------------------------------------------------------------

func TestSellerService_Update_Partial(t *testing.T) {
	repo := newStubSellerRepo()
	svc := newTestService(repo, newStubThrottle(), &stubSink{})
	seller := register(t, svc, "a@mail.ru")

	name := "Anna"
	updated, err := svc.Update(context.Background(), seller.ID, ports.SellerUpdate{FirstName: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Anna" {
		t.Fatalf("first_name not updated: %+v", updated)
	}
	if updated.LastName != "Sellerow" || updated.Email != "a@mail.ru" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestSellerService_Update_Empty(t *testing.T) {
	svc := newTestService(newStubSellerRepo(), newStubThrottle(), &stubSink{})
	seller := register(t, svc, "a@mail.ru")

	got, err := svc.Update(context.Background(), seller.ID, ports.SellerUpdate{})
	if err != nil {
		t.Fatalf("empty update failed: %v", err)
	}
	if got.Email != "a@mail.ru" || got.FirstName != "Seller" {
		t.Fatalf("empty update changed the record: %+v", got)
	}
}

func TestSellerService_Update_NotFound(t *testing.T) {
	svc := newTestService(newStubSellerRepo(), newStubThrottle(), &stubSink{})

	name := "Anna"
	_, err := svc.Update(context.Background(), 42, ports.SellerUpdate{FirstName: &name})
	if !errors.Is(err, domain.ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}
}

func TestSellerService_Remove(t *testing.T) {
	sink := &stubSink{}
	svc := newTestService(newStubSellerRepo(), newStubThrottle(), sink)
	seller := register(t, svc, "a@mail.ru")

	if err := svc.Remove(context.Background(), seller.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), seller.ID); !errors.Is(err, domain.ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound after deletion, got %v", err)
	}
	last := sink.events[len(sink.events)-1]
	if last.Action != domain.EventDeleted {
		t.Fatalf("expected deleted audit event, got %+v", last)
	}
}

func TestSellerService_Remove_NotFound(t *testing.T) {
	svc := newTestService(newStubSellerRepo(), newStubThrottle(), &stubSink{})

	if err := svc.Remove(context.Background(), 42); !errors.Is(err, domain.ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}
}

func TestSellerService_GetByIDWithBooks(t *testing.T) {
	repo := newStubSellerRepo()
	svc := newTestService(repo, newStubThrottle(), &stubSink{})
	seller := register(t, svc, "a@mail.ru")
	repo.books[seller.ID] = []domain.Book{{ID: 1, Title: "Go in Action", SellerID: seller.ID}}

	detail, err := svc.GetByIDWithBooks(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("GetByIDWithBooks failed: %v", err)
	}
	if len(detail.Books) != 1 || detail.Books[0].Title != "Go in Action" {
		t.Fatalf("unexpected books: %+v", detail.Books)
	}
}

func TestSellerService_NilAuditSink(t *testing.T) {
	svc := NewSellerService(newStubSellerRepo(), NewBcryptHasher(4), newStubThrottle(), nil, zerolog.Nop())

	if _, err := svc.Register(context.Background(), ports.RegisterSellerInput{
		FirstName: "Seller",
		LastName:  "Sellerow",
		Email:     "a@mail.ru",
		Password:  "password1",
	}); err != nil {
		t.Fatalf("register with nil sink failed: %v", err)
	}
}
