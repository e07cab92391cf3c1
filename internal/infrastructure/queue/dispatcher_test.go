package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookmarket/seller-system/internal/core/domain"
	"github.com/bookmarket/seller-system/internal/core/ports"
)

type recordingAuditService struct {
	mu     sync.Mutex
	events []ports.SellerEventInput
}

func (s *recordingAuditService) Process(_ context.Context, e ports.SellerEventInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingAuditService) byEmail(email string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var actions []string
	for _, e := range s.events {
		if e.Email == email {
			actions = append(actions, e.Action)
		}
	}
	return actions
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcher_ProcessesEvents(t *testing.T) {
	svc := &recordingAuditService{}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.SellerEventInput{SellerID: 1, Email: "a@mail.ru", Action: domain.EventRegistered})
	d.Enqueue(ports.SellerEventInput{SellerID: 2, Email: "b@mail.ru", Action: domain.EventRegistered})

	waitFor(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.events) == 2
	})
}

func TestDispatcher_PerSellerOrdering(t *testing.T) {
	svc := &recordingAuditService{}
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []string{domain.EventRegistered, domain.EventUpdated, domain.EventUpdated, domain.EventDeleted}
	for _, a := range actions {
		d.Enqueue(ports.SellerEventInput{SellerID: 1, Email: "a@mail.ru", Action: a})
	}

	waitFor(t, func() bool {
		return len(svc.byEmail("a@mail.ru")) == len(actions)
	})

	got := svc.byEmail("a@mail.ru")
	for i, a := range actions {
		if got[i] != a {
			t.Fatalf("events out of order: got %v, want %v", got, actions)
		}
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingAuditService{}, zerolog.Nop())

	first := d.shardIndex("a@mail.ru")
	for i := 0; i < 100; i++ {
		if d.shardIndex("a@mail.ru") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}
