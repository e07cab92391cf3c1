package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookmarket/seller-system/internal/api/metrics"
	"github.com/bookmarket/seller-system/internal/core/domain"
	"github.com/bookmarket/seller-system/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists seller lifecycle
// events to the audit trail.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single lifecycle event. Audit failures never reach the
// request path; the dispatcher logs and drops them.
func (s *auditService) Process(ctx context.Context, in ports.SellerEventInput) error {
	event := &domain.SellerEvent{
		SellerID:   in.SellerID,
		Email:      in.Email,
		Action:     in.Action,
		OccurredAt: in.OccurredAt,
	}

	if err := s.repo.InsertEvent(ctx, event); err != nil {
		metrics.AuditErrorsTotal.Inc()
		return fmt.Errorf("audit event: %w", err)
	}

	metrics.AuditEventsProcessedTotal.WithLabelValues(in.Action).Inc()
	s.log.Debug().
		Int64("seller_id", in.SellerID).
		Str("action", in.Action).
		Msg("audit event recorded")

	return nil
}
