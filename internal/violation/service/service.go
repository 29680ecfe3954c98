// Package service implements the violation lifecycle rules: creation with
// officer defaulting, the two supported listings, and the unpaid -> paid
// transition.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"trafficdesk/internal/platform/metrics"
	"trafficdesk/internal/violation/models"
	"trafficdesk/internal/violation/store"
	dErrors "trafficdesk/pkg/domain-errors"
	"trafficdesk/pkg/platform/sentinel"
)

// Store is the persistence contract the service depends on. Both the Postgres
// and the in-memory implementations satisfy it.
type Store interface {
	FindOwnerByCarNumber(ctx context.Context, carNumber string) (*models.Owner, error)
	InsertViolation(ctx context.Context, params store.InsertViolationParams) (*models.Violation, error)
	ListViolations(ctx context.Context, filter models.Filter) ([]*models.Record, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.Violation, error)
}

// CreateViolationInput carries the fields of a new violation. OfficerID is
// optional; the configured system officer is used when it is zero.
type CreateViolationInput struct {
	OwnerID       uuid.UUID
	ViolationType string
	Amount        float64
	Location      string
	OfficerID     uuid.UUID
}

// Service wraps the store with business rules.
type Service struct {
	store            Store
	defaultOfficerID uuid.UUID
	logger           *slog.Logger
	metrics          *metrics.Metrics
}

// New constructs the violation service. The default officer identifier is
// injected from configuration rather than hardcoded.
func New(s Store, defaultOfficerID uuid.UUID, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:            s,
		defaultOfficerID: defaultOfficerID,
		logger:           logger,
		metrics:          m,
	}
}

// GetOwnerByCarNumber resolves an owner from conversation input. Trimming and
// the empty-input short circuit live in the store.
func (s *Service) GetOwnerByCarNumber(ctx context.Context, carNumber string) (*models.Owner, error) {
	owner, err := s.store.FindOwnerByCarNumber(ctx, carNumber)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "owner not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "owner lookup failed")
	}
	return owner, nil
}

// CreateViolation records a new violation. Amount validation happens upstream
// (conversation flow or API integration); owner/officer existence is enforced
// by the store's referential constraint.
func (s *Service) CreateViolation(ctx context.Context, in CreateViolationInput) (*models.Violation, error) {
	officerID := in.OfficerID
	if officerID == uuid.Nil {
		officerID = s.defaultOfficerID
	}

	v, err := s.store.InsertViolation(ctx, store.InsertViolationParams{
		OwnerID:       in.OwnerID,
		OfficerID:     officerID,
		ViolationType: strings.TrimSpace(in.ViolationType),
		Amount:        in.Amount,
		Location:      strings.TrimSpace(in.Location),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrReferential) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "owner or officer does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create violation")
	}

	s.logger.InfoContext(ctx, "violation created",
		"violation_id", v.ID,
		"owner_id", v.OwnerID,
		"amount", v.Amount,
	)
	if s.metrics != nil {
		s.metrics.ViolationsCreated.Inc()
	}
	return v, nil
}

// GetAllViolations returns every violation, newest first.
func (s *Service) GetAllViolations(ctx context.Context) ([]*models.Record, error) {
	records, err := s.store.ListViolations(ctx, models.FilterAll)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list violations")
	}
	return records, nil
}

// GetUnpaidViolations returns violations still awaiting payment, newest first.
func (s *Service) GetUnpaidViolations(ctx context.Context) ([]*models.Record, error) {
	records, err := s.store.ListViolations(ctx, models.FilterUnpaid)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list unpaid violations")
	}
	return records, nil
}

// MarkViolationPaid transitions a violation to paid. The operation is
// idempotent; paying an already-paid violation succeeds.
func (s *Service) MarkViolationPaid(ctx context.Context, id uuid.UUID) (*models.Violation, error) {
	v, err := s.store.MarkPaid(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "violation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark violation paid")
	}

	s.logger.InfoContext(ctx, "violation marked paid", "violation_id", v.ID)
	if s.metrics != nil {
		s.metrics.ViolationsPaid.Inc()
	}
	return v, nil
}
