// Package handler exposes the violation REST endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trafficdesk/internal/platform/middleware"
	"trafficdesk/internal/violation/models"
	dErrors "trafficdesk/pkg/domain-errors"
	"trafficdesk/pkg/platform/httputil"
)

// Service defines the lifecycle operations the handler needs.
type Service interface {
	GetAllViolations(ctx context.Context) ([]*models.Record, error)
	GetUnpaidViolations(ctx context.Context) ([]*models.Record, error)
	MarkViolationPaid(ctx context.Context, id uuid.UUID) (*models.Violation, error)
}

// Handler handles violation-related endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a violation Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the violation routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/violations", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/", h.handleListAll)
		r.Get("/unpaid", h.handleListUnpaid)
		r.Patch("/{id}/pay", h.handleMarkPaid)
	})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.GetAllViolations(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list violations",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []*models.Record{}
	}
	httputil.WriteData(w, http.StatusOK, records)
}

func (h *Handler) handleListUnpaid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.GetUnpaidViolations(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list unpaid violations",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []*models.Record{}
	}
	httputil.WriteData(w, http.StatusOK, records)
}

func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid violation id"))
		return
	}

	v, err := h.service.MarkViolationPaid(ctx, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to mark violation paid",
			"request_id", middleware.GetRequestID(ctx),
			"violation_id", id,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, v)
}
