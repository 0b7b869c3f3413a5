package farmer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"flockwatch/internal/domain"
	"flockwatch/internal/middleware"
	"flockwatch/pkg/e"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ClaimResolver interface {
	Apply(ctx context.Context, req domain.ActionRequest) (domain.ActionResult, error)
}

type ReportReader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	List(ctx context.Context, f domain.ListFilter) ([]*domain.Report, int64, error)
	OpenFeed(ctx context.Context) ([]domain.CachedReport, error)
}

type Handler struct {
	logger   *slog.Logger
	Resolver ClaimResolver
	Reports  ReportReader
}

func NewHandler(logger *slog.Logger, resolver ClaimResolver, reports ReportReader) *Handler {
	return &Handler{
		logger:   logger,
		Resolver: resolver,
		Reports:  reports,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("Claim", slog.String("remote", r.RemoteAddr))

	var req domain.ActionRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if _, ok := domain.ParseAction(req.Action); !ok {
		h.handleError(w, r, fmt.Errorf("action %q: %w", req.Action, e.ErrInvalidAction))
		return
	}
	if err := middleware.Validate(&req); err != nil {
		h.handleError(w, r, err)
		return
	}

	res, err := h.Resolver.Apply(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("action applied",
		slog.String("report_id", res.ReportID.String()),
		slog.String("action", string(res.Action)),
		slog.String("new_status", string(res.NewStatus)),
	)
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_input", Message: "invalid id"})
		return
	}

	report, err := h.Reports.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("ListReports", slog.String("query", r.URL.RawQuery))

	q := r.URL.Query()
	filter := domain.ListFilter{
		Status: domain.ReportStatus(q.Get("status")),
		Page:   parseInt(q.Get("page"), 1),
		Limit:  parseInt(q.Get("limit"), domain.DefaultListLimit),
	}
	applied := filter.Normalize()
	if applied != filter {
		l.Debug("paging normalized", slog.Int("page", applied.Page), slog.Int("limit", applied.Limit))
	}

	reports, total, err := h.Reports.List(r.Context(), applied)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.ListReportsResponse{
		Reports: reports,
		Page:    applied.Page,
		Limit:   applied.Limit,
		Total:   total,
	})
}

func (h *Handler) OpenFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.Reports.OpenFeed(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"reports": feed})
}
