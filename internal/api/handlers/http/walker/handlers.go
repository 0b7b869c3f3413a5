package walker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"flockwatch/internal/domain"
	"flockwatch/internal/middleware"
	"flockwatch/pkg/e"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ReportIntake interface {
	Create(ctx context.Context, req domain.CreateReportRequest) (uuid.UUID, error)
}

// Handler accepts sightings forwarded by the walker capture surface.
type Handler struct {
	logger *slog.Logger
	Intake ReportIntake
}

func NewHandler(logger *slog.Logger, intake ReportIntake) *Handler {
	return &Handler{
		logger: logger,
		Intake: intake,
	}
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	var req domain.CreateReportRequest
	if err := middleware.BindJSON(w, r, &req); err != nil {
		l.Warn("invalid report", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id, err := h.Intake.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, e.ErrInvalidCoordinates) || errors.Is(err, e.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		l.Error("create report failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	l.Info("report received", slog.String("id", id.String()))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
