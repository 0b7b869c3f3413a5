package farmer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"flockwatch/pkg/e"
)

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// handleError maps service errors onto the claim API's error codes.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	var (
		status int
		resp   errorResponse
	)
	switch {
	case errors.Is(err, e.ErrInvalidAction):
		status, resp = http.StatusBadRequest, errorResponse{Error: "invalid_action", Message: "action must be one of mine, not_mine, resolved"}
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrInvalidCoordinates):
		status, resp = http.StatusBadRequest, errorResponse{Error: "invalid_input", Message: err.Error()}
	case errors.Is(err, e.ErrNotFound):
		status, resp = http.StatusNotFound, errorResponse{Error: "not_found", Message: "report not found"}
	case errors.Is(err, e.ErrNotAuthorized):
		status, resp = http.StatusForbidden, errorResponse{Error: "not_authorized", Message: "report is claimed by another farmer"}
	case errors.Is(err, e.ErrInvalidTransition):
		status, resp = http.StatusConflict, errorResponse{Error: "invalid_transition", Message: "action not allowed in the report's current state"}
	case errors.Is(err, e.ErrConflict):
		status, resp = http.StatusConflict, errorResponse{Error: "conflict", Message: "report changed concurrently, retry with fresh state", Retryable: true}
	default:
		status, resp = http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal error"}
	}

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err),
	}
	if status >= http.StatusInternalServerError {
		l.Error("handler error", attrs...)
	} else {
		l.Info("request rejected", attrs...)
	}

	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("json encode failed", slog.Any("error", err))
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
