package farmer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"flockwatch/internal/api/handlers/http/farmer"
	mock_farmer "flockwatch/internal/api/handlers/http/farmer/mocks"
	"flockwatch/internal/domain"
	"flockwatch/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func addChiURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

func newHandler(t *testing.T) (*farmer.Handler, *mock_farmer.MockClaimResolver, *mock_farmer.MockReportReader) {
	t.Helper()
	ctrl := gomock.NewController(t)
	resolver := mock_farmer.NewMockClaimResolver(ctrl)
	reports := mock_farmer.NewMockReportReader(ctrl)
	return farmer.NewHandler(newTestLogger(), resolver, reports), resolver, reports
}

func TestClaim_OK(t *testing.T) {
	t.Parallel()

	h, resolver, _ := newHandler(t)
	id := uuid.New()

	body := fmt.Sprintf(`{"action":"mine","report_id":%q,"farmer_id":"f1"}`, id.String())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	resolver.EXPECT().
		Apply(gomock.Any(), domain.ActionRequest{Action: "mine", ReportID: id.String(), FarmerID: "f1"}).
		Return(domain.ActionResult{
			Success:   true,
			ReportID:  id,
			NewStatus: domain.ReportClaimed,
			Action:    domain.ActionMine,
			FarmerID:  "f1",
		}, nil).
		Times(1)

	h.Claim(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	got := decodeJSON[map[string]any](t, rr)
	want := map[string]any{
		"success":    true,
		"report_id":  id.String(),
		"new_status": "claimed",
		"action":     "mine",
		"farmer_id":  "f1",
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected response keys: %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %s: got=%v want=%v", k, got[k], v)
		}
	}
}

func TestClaim_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err       error
		status    int
		code      string
		retryable bool
	}{
		{fmt.Errorf("x: %w", e.ErrInvalidAction), http.StatusBadRequest, "invalid_action", false},
		{fmt.Errorf("x: %w", e.ErrInvalidInput), http.StatusBadRequest, "invalid_input", false},
		{fmt.Errorf("x: %w", e.ErrNotFound), http.StatusNotFound, "not_found", false},
		{fmt.Errorf("x: %w", e.ErrNotAuthorized), http.StatusForbidden, "not_authorized", false},
		{fmt.Errorf("x: %w", e.ErrInvalidTransition), http.StatusConflict, "invalid_transition", false},
		{fmt.Errorf("x: %w", e.ErrConflict), http.StatusConflict, "conflict", true},
		{errors.New("boom"), http.StatusInternalServerError, "internal", false},
	}

	for _, tc := range cases {
		h, resolver, _ := newHandler(t)
		resolver.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(domain.ActionResult{}, tc.err).Times(1)

		body := fmt.Sprintf(`{"action":"resolved","report_id":%q,"farmer_id":"f2"}`, uuid.NewString())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		h.Claim(rr, req)

		if rr.Code != tc.status {
			t.Fatalf("%v: expected %d got %d", tc.err, tc.status, rr.Code)
		}
		got := decodeJSON[map[string]any](t, rr)
		if got["success"] != false || got["error"] != tc.code {
			t.Fatalf("%v: unexpected body %v", tc.err, got)
		}
		if r, _ := got["retryable"].(bool); r != tc.retryable {
			t.Fatalf("%v: retryable=%v want %v", tc.err, r, tc.retryable)
		}
	}
}

func TestClaim_BadBody_400_NoResolverCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body     string
		wantCode string
	}{
		{`{bad json`, "invalid_input"},
		{``, "invalid_input"},
		{fmt.Sprintf(`{"action":"mine","report_id":%q}`, uuid.NewString()), "invalid_input"},
		{fmt.Sprintf(`{"action":"mine","report_id":%q,"farmer_id":"f1","extra":1}`, uuid.NewString()), "invalid_input"},
		// the action is checked before any other field
		{`{"action":"steal","report_id":"r1","farmer_id":"f1"}`, "invalid_action"},
		{fmt.Sprintf(`{"action":"steal","report_id":%q}`, uuid.NewString()), "invalid_action"},
		{`{"report_id":"r1","farmer_id":"f1"}`, "invalid_action"},
	}

	for _, tt := range tests {
		h, _, _ := newHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", bytes.NewBufferString(tt.body))
		rr := httptest.NewRecorder()

		h.Claim(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400 got %d", tt.body, rr.Code)
		}
		if got := decodeJSON[map[string]any](t, rr); got["error"] != tt.wantCode {
			t.Fatalf("body %q: expected error %q got %v", tt.body, tt.wantCode, got["error"])
		}
	}
}

func TestClaim_NonUUIDReportIDReachesResolver(t *testing.T) {
	t.Parallel()

	h, resolver, _ := newHandler(t)
	resolver.EXPECT().
		Apply(gomock.Any(), domain.ActionRequest{Action: "mine", ReportID: "r1", FarmerID: "f1"}).
		Return(domain.ActionResult{}, fmt.Errorf("report %q: %w", "r1", e.ErrNotFound)).
		Times(1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", bytes.NewBufferString(`{"action":"mine","report_id":"r1","farmer_id":"f1"}`))
	rr := httptest.NewRecorder()
	h.Claim(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestGetReport(t *testing.T) {
	t.Parallel()

	h, _, reports := newHandler(t)
	id := uuid.New()
	reports.EXPECT().Get(gomock.Any(), id).Return(&domain.Report{ID: id, Status: domain.ReportOpen}, nil).Times(1)

	req := addChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id.String(), nil), "id", id.String())
	rr := httptest.NewRecorder()
	h.GetReport(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	got := decodeJSON[domain.Report](t, rr)
	if got.ID != id || got.Status != domain.ReportOpen {
		t.Fatalf("unexpected report: %+v", got)
	}
}

func TestGetReport_InvalidID_400(t *testing.T) {
	t.Parallel()

	h, _, _ := newHandler(t)
	req := addChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/x", nil), "id", "x")
	rr := httptest.NewRecorder()
	h.GetReport(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestGetReport_NotFound_404(t *testing.T) {
	t.Parallel()

	h, _, reports := newHandler(t)
	id := uuid.New()
	reports.EXPECT().Get(gomock.Any(), id).Return(nil, e.ErrNotFound).Times(1)

	req := addChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id.String(), nil), "id", id.String())
	rr := httptest.NewRecorder()
	h.GetReport(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestListReports_QueryParams(t *testing.T) {
	t.Parallel()

	h, _, reports := newHandler(t)
	reports.EXPECT().
		List(gomock.Any(), domain.ListFilter{Status: domain.ReportClaimed, Page: 2, Limit: 100}).
		Return([]*domain.Report{{ID: uuid.New()}}, int64(101), nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?status=claimed&page=2&limit=500", nil)
	rr := httptest.NewRecorder()
	h.ListReports(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	got := decodeJSON[domain.ListReportsResponse](t, rr)
	if got.Total != 101 || got.Page != 2 || got.Limit != 100 || len(got.Reports) != 1 {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestListReports_EchoesAppliedPaging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"negative limit", "limit=-5", 1, domain.DefaultListLimit},
		{"zero limit and page", "page=0&limit=0", 1, domain.DefaultListLimit},
		{"overflowing page", "page=9223372036854775807&limit=20", domain.MaxListPage, 20},
		{"garbage", "page=abc&limit=xyz", 1, domain.DefaultListLimit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _, reports := newHandler(t)
			reports.EXPECT().
				List(gomock.Any(), domain.ListFilter{Page: tt.wantPage, Limit: tt.wantLimit}).
				Return([]*domain.Report{}, int64(0), nil).
				Times(1)

			rr := httptest.NewRecorder()
			h.ListReports(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports?"+tt.query, nil))

			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d", rr.Code)
			}
			got := decodeJSON[domain.ListReportsResponse](t, rr)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Fatalf("expected page=%d limit=%d, got page=%d limit=%d", tt.wantPage, tt.wantLimit, got.Page, got.Limit)
			}
		})
	}
}

func TestOpenFeed(t *testing.T) {
	t.Parallel()

	h, _, reports := newHandler(t)
	reports.EXPECT().OpenFeed(gomock.Any()).Return([]domain.CachedReport{{ID: uuid.New()}}, nil).Times(1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/feed", nil)
	rr := httptest.NewRecorder()
	h.OpenFeed(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	got := decodeJSON[map[string][]domain.CachedReport](t, rr)
	if len(got["reports"]) != 1 {
		t.Fatalf("unexpected feed: %v", got)
	}
}
