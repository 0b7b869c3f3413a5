package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flockwatch/internal/api"
	"flockwatch/internal/config"
	"flockwatch/internal/middleware"
	"flockwatch/internal/service"
	"flockwatch/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := &config.Config{
		Http:   config.HttpConfig{Port: ":0", ShutdownTimeout: time.Second},
		APIKey: "intake-key",
	}

	store := memory.NewReports()
	svc := service.NewService(
		service.NewClaimResolver(store, nil, nil, logger),
		service.NewReportService(store, nil, logger, time.Minute),
	)

	srv := httptest.NewServer(api.NewServer(cfg, logger, svc, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, apiKey, body string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func claim(t *testing.T, base, action, reportID, farmer string) (int, map[string]any) {
	t.Helper()
	body := fmt.Sprintf(`{"action":%q,"report_id":%q,"farmer_id":%q}`, action, reportID, farmer)
	return do(t, http.MethodPost, base+"/api/v1/claims", "", body)
}

func TestRouter_ClaimScenario(t *testing.T) {
	srv := newTestServer(t)

	code, created := do(t, http.MethodPost, srv.URL+"/api/v1/intake/reports", "intake-key", `{"lat":54.5,"lng":-3.1,"description":"hogg by the beck"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d (%v)", code, created)
	}
	r1, _ := created["id"].(string)

	code, body := claim(t, srv.URL, "mine", r1, "f1")
	if code != http.StatusOK || body["success"] != true || body["new_status"] != "claimed" {
		t.Fatalf("f1 mine: %d %v", code, body)
	}

	code, body = claim(t, srv.URL, "resolved", r1, "f2")
	if code != http.StatusForbidden || body["error"] != "not_authorized" {
		t.Fatalf("f2 resolved: %d %v", code, body)
	}

	code, body = claim(t, srv.URL, "resolved", r1, "f1")
	if code != http.StatusOK || body["new_status"] != "resolved" {
		t.Fatalf("f1 resolved: %d %v", code, body)
	}

	code, body = claim(t, srv.URL, "mine", r1, "f1")
	if code != http.StatusConflict || body["error"] != "invalid_transition" {
		t.Fatalf("f1 mine again: %d %v", code, body)
	}

	code, body = do(t, http.MethodGet, srv.URL+"/api/v1/reports/"+r1, "", "")
	if code != http.StatusOK || body["status"] != "resolved" || body["claimed_by"] != "f1" || body["resolved_at"] == nil {
		t.Fatalf("get: %d %v", code, body)
	}
}

func TestRouter_InvalidActionAndUnknownReport(t *testing.T) {
	srv := newTestServer(t)

	code, body := claim(t, srv.URL, "steal", "6f1c1f7e-4b8e-4f0e-9a55-2b7f5d1c0a11", "f1")
	if code != http.StatusBadRequest || body["error"] != "invalid_action" {
		t.Fatalf("invalid action: %d %v", code, body)
	}

	code, body = claim(t, srv.URL, "mine", "6f1c1f7e-4b8e-4f0e-9a55-2b7f5d1c0a11", "f1")
	if code != http.StatusNotFound || body["error"] != "not_found" {
		t.Fatalf("unknown report: %d %v", code, body)
	}
}

func TestRouter_ClaimCheckOrder(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"bad action with non-uuid id", `{"action":"steal","report_id":"r1","farmer_id":"f1"}`, http.StatusBadRequest, "invalid_action"},
		{"bad action without farmer", `{"action":"steal","report_id":"6f1c1f7e-4b8e-4f0e-9a55-2b7f5d1c0a11"}`, http.StatusBadRequest, "invalid_action"},
		{"non-uuid id", `{"action":"mine","report_id":"r1","farmer_id":"f1"}`, http.StatusNotFound, "not_found"},
		{"missing farmer", `{"action":"mine","report_id":"r1"}`, http.StatusBadRequest, "invalid_input"},
	}
	for _, tt := range tests {
		code, body := do(t, http.MethodPost, srv.URL+"/api/v1/claims", "", tt.body)
		if code != tt.wantStatus || body["error"] != tt.wantCode {
			t.Fatalf("%s: expected %d %s, got %d %v", tt.name, tt.wantStatus, tt.wantCode, code, body)
		}
	}
}

func TestRouter_ListPagingBounds(t *testing.T) {
	srv := newTestServer(t)

	if code, _ := do(t, http.MethodPost, srv.URL+"/api/v1/intake/reports", "intake-key", `{"lat":1,"lng":1}`); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}

	code, body := do(t, http.MethodGet, srv.URL+"/api/v1/reports?page=9223372036854775807&limit=20", "", "")
	if code != http.StatusOK || body["total"] != float64(1) {
		t.Fatalf("huge page: %d %v", code, body)
	}
	if reports, _ := body["reports"].([]any); len(reports) != 0 {
		t.Fatalf("expected empty page, got %v", body["reports"])
	}

	code, body = do(t, http.MethodGet, srv.URL+"/api/v1/reports?limit=-5", "", "")
	if code != http.StatusOK || body["limit"] != float64(20) || body["page"] != float64(1) {
		t.Fatalf("negative limit: %d %v", code, body)
	}
}

func TestRouter_IntakeRequiresAPIKey(t *testing.T) {
	srv := newTestServer(t)

	code, _ := do(t, http.MethodPost, srv.URL+"/api/v1/intake/reports", "", `{"lat":1,"lng":1}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", code)
	}
}

func TestRouter_OpenFeedAndList(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 2; i++ {
		if code, _ := do(t, http.MethodPost, srv.URL+"/api/v1/intake/reports", "intake-key", `{"lat":1,"lng":1}`); code != http.StatusCreated {
			t.Fatalf("create: %d", code)
		}
	}

	code, body := do(t, http.MethodGet, srv.URL+"/api/v1/reports/feed", "", "")
	if code != http.StatusOK {
		t.Fatalf("feed: %d", code)
	}
	if feed, _ := body["reports"].([]any); len(feed) != 2 {
		t.Fatalf("expected 2 open reports in feed, got %v", body["reports"])
	}

	code, body = do(t, http.MethodGet, srv.URL+"/api/v1/reports?status=dismissed", "", "")
	if code != http.StatusOK || body["total"] != float64(0) {
		t.Fatalf("list dismissed: %d %v", code, body)
	}

	code, body = do(t, http.MethodGet, srv.URL+"/api/v1/reports?status=lost", "", "")
	if code != http.StatusBadRequest {
		t.Fatalf("list invalid status: %d %v", code, body)
	}
}
