package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flockwatch/pkg/e"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAPIKeyMiddleware(t *testing.T) {
	t.Parallel()

	h := APIKeyMiddleware("secret")(okHandler)

	cases := []struct {
		name string
		key  string
		want int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusUnauthorized},
		{"ok", "secret", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tc.key != "" {
			req.Header.Set(APIKeyHeader, tc.key)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, rr.Code)
		}
	}
}

func TestAPIKeyMiddleware_EmptyKeyRejectsAll(t *testing.T) {
	t.Parallel()

	h := APIKeyMiddleware("")(okHandler)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestRateLimiter_BurstThen429(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	l := newRateLimiter(1, 2, time.Minute)
	h := l.LimitMiddleware(logger)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes: %v", codes)
	}

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for second client, got %d", rr.Code)
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	t.Parallel()

	l := newRateLimiter(1, 1, time.Minute)
	l.getVisitor("10.0.0.1")

	l.evictIdle(time.Now())
	if len(l.visitors) != 1 {
		t.Fatalf("fresh visitor evicted")
	}
	l.evictIdle(time.Now().Add(2 * time.Minute))
	if len(l.visitors) != 0 {
		t.Fatalf("idle visitor kept")
	}
}

type bindTarget struct {
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat" validate:"lat"`
}

func TestBindJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"ok", `{"name":"x","lat":10}`, false},
		{"bad_json", `{bad`, true},
		{"empty", ``, true},
		{"unknown_field", `{"name":"x","foo":1}`, true},
		{"trailing", `{"name":"x"}{"x":1}`, true},
		{"validation", `{"name":"x","lat":95}`, true},
		{"missing_required", `{"lat":1}`, true},
	}
	for _, tc := range cases {
		var dst bindTarget
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tc.body))
		err := BindJSON(httptest.NewRecorder(), req, &dst)
		if tc.wantErr {
			if !errors.Is(err, e.ErrInvalidInput) {
				t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", tc.name, err)
		}
	}
}

func TestDecodeJSON_SkipsValidation(t *testing.T) {
	t.Parallel()

	var dst bindTarget
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"lat":95}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, &dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if err := Validate(&dst); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput from Validate, got %v", err)
	}
}
