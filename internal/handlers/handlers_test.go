package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rugstoreapp/rugstore/internal/auth"
	"github.com/rugstoreapp/rugstore/internal/services"
)

func testHandlers(t *testing.T) *Handlers {
	t.Helper()
	return &Handlers{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid size", services.ErrInvalidSize, http.StatusBadRequest},
		{"invalid quantity", services.ErrInvalidQuantity, http.StatusBadRequest},
		{"missing fields", services.ErrMissingFields, http.StatusBadRequest},
		{"policy not accepted", services.ErrPolicyNotAccepted, http.StatusBadRequest},
		{"empty cart", services.ErrEmptyCart, http.StatusBadRequest},
		{"session not found", services.ErrSessionNotFound, http.StatusUnauthorized},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"product not found", services.ErrProductNotFound, http.StatusNotFound},
		{"line not found", services.ErrLineNotFound, http.StatusNotFound},
		{"duplicate line", services.ErrDuplicateLine, http.StatusConflict},
		{"duplicate rating", services.ErrDuplicateRating, http.StatusConflict},
		{"transaction failure", services.ErrTransactionFailure, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, _ := statusForError(tc.err)
			if got != tc.want {
				t.Fatalf("statusForError(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestStatusForErrorHidesUnknownText(t *testing.T) {
	t.Parallel()

	_, message := statusForError(errors.New("pq: password authentication failed"))
	if strings.Contains(message, "password") {
		t.Fatalf("unknown error text leaked: %q", message)
	}
}

func TestStatusForErrorWrappedSentinel(t *testing.T) {
	t.Parallel()

	// Checkout wraps the cause inside the sentinel.
	wrapped := services.ErrTransactionFailure
	status, _ := statusForError(errors.Join(wrapped, errors.New("deadlock")))
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	h := testHandlers(t)
	handler := h.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	t.Parallel()

	h := testHandlers(t)
	handler := h.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header missing")
	}

	// Incoming request IDs are propagated, not replaced.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("X-Request-ID = %q, want req-42", got)
	}
}

func TestAdminLogin(t *testing.T) {
	t.Parallel()

	authService, err := auth.NewService("secret-for-tests", "hunter2")
	if err != nil {
		t.Fatalf("auth.NewService() error = %v", err)
	}
	h := testHandlers(t)
	h.authService = authService

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"password":"hunter2"}`))
	h.AdminLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "token") {
		t.Fatalf("body = %s, want a token", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"password":"wrong"}`))
	h.AdminLogin(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{`))
	h.AdminLogin(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
