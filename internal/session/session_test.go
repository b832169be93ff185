package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEnsureSessionMintsKey(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	key, err := m.EnsureSession(req.Context(), rec, req)
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if key == "" {
		t.Fatal("EnsureSession() returned empty key")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cookieName {
		t.Fatalf("got cookies %v, want one %s cookie", cookies, cookieName)
	}
	if cookies[0].Value != key {
		t.Errorf("cookie value = %q, want %q", cookies[0].Value, key)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
}

func TestEnsureSessionReusesKnownKey(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), false)

	first := httptest.NewRecorder()
	firstReq := httptest.NewRequest(http.MethodGet, "/", nil)
	key, err := m.EnsureSession(firstReq.Context(), first, firstReq)
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}

	second := httptest.NewRecorder()
	secondReq := httptest.NewRequest(http.MethodGet, "/", nil)
	secondReq.AddCookie(&http.Cookie{Name: cookieName, Value: key})

	got, err := m.EnsureSession(secondReq.Context(), second, secondReq)
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if got != key {
		t.Fatalf("EnsureSession() = %q, want reused %q", got, key)
	}
}

func TestEnsureSessionReplacesUnknownKey(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "stale-key"})

	key, err := m.EnsureSession(req.Context(), rec, req)
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if key == "stale-key" {
		t.Fatal("EnsureSession() kept a key the store does not know")
	}
}

func TestMiddlewarePutsKeyInContext(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(), false)

	var got string
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = KeyFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got == "" {
		t.Fatal("session key missing from request context")
	}
}

func TestKeyFromContextWithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if key := KeyFromContext(req.Context()); key != "" {
		t.Fatalf("KeyFromContext() = %q, want empty", key)
	}
}
