// Package session issues and tracks anonymous storefront sessions. A session
// is an opaque key carried in a cookie; carts, favorites and ratings are all
// scoped by it. No authentication is involved.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	cookieName = "rugstore_session"
	ttl        = 30 * 24 * time.Hour
)

// Data is the bookkeeping stored per session key.
type Data struct {
	CreatedAt int64 `json:"created_at"`
}

// Store defines the interface for session storage
type Store interface {
	Get(ctx context.Context, key string) (*Data, bool)
	Set(ctx context.Context, key string, data *Data, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}

// Manager hands out session keys and keeps their cookies fresh.
type Manager struct {
	store  Store
	secure bool
}

func NewManager(store Store, secure bool) *Manager {
	return &Manager{
		store:  store,
		secure: secure,
	}
}

func (m *Manager) Close() error {
	if m == nil || m.store == nil {
		return nil
	}
	return m.store.Close()
}

// EnsureSession returns the request's session key, minting a new one and
// setting its cookie when the request carries none (or carries a key the
// store no longer knows). The cookie's lifetime is extended on every call so
// an active visitor's cart does not expire midway through a visit.
func (m *Manager) EnsureSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	if ctx == nil {
		ctx = r.Context()
	}

	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		if data, ok := m.store.Get(ctx, cookie.Value); ok {
			m.store.Set(ctx, cookie.Value, data, ttl)
			m.setCookie(w, cookie.Value)
			return cookie.Value, nil
		}
	}

	key := uuid.NewString()
	m.store.Set(ctx, key, &Data{CreatedAt: time.Now().Unix()}, ttl)
	m.setCookie(w, key)
	return key, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    key,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cloneData(data *Data) *Data {
	if data == nil {
		return nil
	}
	cloned := *data
	return &cloned
}
