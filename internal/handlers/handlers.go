package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rugstoreapp/rugstore/internal/auth"
	"github.com/rugstoreapp/rugstore/internal/config"
	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/logging"
	"github.com/rugstoreapp/rugstore/internal/services"
	"github.com/rugstoreapp/rugstore/internal/session"
)

const maxRequestBodyBytes = 1 << 20 // 1 MB

// Handlers provides the storefront's HTTP request handlers.
type Handlers struct {
	config          *config.Config
	db              *pgxpool.Pool
	cartService     *services.CartService
	checkoutService *services.CheckoutService
	productService  *services.ProductService
	favoriteService *services.FavoriteService
	ratingService   *services.RatingService
	orderStore      *db.OrderStore
	authService     *auth.Service
	sessionManager  *session.Manager
	logger          *slog.Logger
}

type Dependencies struct {
	Config          *config.Config
	DB              *pgxpool.Pool
	CartService     *services.CartService
	CheckoutService *services.CheckoutService
	ProductService  *services.ProductService
	FavoriteService *services.FavoriteService
	RatingService   *services.RatingService
	OrderStore      *db.OrderStore
	AuthService     *auth.Service
	SessionManager  *session.Manager
	Logger          *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("handlers dependencies: db is required")
	}
	if deps.CartService == nil {
		return nil, fmt.Errorf("handlers dependencies: cartService is required")
	}
	if deps.CheckoutService == nil {
		return nil, fmt.Errorf("handlers dependencies: checkoutService is required")
	}
	if deps.ProductService == nil {
		return nil, fmt.Errorf("handlers dependencies: productService is required")
	}
	if deps.FavoriteService == nil {
		return nil, fmt.Errorf("handlers dependencies: favoriteService is required")
	}
	if deps.RatingService == nil {
		return nil, fmt.Errorf("handlers dependencies: ratingService is required")
	}
	if deps.OrderStore == nil {
		return nil, fmt.Errorf("handlers dependencies: orderStore is required")
	}
	if deps.AuthService == nil {
		return nil, fmt.Errorf("handlers dependencies: authService is required")
	}
	if deps.SessionManager == nil {
		return nil, fmt.Errorf("handlers dependencies: sessionManager is required")
	}

	return &Handlers{
		config:          deps.Config,
		db:              deps.DB,
		cartService:     deps.CartService,
		checkoutService: deps.CheckoutService,
		productService:  deps.ProductService,
		favoriteService: deps.FavoriteService,
		ratingService:   deps.RatingService,
		orderStore:      deps.OrderStore,
		authService:     deps.AuthService,
		sessionManager:  deps.SessionManager,
		logger:          logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	if err := h.db.Ping(ctx); err != nil {
		logger.Error("database health check failed", "error", err)
		http.Error(w, "Database unhealthy", http.StatusServiceUnavailable)
		return
	}

	h.respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "healthy"})
}

// SessionMiddleware guarantees every request has a session key in context.
func (h *Handlers) SessionMiddleware(next http.Handler) http.Handler {
	return h.sessionManager.Middleware(next)
}

// RequireAdmin guards catalog mutation routes with bearer-token auth.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return h.authService.Middleware(next)
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func (h *Handlers) respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFromContext(ctx).Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.loggerFromContext(ctx).Error("request failed", "error", err)
	}
	h.respondJSON(ctx, w, status, map[string]string{"error": message})
}

// statusForError maps service sentinels onto HTTP statuses. Unknown errors
// collapse to 500 without leaking their text.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidSize):
		return http.StatusBadRequest, services.ErrInvalidSize.Error()
	case errors.Is(err, services.ErrInvalidQuantity):
		return http.StatusBadRequest, services.ErrInvalidQuantity.Error()
	case errors.Is(err, services.ErrMissingFields):
		return http.StatusBadRequest, services.ErrMissingFields.Error()
	case errors.Is(err, services.ErrPolicyNotAccepted):
		return http.StatusBadRequest, services.ErrPolicyNotAccepted.Error()
	case errors.Is(err, services.ErrEmptyCart):
		return http.StatusBadRequest, services.ErrEmptyCart.Error()
	case errors.Is(err, services.ErrInvalidGrade):
		return http.StatusBadRequest, services.ErrInvalidGrade.Error()
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusUnauthorized, services.ErrSessionNotFound.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound, services.ErrProductNotFound.Error()
	case errors.Is(err, services.ErrLineNotFound):
		return http.StatusNotFound, services.ErrLineNotFound.Error()
	case errors.Is(err, services.ErrDuplicateLine):
		return http.StatusConflict, services.ErrDuplicateLine.Error()
	case errors.Is(err, services.ErrDuplicateRating):
		return http.StatusConflict, services.ErrDuplicateRating.Error()
	case errors.Is(err, services.ErrTransactionFailure):
		return http.StatusInternalServerError, services.ErrTransactionFailure.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func sessionKey(r *http.Request) string {
	return session.KeyFromContext(r.Context())
}
