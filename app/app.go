package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rugstoreapp/rugstore/internal/auth"
	"github.com/rugstoreapp/rugstore/internal/cache"
	"github.com/rugstoreapp/rugstore/internal/catalog"
	"github.com/rugstoreapp/rugstore/internal/config"
	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/email"
	"github.com/rugstoreapp/rugstore/internal/handlers"
	"github.com/rugstoreapp/rugstore/internal/services"
	"github.com/rugstoreapp/rugstore/internal/session"
)

type App struct {
	Config         *config.Config
	Logger         *slog.Logger
	DB             *pgxpool.Pool
	CacheProvider  cache.Provider
	SessionManager *session.Manager
	Handlers       *handlers.Handlers
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL, logger.With("component", "db"))
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(startupCtx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	sessionStore, err := session.NewStore(startupCtx, session.Config{
		Provider:              cfg.SessionStoreProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	sessionManager := session.NewManager(sessionStore, cfg.SecureCookies)

	authService, err := auth.NewService(cfg.AdminTokenSecret, cfg.AdminPassword)
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	productStore := db.NewProductStore(database)
	cartStore := db.NewCartStore(database)
	orderStore := db.NewOrderStore(database)
	favoriteStore := db.NewFavoriteStore(database)
	ratingStore := db.NewRatingStore(database)

	if cfg.CatalogSeedPath != "" {
		seeder := catalog.NewSeeder(productStore, logger.With("component", "catalog_seeder"))
		if err := seeder.SeedFromFile(startupCtx, cfg.CatalogSeedPath); err != nil {
			closeSessionManager(logger, sessionManager)
			closeCacheProvider(logger, cacheProvider)
			database.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	var notifier services.OrderNotifier
	if cfg.EmailEnabled() {
		emailProvider, err := email.NewProvider(email.Config{
			Provider: cfg.EmailProvider,
			APIKey:   cfg.EmailAPIKey,
			From:     cfg.EmailFrom,
			Domain:   cfg.MailgunDomain,
		})
		if err != nil {
			closeSessionManager(logger, sessionManager)
			closeCacheProvider(logger, cacheProvider)
			database.Close()
			return nil, fmt.Errorf("failed to initialize email provider: %w", err)
		}
		notifier = services.NewNotifier(emailProvider, cfg.ShopName, cfg.OperatorEmail, logger.With("component", "notifier"))
	}

	cartService := services.NewCartService(cartStore, productStore, logger.With("component", "cart_service"))
	propagationService := services.NewPropagationService(cartStore, logger.With("component", "propagation_service"))
	productService := services.NewProductService(productStore, cacheProvider, propagationService, logger.With("component", "product_service"))
	checkoutService := services.NewCheckoutService(cartStore, productStore, orderStore, notifier, logger.With("component", "checkout_service"))
	favoriteService := services.NewFavoriteService(favoriteStore, productStore, logger.With("component", "favorite_service"))
	ratingService := services.NewRatingService(ratingStore, productStore, logger.With("component", "rating_service"))

	h, err := handlers.New(handlers.Dependencies{
		Config:          cfg,
		DB:              database,
		CartService:     cartService,
		CheckoutService: checkoutService,
		ProductService:  productService,
		FavoriteService: favoriteService,
		RatingService:   ratingService,
		OrderStore:      orderStore,
		AuthService:     authService,
		SessionManager:  sessionManager,
		Logger:          logger,
	})
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             database,
		CacheProvider:  cacheProvider,
		SessionManager: sessionManager,
		Handlers:       h,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.SessionManager != nil {
		closeSessionManager(a.Logger, a.SessionManager)
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	case "text", "":
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel}))
}

func closeSessionManager(logger *slog.Logger, manager *session.Manager) {
	if manager == nil {
		return
	}
	if err := manager.Close(); err != nil && logger != nil {
		logger.Warn("failed to close session manager", "error", err)
	}
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
