package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rugstoreapp/rugstore/internal/config"
	"github.com/rugstoreapp/rugstore/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.SessionMiddleware)

	api.HandleFunc("/products", h.ProductList).Methods("GET").Name("products.list")
	api.HandleFunc("/products/newest", h.ProductNewest).Methods("GET").Name("products.newest")
	api.HandleFunc("/products/{productID:[0-9]+}", h.ProductGet).Methods("GET").Name("products.get")
	api.HandleFunc("/products/{productID:[0-9]+}/ratings", h.RatingList).Methods("GET").Name("ratings.list")
	api.HandleFunc("/products/{productID:[0-9]+}/ratings", h.RatingCreate).Methods("POST").Name("ratings.create")

	api.HandleFunc("/cart", h.CartList).Methods("GET").Name("cart.list")
	api.HandleFunc("/cart", h.CartAdd).Methods("POST").Name("cart.add")
	api.HandleFunc("/cart/{lineID:[0-9]+}", h.CartUpdateQuantity).Methods("PATCH").Name("cart.update")
	api.HandleFunc("/cart/{lineID:[0-9]+}", h.CartRemove).Methods("DELETE").Name("cart.remove")

	api.HandleFunc("/orders", h.OrderCreate).Methods("POST").Name("orders.create")
	api.HandleFunc("/orders/direct", h.OrderCreateOne).Methods("POST").Name("orders.create_one")

	api.HandleFunc("/favorites", h.FavoriteList).Methods("GET").Name("favorites.list")
	api.HandleFunc("/favorites", h.FavoriteAdd).Methods("POST").Name("favorites.add")
	api.HandleFunc("/favorites/{productID:[0-9]+}", h.FavoriteRemove).Methods("DELETE").Name("favorites.remove")

	api.HandleFunc("/admin/login", h.AdminLogin).Methods("POST").Name("admin.login")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.RequireAdmin)
	admin.HandleFunc("/products", h.ProductCreate).Methods("POST").Name("admin.products.create")
	admin.HandleFunc("/products/{productID:[0-9]+}", h.ProductUpdate).Methods("PUT").Name("admin.products.update")
	admin.HandleFunc("/products/{productID:[0-9]+}", h.ProductDelete).Methods("DELETE").Name("admin.products.delete")
	admin.HandleFunc("/orders", h.AdminOrderList).Methods("GET").Name("admin.orders.list")
	admin.HandleFunc("/orders/{orderID:[0-9]+}", h.AdminOrderGet).Methods("GET").Name("admin.orders.get")

	return r
}
