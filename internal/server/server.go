// Package server wires the handlers, middleware, and storage into an HTTP
// server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitroom/splitroom/internal/auth"
	"github.com/splitroom/splitroom/internal/config"
	"github.com/splitroom/splitroom/internal/handlers"
	"github.com/splitroom/splitroom/internal/metrics"
	"github.com/splitroom/splitroom/internal/middleware"
	"github.com/splitroom/splitroom/internal/service"
	"github.com/splitroom/splitroom/internal/storage"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	store      storage.Store
	logger     *slog.Logger
}

// New constructs a Server over the given store.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	roomService := service.NewRoomService(store, store, store, logger)
	expenseService := service.NewExpenseService(store, store, logger)
	userService := service.NewUserService(store, store, logger)

	requireAuth := middleware.RequireAuth(jwtManager, handlers.WriteError)

	authHandler := handlers.NewAuthHandler(authenticator, jwtManager, userService, cfg.SecureCookies)
	roomHandler := handlers.NewRoomHandler(roomService, expenseService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	userHandler := handlers.NewUserHandler(userService)

	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		chimiddleware.Timeout(60*time.Second),
		metrics.Middleware,
		middleware.RequestLogger,
	)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", metrics.Handler())

	router.Route("/auth", func(r chi.Router) {
		authHandler.Routes(r, requireAuth)
	})
	router.Route("/rooms", func(r chi.Router) {
		r.Use(requireAuth)
		roomHandler.Routes(r)
	})
	router.Route("/expenses", func(r chi.Router) {
		r.Use(requireAuth)
		expenseHandler.Routes(r)
	})
	router.Route("/users", func(r chi.Router) {
		r.Use(requireAuth)
		userHandler.Routes(r)
	})

	// h2c lets HTTP/2 clients connect without TLS; TLS termination is the
	// proxy's job.
	h2cHandler := h2c.NewHandler(router, &http2.Server{})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      h2cHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		store:      store,
		logger:     logger,
	}, nil
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("server starting", "address", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if closeErr := s.store.Close(); err == nil {
		err = closeErr
	}
	return err
}
