// Package server is the composition root: it wires the repositories,
// services, and handlers together and owns the HTTP server lifecycle.
//
// DEPENDENCY FLOW:
//
//	config.Config → sqlite.DB → services → handlers → routes
//
// Everything is assembled here, in one place; no other package constructs
// its own dependencies.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/colesites/TaskMaster/internal/auth"
	"github.com/colesites/TaskMaster/internal/config"
	"github.com/colesites/TaskMaster/internal/handler"
	"github.com/colesites/TaskMaster/internal/middleware"
	sqliteRepo "github.com/colesites/TaskMaster/internal/repository/sqlite"
	"github.com/colesites/TaskMaster/internal/service"
)

// Server holds the router and the resources it owns. The database
// connection belongs to the server and is closed during shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds a fully wired Server.
//
// A store that cannot be opened is returned as an error and main treats it
// as fatal — the process must never serve traffic against a broken store.
// The same goes for an unusable JWT secret: with no way to mint or verify
// tokens, every route would be dead on arrival.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, wires the dependency chain, and maps
// the route table:
//
//	POST   /sign-up             register, no auth
//	POST   /sign-in             authenticate, no auth
//	GET    /api/user-data       profile            (auth)
//	POST   /api/tasks           create task        (auth)
//	GET    /api/tasks           list owned tasks   (auth)
//	PATCH  /api/tasks/{id}      partial update     (auth)
//	DELETE /api/tasks/{id}      delete             (auth)
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	taskService := service.NewTaskService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)

	// Global middleware, in order: request ID → real IP → panic recovery →
	// request logging → CORS.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Cross-origin access is restricted to the configured allow-list.
	// AllowCredentials lets browsers send the token cookie fallback.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes: credential exchange only.
	s.router.Post("/sign-up", authHandler.HandleSignUp)
	s.router.Post("/sign-in", authHandler.HandleSignIn)

	// Everything under /api requires a valid token. RequireAuth rejects
	// with 401 before any handler runs.
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/user-data", authHandler.HandleUserData)

		r.Post("/tasks", taskHandler.HandleCreate)
		r.Get("/tasks", taskHandler.HandleList)
		r.Patch("/tasks/{id}", taskHandler.HandleUpdate)
		r.Delete("/tasks/{id}", taskHandler.HandleDelete)
	})

	return nil
}

// Handler exposes the router, mainly for httptest in integration-style
// tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start callers
// don't need it; it exists for tests that use Handler directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
