// Package server wires the HTTP surface: router, middleware, auth and the
// trending endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"trendscope/internal/auth"
	"trendscope/internal/config"
	"trendscope/internal/monitoring"
	"trendscope/internal/server/handlers"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	server *http.Server
}

func New(
	cfg *config.ServerConfig,
	db Pinger,
	monitor *monitoring.Monitor,
	authmw *auth.Middleware,
	authHandler *handlers.AuthHandler,
	trendingHandler *handlers.TrendingHandler,
	logger *log.Logger,
) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			logger.Printf("Health check: database ping failed: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "Service unhealthy - database unreachable")
			return
		}
		if !monitor.IsHealthy() {
			// A failed chart refresh only degrades the snapshot fallback;
			// the service itself still serves requests.
			fmt.Fprintf(w, "OK (degraded) - %s", monitor.StatusSummary())
			return
		}
		fmt.Fprintf(w, "OK - %s", monitor.StatusSummary())
	})

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Post("/token", authHandler.Token)
	})

	router.Route("/api/trending", func(r chi.Router) {
		r.With(authmw.Optional).Post("/analyze", trendingHandler.Analyze)
		r.With(authmw.Require).Get("/history", trendingHandler.History)
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{server: httpServer}
}

func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
