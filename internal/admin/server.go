// Package admin serves the relay's operator endpoints: Prometheus metrics,
// counters as JSON, a live WebSocket feed of frames and a health check.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the admin server.
type Config struct {
	// Gatherer backs GET /metrics. Default: prometheus.DefaultGatherer
	Gatherer prometheus.Gatherer

	// Stats returns the value served as JSON by GET /stats.
	Stats func() any

	// Feed backs GET /feed. Nil disables the route.
	Feed *Feed

	// Logger logs server failures. Default: slog.Default()
	Logger *slog.Logger
}

// Server is the admin HTTP server.
type Server struct {
	router chi.Router
	logger *slog.Logger
}

// New creates the admin server and its routes.
func New(cfg Config) *Server {
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		var v any = struct{}{}
		if cfg.Stats != nil {
			v = cfg.Stats()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	})
	if cfg.Feed != nil {
		r.Get("/feed", cfg.Feed.HandleWebSocket)
	}

	return &Server{router: r, logger: cfg.Logger}
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve serves on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(l) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("admin shutdown", "error", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("admin listening", "addr", l.Addr().String())
	return s.Serve(ctx, l)
}
