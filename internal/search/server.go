// Package search serves the built static report (including the search page
// and its JSON index) over HTTP, with request metrics on /metrics.
package search

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/icecake0141/switchmap/internal/config"
)

// Server serves the output directory of a site build.
type Server struct {
	cfg       config.ServerConfig
	outputDir string
	logger    *zap.Logger
}

// NewServer creates a Server for the given output directory.
func NewServer(cfg config.ServerConfig, outputDir string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{cfg: cfg, outputDir: outputDir, logger: logger}
}

// Handler builds the full HTTP handler: static files under /, Prometheus
// metrics under /metrics, wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", http.FileServer(http.Dir(s.outputDir)))

	return chain(mux,
		recoveryMiddleware(s.logger),
		rateLimitMiddleware(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst),
		loggingMiddleware(s.logger),
		securityHeadersMiddleware,
	)
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("search server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
