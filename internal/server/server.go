package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/vanshika/erdos/backend/internal/config"
	"github.com/vanshika/erdos/backend/internal/domain"
)

// Server serves the Erdős API over HTTP for one immutable coauthor graph.
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
	stats           domain.GraphStats
}

// New constructs a Server for handler. stats describes the graph being served
// and is reported when the listener comes up.
func New(logger *slog.Logger, cfg config.HTTPConfig, handler http.Handler, stats domain.GraphStats) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
		stats:           stats,
	}
}

// Run listens until ctx is done, then drains in-flight queries for at most the
// configured shutdown timeout. A listener failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("serving erdos api",
		"addr", ln.Addr().String(),
		"authors", s.stats.Authors,
		"edges", s.stats.Edges,
		"mode", s.stats.DistanceMode,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server", "timeout", s.shutdownTimeout.String())
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
