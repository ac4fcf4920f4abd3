package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lotterypool/application"

	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of the lottery service
type Server struct {
	httpServer *http.Server
}

// New creates a server listening on addr
func New(addr string, pools application.LotteryPoolHandler, opts Options) *Server {
	if opts.CallerKeySecret == "" {
		log.Warn("No caller key secret configured; caller addresses are not authenticated")
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(pools, opts),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
