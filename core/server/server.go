package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
)

// ErrAlreadyRunning is returned by Start when the server is running.
var ErrAlreadyRunning = errors.New("server: already running")

// Server wraps http.Server with graceful shutdown. TLS termination is the
// reverse proxy's job; this server only ever speaks plain HTTP.
// Safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	addr     string
	server   *http.Server
	log      *slog.Logger
	shutdown time.Duration
	timeouts timeouts
	running  bool
}

type timeouts struct {
	read       time.Duration
	readHeader time.Duration
	write      time.Duration
	idle       time.Duration
}

// New creates a server listening on addr.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		log:      logger.NewDiscard(),
		shutdown: 10 * time.Second,
		timeouts: timeouts{
			read:       15 * time.Second,
			readHeader: 5 * time.Second,
			write:      15 * time.Second,
			idle:       60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start serves handler and blocks until the context is cancelled or the
// listener fails. On cancellation the server drains in-flight requests for up
// to the shutdown timeout before returning.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadTimeout:       s.timeouts.read,
		ReadHeaderTimeout: s.timeouts.readHeader,
		WriteTimeout:      s.timeouts.write,
		IdleTimeout:       s.timeouts.idle,
	}
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "server listening", slog.String("addr", s.addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop drains in-flight requests for up to the shutdown timeout. Returns nil
// if the server is not running.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.running = false
	if err != nil {
		s.log.Error("server shutdown failed", logger.Error(err))
		return err
	}

	s.log.Info("server stopped")
	return nil
}
