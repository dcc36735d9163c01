package server

import (
	"errors"
	"log/slog"
	"time"
)

// Config provides environment-based configuration for the HTTP server.
type Config struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig creates a server from configuration. Options override config
// values.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, errors.New("server: address is required")
	}

	base := []Option{
		WithTimeouts(cfg.ReadTimeout, cfg.ReadHeaderTimeout, cfg.WriteTimeout, cfg.IdleTimeout),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	return New(cfg.Addr, append(base, opts...)...), nil
}

// Option configures server behavior.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithShutdownTimeout bounds the graceful drain on Stop.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdown = d
		}
	}
}

// WithTimeouts sets the connection timeouts. Non-positive values keep the
// defaults.
func WithTimeouts(read, readHeader, write, idle time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.timeouts.read = read
		}
		if readHeader > 0 {
			s.timeouts.readHeader = readHeader
		}
		if write > 0 {
			s.timeouts.write = write
		}
		if idle > 0 {
			s.timeouts.idle = idle
		}
	}
}
