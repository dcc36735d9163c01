package session

import "time"

// Config holds session lifecycle policy. The re-check cadence and inactivity
// window default to the values the product shipped with, but they are policy,
// not contract: deployments tune them via environment.
type Config struct {
	// TTL is the absolute retention window of a record from login.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"` // 7 days

	// IdleTimeout invalidates a session this long after login regardless of
	// remote validity.
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"60m"`

	// RecheckInterval throttles remote re-validation.
	RecheckInterval time.Duration `env:"SESSION_RECHECK_INTERVAL" envDefault:"5m"`

	// RecheckTimeout bounds the remote re-validation call so a slow identity
	// provider cannot stall an interaction.
	RecheckTimeout time.Duration `env:"SESSION_RECHECK_TIMEOUT" envDefault:"3s"`

	// SweepInterval rate-limits the expired-record sweep triggered from the
	// request path.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`

	// DevTokenPrefix marks development bypass tokens that never hit the
	// network and stay valid until timeout. Empty disables the bypass.
	DevTokenPrefix string `env:"SESSION_DEV_TOKEN_PREFIX" envDefault:"dev-mock-"`
}

// DefaultConfig returns the shipped policy defaults.
func DefaultConfig() Config {
	return Config{
		TTL:             7 * 24 * time.Hour,
		IdleTimeout:     60 * time.Minute,
		RecheckInterval: 5 * time.Minute,
		RecheckTimeout:  3 * time.Second,
		SweepInterval:   10 * time.Minute,
		DevTokenPrefix:  "dev-mock-",
	}
}
