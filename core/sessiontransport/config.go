package sessiontransport

import (
	"log/slog"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/cookie"
)

// Config provides environment-based configuration for the cookie-based
// identifier resolver.
type Config struct {
	// CookieName is the name of the session identifier cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"pimba_sid"`

	// CookieMaxAge is how long the browser keeps the identifier. It should
	// not be shorter than the record retention window, or sessions die with
	// the cookie instead of with the record.
	CookieMaxAge time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"168h"`
}

// NewCookieFromConfig creates a cookie-based identifier resolver from
// configuration. The cookie.Manager must be provided by the caller.
func NewCookieFromConfig(cfg Config, cookies *cookie.Manager, log *slog.Logger) *Cookie {
	return NewCookie(cookies, cfg.CookieName, cfg.CookieMaxAge, log)
}
