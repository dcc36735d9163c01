package sessiontransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/cookie"
	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
)

// Cookie resolves the session identifier for the current browser context from
// a signed cookie, minting and persisting a fresh identifier when none is
// recoverable. The cookie carries only the identifier; tokens and claims
// never leave the server, and never appear in URLs.
type Cookie struct {
	cookies *cookie.Manager
	name    string
	maxAge  int
	log     *slog.Logger
}

// NewCookie creates a cookie-based identifier resolver. A nil logger is
// replaced with a discard logger.
func NewCookie(cookies *cookie.Manager, name string, maxAge time.Duration, log *slog.Logger) *Cookie {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Cookie{
		cookies: cookies,
		name:    name,
		maxAge:  int(maxAge.Seconds()),
		log:     log.With(logger.Component("sessiontransport")),
	}
}

// Resolve returns the stable identifier for this browser context.
//
// A valid signed cookie yields its embedded identifier. Anything else —
// missing cookie, bad signature, malformed identifier — fails soft: a fresh
// identifier is minted, written back, and returned. The only hard failure is
// entropy exhaustion while minting.
//
// When w is nil (no response headers available at this point in the cycle)
// the mint cannot be persisted; the fresh identifier is still returned so the
// interaction can proceed. Such identifiers orphan their record on the next
// visit, which is accepted data loss, not an error.
func (c *Cookie) Resolve(w http.ResponseWriter, r *http.Request) (session.ID, error) {
	if id, err := c.ResolveExisting(r); err == nil {
		return id, nil
	}

	id, err := session.NewID()
	if err != nil {
		return "", err
	}

	if w == nil {
		c.log.Warn("no response writer available, issuing unpersisted session identifier")
		return id, nil
	}

	if err := c.cookies.SetSigned(w, c.name, string(id), cookie.WithMaxAge(c.maxAge)); err != nil {
		// Fail soft: the interaction still gets an identifier, the next visit
		// mints again.
		c.log.Warn("failed to persist session identifier cookie", logger.Error(err))
	}

	return id, nil
}

// ResolveExisting reads a previously issued identifier without minting.
// Returns ErrNoIdentifier when the cookie is absent, tampered with, or holds
// a malformed identifier.
func (c *Cookie) ResolveExisting(r *http.Request) (session.ID, error) {
	value, err := c.cookies.GetSigned(r, c.name)
	if err != nil {
		return "", ErrNoIdentifier
	}

	id := session.ID(value)
	if !id.Valid() {
		return "", ErrNoIdentifier
	}

	return id, nil
}

// Clear deletes the identifier cookie. Called on logout together with the
// store-side delete; clearing only the cookie would leave the record
// reachable if the identifier leaked.
func (c *Cookie) Clear(w http.ResponseWriter) {
	c.cookies.Delete(w, c.name)
}

// Name returns the cookie name in use.
func (c *Cookie) Name() string {
	return c.name
}
