package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
	"github.com/tech-sports-pimba/pimba-mvp/core/sessiontransport"
)

type sessionKey struct{}

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Transport resolves the session identifier from the request (required).
	Transport *sessiontransport.Cookie
	// Manager provides store access for hydration and the sweep (required).
	Manager *session.Manager
	// Validator re-confirms hydrated sessions. Optional; when nil, hydrated
	// sessions are only checked locally for record expiry.
	Validator *session.Validator
	// Logger for structured logging (default: discard).
	Logger *slog.Logger
	// Skip disables session handling for matching requests (health checks).
	Skip func(r *http.Request) bool
}

// Session builds the per-interaction session context: resolve the identifier,
// hydrate from the store, run the validator, attach the context to the
// request, and trigger the rate-limited expired-record sweep. Hydration
// failures degrade to an anonymous context; only identifier minting failure
// (entropy exhaustion) aborts the request.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Transport == nil || cfg.Manager == nil {
		panic("middleware: session transport and manager are required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewDiscard()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			id, err := cfg.Transport.Resolve(w, r)
			if err != nil {
				log.ErrorContext(r.Context(), "failed to resolve session identifier", logger.Error(err))
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

			sc := session.NewContext(id)
			if sc.Hydrate(r.Context(), cfg.Manager) {
				if cfg.Validator != nil {
					rec, _ := sc.Record()
					state, rec := cfg.Validator.Validate(r.Context(), id, rec)
					if state == session.StateValid {
						sc.Set(rec)
					} else {
						// Expired states leave the interaction anonymous but
						// keep the verdict visible so handlers can explain
						// why the user got logged out.
						sc.Clear()
						sc.SetState(state)
					}
				} else {
					sc.SetState(session.StateValid)
				}
			}

			cfg.Manager.MaybeSweep(r.Context())

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), sessionKey{}, sc),
			))
		})
	}
}

// GetSession retrieves the session context attached by the Session
// middleware. Returns false when the middleware did not run for this request.
func GetSession(r *http.Request) (*session.Context, bool) {
	sc, ok := r.Context().Value(sessionKey{}).(*session.Context)
	return sc, ok
}

// RequireAuth rejects unauthenticated requests with 401. An expired-remote
// verdict also lands here: by that point the record is deleted and the
// interaction is anonymous again.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, ok := GetSession(r)
		if !ok || !sc.IsAuthenticated() {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects authenticated requests whose role is not in the allow
// list with 403. Unauthenticated requests get 401, same as RequireAuth.
func RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	allowed := make(map[session.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := GetSession(r)
			if !ok || !sc.IsAuthenticated() {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			rec, _ := sc.Record()
			if _, ok := allowed[rec.User.Role]; !ok {
				http.Error(w, "insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
