package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
	"github.com/tech-sports-pimba/pimba-mvp/integration/identity"
)

// Config provides environment-based configuration for the login flow.
type Config struct {
	// DevMode enables the development role-selection login. Never enable in
	// production: dev records skip remote validation entirely.
	DevMode bool `env:"DEV_MODE" envDefault:"false"`
}

// ClaimsResolver turns a freshly issued bearer token into the full user
// claims, including role and tenant scope. The business API's /users/me
// endpoint is the production implementation.
type ClaimsResolver interface {
	WhoAmI(ctx context.Context, token string) (session.Claims, error)
}

// Flow drives the anonymous-to-authenticated transition: credential exchange
// with the identity provider, claims resolution against the business API,
// then the store write and the per-interaction cache update.
type Flow struct {
	sessions *session.Manager
	provider identity.Provider
	claims   ClaimsResolver
	devMode  bool
	log      *slog.Logger
}

// NewFlow creates a login flow orchestrator. A nil logger is replaced with a
// discard logger.
func NewFlow(sessions *session.Manager, provider identity.Provider, claims ClaimsResolver, cfg Config, log *slog.Logger) *Flow {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Flow{
		sessions: sessions,
		provider: provider,
		claims:   claims,
		devMode:  cfg.DevMode,
		log:      log.With(logger.Component("auth")),
	}
}

// Login exchanges credentials for a session record and persists it under the
// interaction's identifier. On success the record lands in both the store
// and the per-interaction context; on failure the context is untouched.
//
// Credential rejections surface as ErrInvalidCredentials or
// ErrAccountDisabled; a single message covers unknown email and wrong
// password so the login form never confirms account existence.
func (f *Flow) Login(ctx context.Context, sc *session.Context, email, password string) (session.Record, error) {
	token, _, err := f.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return session.Record{}, f.mapSignInError(ctx, email, err)
	}

	claims, err := f.claims.WhoAmI(ctx, token)
	if err != nil {
		// A token the provider just issued but the API rejects means the
		// account has no business-side user yet; that is a credential
		// problem from the user's point of view, not an outage.
		if errors.Is(err, session.ErrTokenRejected) {
			f.log.WarnContext(ctx, "issued token rejected by business api", logger.UserEmail(email))
			return session.Record{}, errors.Join(ErrInvalidCredentials, err)
		}
		return session.Record{}, errors.Join(ErrProviderUnavailable, err)
	}

	rec, err := session.NewRecord(token, claims, f.sessions.TTL())
	if err != nil {
		return session.Record{}, fmt.Errorf("auth: build record: %w", err)
	}

	if err := f.sessions.Put(ctx, sc.ID(), rec); err != nil {
		return session.Record{}, err
	}
	sc.Set(rec)

	f.log.InfoContext(ctx, "login succeeded",
		logger.UserEmail(claims.Email),
		slog.String("role", string(claims.Role)),
		logger.TenantID(claims.TenantID),
	)
	return rec, nil
}

// DevLogin creates a session for a fixed development identity without any
// external call. Only admin and trainer roles exist in dev mode; the trainer
// identity carries tenant 1 so tenant-filtered screens have data to show.
func (f *Flow) DevLogin(ctx context.Context, sc *session.Context, role session.Role) (session.Record, error) {
	if !f.devMode {
		return session.Record{}, ErrDevLoginDisabled
	}

	var (
		token  string
		claims session.Claims
	)
	switch role {
	case session.RoleAdmin:
		token = "dev-mock-token-admin"
		claims = session.Claims{
			UserID: "dev-mock-uid-admin",
			Name:   "Dev Admin",
			Email:  "admin@pimba.com",
			Role:   session.RoleAdmin,
		}
	case session.RoleTrainer:
		token = "dev-mock-token-personal"
		claims = session.Claims{
			UserID:   "dev-mock-uid-personal",
			Name:     "Dev Trainer",
			Email:    "personal@pimba.com",
			Role:     session.RoleTrainer,
			TenantID: 1,
		}
	default:
		return session.Record{}, fmt.Errorf("%w: %q has no dev identity", session.ErrInvalidRole, role)
	}

	rec, err := session.NewRecord(token, claims, f.sessions.TTL())
	if err != nil {
		return session.Record{}, fmt.Errorf("auth: build dev record: %w", err)
	}

	if err := f.sessions.Put(ctx, sc.ID(), rec); err != nil {
		return session.Record{}, err
	}
	sc.Set(rec)

	f.log.InfoContext(ctx, "dev login", slog.String("role", string(role)))
	return rec, nil
}

// Logout deletes the store-side record and clears the per-interaction cache.
// Deleting the record is what actually revokes access: the identifier may
// survive in a stale cookie, but it no longer resolves to anything.
func (f *Flow) Logout(ctx context.Context, sc *session.Context) error {
	err := f.sessions.Delete(ctx, sc.ID())
	sc.Clear()
	if err != nil {
		return err
	}

	f.log.InfoContext(ctx, "logout", logger.SessionID(string(sc.ID())))
	return nil
}

func (f *Flow) mapSignInError(ctx context.Context, email string, err error) error {
	switch {
	case errors.Is(err, identity.ErrEmailNotFound), errors.Is(err, identity.ErrInvalidPassword):
		f.log.InfoContext(ctx, "login rejected", logger.UserEmail(email))
		return errors.Join(ErrInvalidCredentials, err)
	case errors.Is(err, identity.ErrUserDisabled):
		return errors.Join(ErrAccountDisabled, err)
	case errors.Is(err, identity.ErrUnavailable):
		f.log.WarnContext(ctx, "identity provider unreachable during login", logger.Error(err))
		return errors.Join(ErrProviderUnavailable, err)
	default:
		return fmt.Errorf("auth: sign-in failed: %w", err)
	}
}
