package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
)

// Config provides environment-based configuration for the Postgres backend.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/pimba?sslmode=disable"`
	ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Store persists session records in a sessions table keyed by the opaque
// identifier. A row upsert is atomic, which gives readers the same
// all-or-nothing guarantee the file backend gets from rename.
type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// New creates a Postgres-backed session store from an existing pool.
func New(pool *pgxpool.Pool, log *slog.Logger) *Store {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Store{
		pool: pool,
		log:  log.With(logger.Component("sessionstore.postgres")),
	}
}

// Connect opens a pgx pool, verifies connectivity, and returns a session
// store over it.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("sessionstore/postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("sessionstore/postgres: ping: %w", err)
	}

	return New(pool, log), nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Put implements session.Store.
func (s *Store) Put(ctx context.Context, id session.ID, rec session.Record) error {
	if !id.Valid() {
		return session.ErrInvalidID
	}

	claims, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("sessionstore/postgres: marshal claims: %w", err)
	}

	var validatedAt *time.Time
	if !rec.ValidatedAt.IsZero() {
		validatedAt = &rec.ValidatedAt
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO sessions (id, token, user_claims, created_at, expires_at, login_at, validated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			user_claims = EXCLUDED.user_claims,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at,
			login_at = EXCLUDED.login_at,
			validated_at = EXCLUDED.validated_at`,
		string(id), rec.Token, claims, rec.CreatedAt, rec.ExpiresAt, rec.LoginAt, validatedAt,
	)
	if err != nil {
		return fmt.Errorf("sessionstore/postgres: upsert: %w", err)
	}
	return nil
}

// Get implements session.Store.
func (s *Store) Get(ctx context.Context, id session.ID) (session.Record, error) {
	if !id.Valid() {
		return session.Record{}, session.ErrInvalidID
	}

	var (
		rec         session.Record
		claims      []byte
		validatedAt *time.Time
	)

	err := s.pool.QueryRow(ctx, `
		SELECT token, user_claims, created_at, expires_at, login_at, validated_at
		FROM sessions WHERE id = $1`,
		string(id),
	).Scan(&rec.Token, &claims, &rec.CreatedAt, &rec.ExpiresAt, &rec.LoginAt, &validatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Record{}, session.ErrNotFound
		}
		s.log.WarnContext(ctx, "failed to read session row", logger.Error(err), logger.SessionID(string(id)))
		return session.Record{}, session.ErrNotFound
	}

	if err := json.Unmarshal(claims, &rec.User); err != nil || !rec.Authenticated() {
		s.log.WarnContext(ctx, "removing corrupted session row", logger.Error(err), logger.SessionID(string(id)))
		_ = s.Delete(ctx, id)
		return session.Record{}, session.ErrNotFound
	}

	if validatedAt != nil {
		rec.ValidatedAt = *validatedAt
	}

	if rec.IsExpired() {
		_ = s.Delete(ctx, id)
		return session.Record{}, session.ErrNotFound
	}

	return rec, nil
}

// Delete implements session.Store. Idempotent.
func (s *Store) Delete(ctx context.Context, id session.ID) error {
	if !id.Valid() {
		return session.ErrInvalidID
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, string(id)); err != nil {
		return fmt.Errorf("sessionstore/postgres: delete: %w", err)
	}
	return nil
}

// Sweep implements session.Store. The expiry predicate runs inside the
// database, so a concurrent Put of a fresh record is never caught by it.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("sessionstore/postgres: sweep: %w", err)
	}
	return tag.RowsAffected(), nil
}
