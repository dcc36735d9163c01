package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
)

// Config provides environment-based configuration for the Redis backend.
type Config struct {
	// ConnectionURL accepts redis:// and rediss:// schemes.
	ConnectionURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix     string `env:"REDIS_SESSION_PREFIX" envDefault:"session:"`
	ScanBatchSize int64  `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"100"`
}

// Store persists session records as JSON values under prefixed keys, with the
// key TTL pinned to the record's retention window. Redis expires records on
// its own, so Sweep only has to clean up entries whose TTL drifted (records
// written by other backends or imported data).
//
// A shared Redis keeps sessions consistent across horizontally scaled
// instances, which the file backend cannot do without a shared filesystem.
type Store struct {
	client *redis.Client
	prefix string
	batch  int64
	log    *slog.Logger
}

// New creates a Redis-backed session store from an existing client.
func New(client *redis.Client, cfg Config, log *slog.Logger) *Store {
	if log == nil {
		log = logger.NewDiscard()
	}
	batch := cfg.ScanBatchSize
	if batch <= 0 {
		batch = 100
	}
	return &Store{
		client: client,
		prefix: cfg.KeyPrefix,
		batch:  batch,
		log:    log.With(logger.Component("sessionstore.redis")),
	}
}

// Connect dials Redis, verifies connectivity with a ping, and returns a
// session store over the connection.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("sessionstore/redis: parse connection url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sessionstore/redis: ping: %w", err)
	}

	return New(client, cfg, log), nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Put implements session.Store. SET is atomic in Redis, so readers see either
// the previous value or the new one.
func (s *Store) Put(ctx context.Context, id session.ID, rec session.Record) error {
	if !id.Valid() {
		return session.ErrInvalidID
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sessionstore/redis: marshal record: %w", err)
	}

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		// Already expired; storing it would only create garbage.
		return s.Delete(ctx, id)
	}

	if err := s.client.Set(ctx, s.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("sessionstore/redis: set: %w", err)
	}
	return nil
}

// Get implements session.Store.
func (s *Store) Get(ctx context.Context, id session.ID) (session.Record, error) {
	if !id.Valid() {
		return session.Record{}, session.ErrInvalidID
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Record{}, session.ErrNotFound
		}
		s.log.WarnContext(ctx, "failed to read session key", logger.Error(err), logger.SessionID(string(id)))
		return session.Record{}, session.ErrNotFound
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil || !rec.Authenticated() {
		s.log.WarnContext(ctx, "removing corrupted session key", logger.Error(err), logger.SessionID(string(id)))
		_ = s.client.Del(ctx, s.key(id)).Err()
		return session.Record{}, session.ErrNotFound
	}

	if rec.IsExpired() {
		_ = s.client.Del(ctx, s.key(id)).Err()
		return session.Record{}, session.ErrNotFound
	}

	return rec, nil
}

// Delete implements session.Store. Idempotent.
func (s *Store) Delete(ctx context.Context, id session.ID) error {
	if !id.Valid() {
		return session.ErrInvalidID
	}

	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("sessionstore/redis: del: %w", err)
	}
	return nil
}

// Sweep implements session.Store. Key TTLs already expire records; the scan
// removes only entries that outlived their payload expiry (clock drift,
// records written without TTL by older code).
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	var (
		deleted int64
		cursor  uint64
	)

	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", s.batch).Result()
		if err != nil {
			return deleted, fmt.Errorf("sessionstore/redis: scan: %w", err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				continue // expired or deleted mid-scan
			}

			var rec session.Record
			if err := json.Unmarshal(data, &rec); err != nil || rec.IsExpired() {
				if delErr := s.client.Del(ctx, key).Err(); delErr == nil {
					deleted++
				}
			}
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (s *Store) key(id session.ID) string {
	return s.prefix + string(id)
}
