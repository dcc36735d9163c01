package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
)

const fileExt = ".json"

// FileConfig provides environment-based configuration for the file backend.
type FileConfig struct {
	// Dir is the directory holding one JSON file per session identifier.
	// Created on first use.
	Dir string `env:"SESSION_DIR" envDefault:".sessions"`
}

// File persists one JSON file per session identifier. Writes go through a
// temp file in the same directory followed by os.Rename, so a concurrent
// reader observes either the previous record or the new one, never a torn
// write. Files are named directly from the identifier, which lets Get address
// a record without any index.
type File struct {
	dir string
	log *slog.Logger
}

// NewFile creates a file-backed session store rooted at dir, creating the
// directory if needed. A nil logger is replaced with a discard logger.
func NewFile(dir string, log *slog.Logger) (*File, error) {
	if dir == "" {
		return nil, errors.New("sessionstore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("sessionstore: create directory %s: %w", dir, err)
	}
	if log == nil {
		log = logger.NewDiscard()
	}
	return &File{
		dir: dir,
		log: log.With(logger.Component("sessionstore.file")),
	}, nil
}

// NewFileFromConfig creates a file-backed session store from configuration.
func NewFileFromConfig(cfg FileConfig, log *slog.Logger) (*File, error) {
	return NewFile(cfg.Dir, log)
}

// Put implements session.Store.
func (s *File) Put(ctx context.Context, id session.ID, rec session.Record) error {
	if !id.Valid() {
		return session.ErrInvalidID
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("sessionstore: marshal record: %w", err)
	}

	// Temp file in the same directory so the rename stays on one filesystem
	// and therefore atomic.
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("sessionstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sessionstore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sessionstore: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sessionstore: chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(id)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sessionstore: rename temp file: %w", err)
	}
	return nil
}

// Get implements session.Store. Expired and corrupted files are deleted and
// reported as session.ErrNotFound; a parse error never reaches the caller.
func (s *File) Get(ctx context.Context, id session.ID) (session.Record, error) {
	if !id.Valid() {
		return session.Record{}, session.ErrInvalidID
	}

	path := s.path(id)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return session.Record{}, session.ErrNotFound
		}
		s.log.Warn("failed to read session file", logger.Error(err), logger.SessionID(string(id)))
		return session.Record{}, session.ErrNotFound
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil || !rec.Authenticated() {
		s.log.Warn("removing corrupted session file", logger.Error(err), logger.SessionID(string(id)))
		s.remove(path)
		return session.Record{}, session.ErrNotFound
	}

	if rec.IsExpired() {
		s.remove(path)
		return session.Record{}, session.ErrNotFound
	}

	return rec, nil
}

// Delete implements session.Store.
func (s *File) Delete(ctx context.Context, id session.ID) error {
	if !id.Valid() {
		return session.ErrInvalidID
	}

	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("sessionstore: delete session file: %w", err)
	}
	return nil
}

// Sweep implements session.Store. Each candidate is re-checked for expiry
// right before deletion, so a concurrent Put of a fresh record wins over the
// sweep.
func (s *File) Sweep(ctx context.Context) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("sessionstore: read session directory: %w", err)
	}

	var deleted int64
	for _, entry := range entries {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			continue // raced with a delete
		}

		var rec session.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			s.log.Warn("removing corrupted session file during sweep", logger.Error(err))
			if s.remove(path) {
				deleted++
			}
			continue
		}

		if rec.IsExpired() {
			if s.remove(path) {
				deleted++
			}
		}
	}

	return deleted, nil
}

func (s *File) path(id session.ID) string {
	return filepath.Join(s.dir, string(id)+fileExt)
}

func (s *File) remove(path string) bool {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("failed to remove session file", logger.Error(err))
	}
	return err == nil
}
