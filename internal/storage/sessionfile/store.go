// Package sessionfile persists one JSON record per session under a single
// directory. Records are small and written whole, so a file per session keeps
// corruption contained: one unreadable record never affects the rest.
package sessionfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/garyyong/askgary/internal/core"
	"github.com/garyyong/askgary/pkg/log"
)

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SanitizeID strips everything but alphanumerics, underscore and hyphen from
// a session id, so the storage key can never resolve outside the store
// directory.
func SanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *Store) path(id string) (string, error) {
	key := SanitizeID(id)
	if key == "" {
		return "", fmt.Errorf("session id %q sanitizes to empty key", id)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *Store) Read(ctx context.Context, id string) (core.SessionRecord, error) {
	var rec core.SessionRecord

	path, err := s.path(id)
	if err != nil {
		return rec, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return rec, core.ErrSessionNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("failed to decode session file: %w", err)
	}
	return rec, nil
}

// Write replaces the durable record. The write goes through a temp file plus
// rename so a crash mid-write never leaves a truncated record behind.
func (s *Store) Write(ctx context.Context, id string, rec core.SessionRecord) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// ReadAll loads every durable record with its storage timestamp. Unreadable
// or corrupt files are logged and skipped.
func (s *Store) ReadAll(ctx context.Context) ([]core.StoredSession, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions directory: %w", err)
	}

	logger := log.FromCtx(ctx)

	var sessions []core.StoredSession
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("skipping unreadable session file")
			continue
		}

		var rec core.SessionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("skipping corrupt session file")
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("skipping session file without metadata")
			continue
		}

		sessions = append(sessions, core.StoredSession{
			Key:      strings.TrimSuffix(name, ".json"),
			Record:   rec,
			StoredAt: info.ModTime(),
		})
	}
	return sessions, nil
}
