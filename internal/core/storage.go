package core

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by a SessionRepository when no durable
// record exists for the key.
var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Read(ctx context.Context, id string) (SessionRecord, error)
	Write(ctx context.Context, id string, rec SessionRecord) error
	// ReadAll returns every readable durable record. Corrupt records are
	// skipped, not reported as errors.
	ReadAll(ctx context.Context) ([]StoredSession, error)
}

type ChunkRepository interface {
	LoadAll(ctx context.Context) ([]Chunk, error)
}
