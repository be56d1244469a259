// Package session keeps per-visitor conversation state in memory, backed by
// a durable store. Idle sessions are written through and evicted; durable
// records are never deleted.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/garyyong/askgary/internal/core"
	"github.com/garyyong/askgary/pkg/log"
)

type Clock func() time.Time

type entry struct {
	mu      sync.Mutex
	session *core.Session
	evicted bool
}

type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry

	repo core.SessionRepository
	ttl  time.Duration
	now  Clock
}

func NewManager(repo core.SessionRepository, ttl time.Duration, now Clock) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		entries: make(map[string]*entry),
		repo:    repo,
		ttl:     ttl,
		now:     now,
	}
}

// With runs fn as one read-modify-write unit under the session's lock.
// Concurrent calls for the same id serialize; different ids run in parallel.
// On cache miss the session is hydrated from the durable store, or created
// fresh when no record exists. After fn succeeds the record is written
// through; a durable-write failure is logged and the in-memory state stays
// authoritative.
func (m *Manager) With(ctx context.Context, id string, fn func(s *core.Session) error) error {
	e := m.acquireLocked(id)
	defer e.mu.Unlock()

	if e.session == nil {
		e.session = m.hydrate(ctx, id)
	}
	e.session.LastActive = m.now()

	if err := fn(e.session); err != nil {
		return err
	}

	m.save(ctx, e.session)
	return nil
}

// acquireLocked returns the live cache entry for id with its mutex held,
// retrying if a sweep evicted the entry between lookup and lock.
func (m *Manager) acquireLocked(id string) *entry {
	for {
		m.mu.Lock()
		e, ok := m.entries[id]
		if !ok {
			e = &entry{}
			m.entries[id] = e
		}
		m.mu.Unlock()

		e.mu.Lock()
		if !e.evicted {
			return e
		}
		e.mu.Unlock()
	}
}

func (m *Manager) hydrate(ctx context.Context, id string) *core.Session {
	logger := log.FromCtx(ctx)

	rec, err := m.repo.Read(ctx, id)
	switch {
	case err == nil:
		logger.Debug().Str("session", id).Msg("hydrated session from durable store")
		return &core.Session{
			ID:           id,
			History:      rec.History,
			Profile:      rec.UserProfile,
			MessageCount: rec.MessageCount,
		}
	case errors.Is(err, core.ErrSessionNotFound):
	default:
		logger.Warn().Err(err).Str("session", id).Msg("durable read failed, starting fresh session")
	}

	return &core.Session{ID: id}
}

func (m *Manager) save(ctx context.Context, s *core.Session) {
	rec := core.SessionRecord{
		History:      s.History,
		UserProfile:  s.Profile,
		MessageCount: s.MessageCount,
	}
	if err := m.repo.Write(ctx, s.ID, rec); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", s.ID).Msg("durable session write failed")
	}
}

// Sweep evicts every cached session idle longer than the TTL, writing it
// through first. Sessions locked by an in-flight request are skipped.
// Returns the number of evicted sessions.
func (m *Manager) Sweep(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	evicted := 0
	for id, e := range m.entries {
		if !e.mu.TryLock() {
			continue
		}

		if e.session == nil {
			// Entry created but never hydrated; drop it.
			e.evicted = true
			delete(m.entries, id)
			e.mu.Unlock()
			continue
		}

		if now.Sub(e.session.LastActive) > m.ttl {
			m.save(ctx, e.session)
			e.evicted = true
			delete(m.entries, id)
			evicted++
		}
		e.mu.Unlock()
	}

	if evicted > 0 {
		log.FromCtx(ctx).Debug().Int("evicted", evicted).Msg("session sweep complete")
	}
	return evicted
}

// ActiveCount reports how many sessions are currently cached.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Flush writes every cached session through to the durable store. Used on
// shutdown.
func (m *Manager) Flush(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		e.mu.Lock()
		if e.session != nil {
			m.save(ctx, e.session)
		}
		e.mu.Unlock()
	}
}
