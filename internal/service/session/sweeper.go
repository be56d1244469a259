package session

import (
	"context"
	"time"

	"github.com/garyyong/askgary/pkg/log"
)

// Sweeper runs TTL eviction sweeps on a timer. It satisfies srv.Service; on
// shutdown it flushes every cached session to the durable store.
type Sweeper struct {
	mgr      *Manager
	interval time.Duration
	done     chan struct{}
}

func NewSweeper(mgr *Manager, interval time.Duration) *Sweeper {
	return &Sweeper{
		mgr:      mgr,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Dur("interval", s.interval).Msg("starting session sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mgr.Sweep(ctx)
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		}
	}
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	close(s.done)
	s.mgr.Flush(ctx)
	return nil
}
