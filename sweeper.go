package authgate

import (
	"context"
	"time"
)

// DefaultSweepInterval is how often the sweeper looks for expired
// revocation entries
const DefaultSweepInterval = time.Hour

// Sweeper periodically deletes revocation entries whose credential has
// expired on its own. Validation rejects expired claims before it ever
// consults the store, so a sweep can never turn a revoked credential
// back into a valid one.
type Sweeper struct {
	store    CredentialStore
	interval time.Duration
	logger   Logger
}

// SweeperOption configures a Sweeper
type SweeperOption func(*Sweeper)

// WithSweepInterval sets the sweep period
func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSweeperLogger sets the sweeper logger
func WithSweeperLogger(logger Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSweeper creates a sweeper over the given store
func NewSweeper(store CredentialStore, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:    store,
		interval: DefaultSweepInterval,
		logger:   defLogger{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run sweeps on every tick until the context is cancelled. It blocks,
// start it in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed, err := s.store.SweepExpired(ctx, time.Now()); err != nil {
				s.logger.Error("revocation sweep failed: %v", err)
			} else if removed > 0 {
				s.logger.Info("revocation sweep removed %d expired entries", removed)
			}
		}
	}
}
