package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/queue"
)

// Sweeper re-enqueues pending deliveries that lost their job: an
// enqueue that failed after commit, or a job dropped by infrastructure.
// Double enqueues are harmless since terminal deliveries no-op.
type Sweeper struct {
	storage  Storage
	enqueuer Enqueuer
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
}

// SweeperOption configures a Sweeper during construction.
type SweeperOption func(*Sweeper)

// WithSweeperLogger sets the sweeper's logger.
func WithSweeperLogger(log *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSweeper wires a sweeper from its collaborators.
func NewSweeper(storage Storage, enqueuer Enqueuer, cfg Config, opts ...SweeperOption) (*Sweeper, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}
	if enqueuer == nil {
		return nil, ErrEnqueuerNil
	}

	s := &Sweeper{
		storage:  storage,
		enqueuer: enqueuer,
		cfg:      cfg.normalize(),
		log:      slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("sweeper"))
	return s, nil
}

// Run sweeps on the configured interval until the context is cancelled.
// Intended to be started as an errgroup task alongside the queue worker.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n, err := s.Sweep(ctx); err != nil {
				s.log.ErrorContext(ctx, "sweep failed", logger.Error(err))
			} else if n > 0 {
				s.log.InfoContext(ctx, "swept stale deliveries", slog.Int("count", n))
			}
		}
	}
}

// Sweep re-enqueues one batch of stale pending deliveries and returns
// how many were enqueued.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.cfg.StaleAfter)

	stale, err := s.storage.ListStalePendingDeliveries(ctx, cutoff, s.cfg.SweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list stale deliveries: %w", err)
	}

	var enqueued int
	for _, del := range stale {
		err := s.enqueuer.Enqueue(ctx, DeliverJob{DeliveryID: del.ID}, queue.WithQueue(s.cfg.Queue))
		if err != nil {
			return enqueued, fmt.Errorf("re-enqueue delivery %s: %w", del.ID, err)
		}
		enqueued++
		s.log.InfoContext(ctx, "re-enqueued stale delivery",
			logger.DeliveryID(del.ID),
			logger.Channel(del.Channel),
		)
	}
	return enqueued, nil
}
