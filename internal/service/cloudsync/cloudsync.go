package cloudsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"fabric-cost/internal/metrics"
	"fabric-cost/internal/storage"
)

type LocalStorage interface {
	ListUnsynced(ctx context.Context, limit int) ([]*storage.Calculation, error)
	MarkSynced(ctx context.Context, ids []string, at time.Time) error
}

type RemoteStorage interface {
	UpsertCalculation(ctx context.Context, c *storage.Calculation) error
}

type Options struct {
	BatchSize  int
	Workers    int
	MaxRetries uint64
	// first retry delay, doubled on every attempt
	BaseDelay time.Duration
}

// Service copies the local history to the remote store.
type Service struct {
	local   LocalStorage
	remote  RemoteStorage
	log     *slog.Logger
	metrics *metrics.Metrics
	opts    Options
	now     func() time.Time
}

func New(log *slog.Logger, local LocalStorage, remote RemoteStorage, m *metrics.Metrics, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}

	return &Service{
		local:   local,
		remote:  remote,
		log:     log,
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
}

type Report struct {
	Pushed int `json:"pushed"`
	Failed int `json:"failed"`
}

// SyncOnce drains the queue batch by batch. A batch with failures ends the
// run; the failed records stay queued for the next one.
func (s *Service) SyncOnce(ctx context.Context) (Report, error) {
	const op = "service.cloudsync.SyncOnce"

	var report Report
	seen := make(map[string]struct{})

	for {
		startedAt := s.now()

		batch, err := s.local.ListUnsynced(ctx, s.opts.BatchSize)
		if err != nil {
			return report, fmt.Errorf("%s: %w", op, err)
		}

		fresh := batch[:0:0]
		for _, c := range batch {
			if _, ok := seen[c.ID]; !ok {
				fresh = append(fresh, c)
				seen[c.ID] = struct{}{}
			}
		}
		if len(fresh) == 0 {
			return report, nil
		}

		pushed, failed := s.pushBatch(ctx, fresh)

		if err := s.local.MarkSynced(ctx, pushed, startedAt); err != nil {
			return report, fmt.Errorf("%s: %w", op, err)
		}

		report.Pushed += len(pushed)
		report.Failed += failed
		s.metrics.SyncPushed(len(pushed))
		s.metrics.SyncFailed(failed)

		if failed > 0 || len(batch) < s.opts.BatchSize {
			return report, nil
		}
	}
}

func (s *Service) pushBatch(ctx context.Context, batch []*storage.Calculation) ([]string, int) {
	var (
		mu     sync.Mutex
		pushed []string
		failed int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for _, c := range batch {
		c := c
		g.Go(func() error {
			if err := s.push(gCtx, c); err != nil {
				s.log.Error("failed to push calculation",
					slog.String("id", c.ID),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			pushed = append(pushed, c.ID)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	return pushed, failed
}

func (s *Service) push(ctx context.Context, c *storage.Calculation) error {
	b := retry.WithMaxRetries(s.opts.MaxRetries, retry.NewExponential(s.opts.BaseDelay))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := s.remote.UpsertCalculation(ctx, c); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// Run syncs immediately and then on every tick until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	const op = "service.cloudsync.Run"

	log := s.log.With(slog.String("op", op))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := s.SyncOnce(ctx)
		if err != nil {
			log.Error("sync failed", slog.String("error", err.Error()))
		} else if report.Pushed > 0 || report.Failed > 0 {
			log.Info("sync finished", slog.Int("pushed", report.Pushed), slog.Int("failed", report.Failed))
		}

		select {
		case <-ctx.Done():
			log.Info("sync stopped")
			return
		case <-ticker.C:
		}
	}
}
