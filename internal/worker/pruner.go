package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/auth"
)

// ActivityPruner deletes activity entries past their retention.
type ActivityPruner interface {
	Prune(ctx context.Context, now time.Time) (int64, error)
}

// PruneRecorder counts deleted records.
type PruneRecorder interface {
	RecordRevocationsPruned(n int64)
	RecordActivitiesPruned(n int64)
}

// PrunerConfig configures the periodic cleanup. A zero interval disables that job.
type PrunerConfig struct {
	ActivityInterval   time.Duration
	RevocationInterval time.Duration
}

// Pruner periodically removes expired activity entries and, when enabled, revocation
// records whose credential has expired.
type Pruner struct {
	activities  ActivityPruner
	revocations auth.RevocationPruner
	metrics     PruneRecorder
	logger      *zap.Logger
	cfg         PrunerConfig
	now         func() time.Time
}

// NewPruner builds the worker. revocations and metrics may be nil.
func NewPruner(cfg PrunerConfig, activities ActivityPruner, revocations auth.RevocationPruner, metrics PruneRecorder, logger *zap.Logger) *Pruner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pruner{
		activities:  activities,
		revocations: revocations,
		metrics:     metrics,
		logger:      logger.With(zap.String("component", "worker.pruner")),
		cfg:         cfg,
		now:         time.Now,
	}
}

// Run blocks until ctx is cancelled.
func (p *Pruner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	if p.cfg.ActivityInterval > 0 && p.activities != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.loop(ctx, "activities", p.cfg.ActivityInterval, p.PruneActivities)
		}()
	}
	if p.cfg.RevocationInterval > 0 && p.revocations != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.loop(ctx, "revocations", p.cfg.RevocationInterval, p.PruneRevocations)
		}()
	}
	wg.Wait()
}

func (p *Pruner) loop(ctx context.Context, job string, interval time.Duration, fn func(context.Context) (int64, error)) {
	p.logger.Info("pruner started", zap.String("job", job), zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := fn(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("prune failed", zap.String("job", job), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			p.logger.Info("pruner stopped", zap.String("job", job))
			return
		case <-ticker.C:
		}
	}
}

// PruneActivities runs one activity cleanup pass.
func (p *Pruner) PruneActivities(ctx context.Context) (int64, error) {
	n, err := p.activities.Prune(ctx, p.now())
	if err != nil {
		return 0, err
	}
	if p.metrics != nil {
		p.metrics.RecordActivitiesPruned(n)
	}
	if n > 0 {
		p.logger.Info("activities pruned", zap.Int64("count", n))
	}
	return n, nil
}

// PruneRevocations runs one revocation cleanup pass. Only records whose credential
// expired before now are removed, so no live credential becomes valid again.
func (p *Pruner) PruneRevocations(ctx context.Context) (int64, error) {
	n, err := p.revocations.DeleteExpired(ctx, p.now())
	if err != nil {
		return 0, err
	}
	if p.metrics != nil {
		p.metrics.RecordRevocationsPruned(n)
	}
	if n > 0 {
		p.logger.Info("revocations pruned", zap.Int64("count", n))
	}
	return n, nil
}
