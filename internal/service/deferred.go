package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/metrics"
)

// Task is a unit of deferred work. Its error is logged, never returned to a caller.
type Task func(ctx context.Context) error

// Scheduler runs tasks after a delay without blocking the caller
type Scheduler interface {
	Schedule(name string, delay time.Duration, task Task)
}

// DeferredRunner runs fire-and-forget tasks on detached goroutines.
// Each task gets its own context bounded by the task timeout; panics and
// errors stop at the runner.
type DeferredRunner struct {
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewDeferredRunner creates a runner. A zero timeout means 30s.
func NewDeferredRunner(timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *DeferredRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeferredRunner{
		timeout: timeout,
		metrics: m,
		logger:  logger,
	}
}

// Schedule runs task after delay. It returns immediately.
func (r *DeferredRunner) Schedule(name string, delay time.Duration, task Task) {
	r.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer r.wg.Done()
		r.run(name, task)
	})
}

func (r *DeferredRunner) run(name string, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Deferred task panicked",
				zap.String("task", name),
				zap.String("panic", fmt.Sprintf("%v", rec)),
			)
			r.metrics.DeferredTask(name, metrics.OutcomePanic)
		}
	}()

	if err := task(ctx); err != nil {
		r.logger.Warn("Deferred task failed",
			zap.String("task", name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		r.metrics.DeferredTask(name, metrics.OutcomeError)
		return
	}

	r.logger.Debug("Deferred task finished", zap.String("task", name), zap.Duration("duration", time.Since(start)))
	r.metrics.DeferredTask(name, metrics.OutcomeSuccess)
}

// Wait blocks until all scheduled tasks finished or ctx is done
func (r *DeferredRunner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
