package compression

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/sessiontrim/internal/logging"
	"github.com/fyrsmithlabs/sessiontrim/internal/session"
)

// Orchestration defaults.
const (
	defaultConcurrency      = 10
	defaultMaxAttempts      = 3
	defaultTimeoutInitial   = 60 * time.Second
	defaultTimeoutIncrement = 30 * time.Second
)

// Orchestrator executes compression tasks through a bounded worker
// pool. At most Concurrency provider calls run simultaneously; as one
// settles the next queued task is admitted. Workers only record
// results; application back to entries happens synchronously after
// every task settles, never inside a worker.
type Orchestrator struct {
	provider Provider
	config   Config
	limiter  *rate.Limiter
	log      *logging.Logger
}

// NewOrchestrator creates an orchestrator around a provider.
func NewOrchestrator(provider Provider, cfg Config, log *logging.Logger) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.TimeoutInitial <= 0 {
		cfg.TimeoutInitial = defaultTimeoutInitial
	}
	if cfg.TimeoutIncrement < 0 {
		cfg.TimeoutIncrement = defaultTimeoutIncrement
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Orchestrator{
		provider: provider,
		config:   cfg,
		limiter:  limiter,
		log:      log.Named("orchestrator"),
	}
}

// Run settles every task and returns the updated set in input order.
// Tasks below the minimum token threshold transition to skipped before
// any provider call. Failed tasks keep their original content; failure
// never escalates to a batch-level error.
func (o *Orchestrator) Run(ctx context.Context, tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)

	queue := make(chan int)
	var wg sync.WaitGroup

	workers := o.config.Concurrency
	if workers > len(out) {
		workers = len(out)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				o.runTask(ctx, &out[idx])
			}
		}()
	}

	for i := range out {
		if out[i].Status != StatusPending {
			continue
		}
		if out[i].EstimatedTokens < o.config.MinTokens {
			out[i].Status = StatusSkipped
			continue
		}
		queue <- i
	}
	close(queue)
	wg.Wait()

	return out
}

// runTask drives one task through its retry state machine. Each attempt
// gets a longer timeout than the last, so a span that only needs more
// time eventually gets it without stalling the rest of the batch.
func (o *Orchestrator) runTask(ctx context.Context, task *Task) {
	if ctx.Err() != nil {
		// Aborted before the first attempt; the task stays pending and
		// nothing gets applied.
		task.Err = ctx.Err()
		return
	}

	useLargeModel := task.EstimatedTokens > o.config.LargeModelThreshold

	var lastErr error
	for attempt := 1; attempt <= o.config.MaxAttempts; attempt++ {
		timeout := o.config.TimeoutInitial + time.Duration(attempt-1)*o.config.TimeoutIncrement
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)

		if o.limiter != nil {
			if err := o.limiter.Wait(attemptCtx); err != nil {
				cancel()
				lastErr = err
				task.Attempts = attempt
				continue
			}
		}

		result, err := o.provider.Compress(attemptCtx, task.Text, task.Level, useLargeModel)
		cancel()
		task.Attempts = attempt

		if err == nil {
			task.Status = StatusSuccess
			task.Result = result
			return
		}

		lastErr = err
		o.log.Warn("compression attempt failed",
			zap.String("task", task.ID),
			zap.Int("attempt", attempt),
			zap.Duration("timeout", timeout),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
	}

	task.Status = StatusFailed
	task.Err = lastErr
	o.log.Warn("compression task exhausted attempts, keeping original content",
		zap.String("task", task.ID),
		zap.Int("attempts", task.Attempts))
}

// StatsFrom aggregates settled tasks into batch statistics, with token
// totals from the estimator.
func StatsFrom(tasks []Task) Stats {
	var stats Stats
	for _, task := range tasks {
		switch task.Status {
		case StatusSuccess:
			stats.Compressed++
			stats.OriginalTokens += task.EstimatedTokens
			stats.CompressedTokens += session.EstimateTokens(task.Result)
		case StatusSkipped:
			stats.Skipped++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats
}
