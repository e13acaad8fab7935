package runner

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/results"
)

// Collect runs targets to completion, records every result into set and
// hands each one to the observers in arrival order. It returns the frozen
// Summary once the run's completion barrier has been passed.
//
// Observers run on the collecting goroutine, one result at a time.
func (r *Runner) Collect(ctx context.Context, set *results.Set, targets []domain.Target, observers ...func(domain.Result)) (domain.Summary, error) {
	start := time.Now()
	r.Logger.Info("run_started",
		zap.String("run_id", set.RunID()),
		zap.Int("targets", len(targets)),
		zap.Int("concurrency", r.opts.Concurrency),
	)

	var errs error
	for res := range r.Run(ctx, targets) {
		if err := set.Record(res); err != nil {
			r.Logger.Warn("record_rejected", zap.String("url", res.Target.String()), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		for _, obs := range observers {
			obs(res)
		}
	}

	sum, err := set.Finalize(domain.RunStats{Elapsed: time.Since(start)})
	if err != nil {
		return domain.Summary{}, multierr.Append(errs, err)
	}
	r.Logger.Info("run_finished",
		zap.String("run_id", sum.RunID),
		zap.Int("reachable", len(sum.Reachable)),
		zap.Int("unreachable", len(sum.Unreachable)),
		zap.Int("malformed", len(sum.Malformed)),
		zap.Duration("elapsed", sum.Stats.Elapsed),
		zap.Int("peak_in_flight", r.PeakInFlight()),
	)
	return sum, errs
}
