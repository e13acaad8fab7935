// Package runner fans a target list out to a fixed pool of probe workers and
// streams each outcome back as soon as it is known.
package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
)

const cancelledDetail = "run cancelled"

type Options struct {
	Concurrency int           // max probes in flight
	Timeout     time.Duration // per-probe bound
	Limiter     *rate.Limiter // optional spacing between probe starts
}

type Runner struct {
	Logger  *zap.Logger
	Checker probe.Checker
	opts    Options

	inFlight atomic.Int64
	peak     atomic.Int64
}

func New(logger *zap.Logger, checker probe.Checker, opts Options) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Logger: logger, Checker: checker, opts: opts}
}

type job struct {
	index  int
	target domain.Target
}

// Run probes every target exactly once. The returned channel yields one
// Result per target in completion order and is closed once the last
// outstanding probe has reported.
//
// Cancelling ctx stops new probes from starting; probes already in flight
// run to their own timeout. Targets that never started are reported as
// malformed with a "run cancelled" detail so the channel still carries
// exactly len(targets) results.
//
// A Runner may be reused once the previous channel has drained; Run starts
// PeakInFlight over from whatever is still in flight.
func (r *Runner) Run(ctx context.Context, targets []domain.Target) <-chan domain.Result {
	r.peak.Store(r.inFlight.Load())

	n := len(targets)
	out := make(chan domain.Result, n)
	if n == 0 {
		close(out)
		return out
	}

	jobs := make(chan job, n)
	for i, t := range targets {
		jobs <- job{index: i, target: t}
	}
	close(jobs)

	workers := min(r.opts.Concurrency, n)

	// one unit per target, not per worker
	var outstanding sync.WaitGroup
	outstanding.Add(n)

	for w := 0; w < workers; w++ {
		go func() {
			for j := range jobs {
				res := r.probe(ctx, j)
				r.Logger.Debug("probe_done",
					zap.String("url", res.Target.String()),
					zap.String("kind", string(res.Outcome.Kind)),
					zap.Int("status", res.Outcome.StatusCode),
					zap.String("reason", string(res.Outcome.Reason)),
					zap.Duration("latency", res.Outcome.Latency),
				)
				out <- res
				outstanding.Done()
			}
		}()
	}

	go func() {
		outstanding.Wait()
		close(out)
	}()

	r.Logger.Info("run_dispatched",
		zap.Int("targets", n),
		zap.Int("workers", workers),
		zap.Duration("timeout", r.opts.Timeout),
	)
	return out
}

// InFlight is the number of probes currently waiting on the network.
func (r *Runner) InFlight() int { return int(r.inFlight.Load()) }

// PeakInFlight is the highest InFlight value observed during the latest Run.
func (r *Runner) PeakInFlight() int { return int(r.peak.Load()) }

func (r *Runner) probe(ctx context.Context, j job) (res domain.Result) {
	res = domain.Result{Target: j.target, Index: j.index}

	if err := r.waitTurn(ctx); err != nil {
		res.Outcome = domain.Malformed(cancelledDetail)
		res.CheckedAt = time.Now().UTC()
		return res
	}

	r.enter()
	defer r.inFlight.Add(-1)

	defer func() {
		if p := recover(); p != nil {
			r.Logger.Error("probe_panic",
				zap.String("url", j.target.String()),
				zap.Any("panic", p),
			)
			res.Outcome = domain.Malformed(fmt.Sprintf("unexpected error: %v", p))
		}
		res.CheckedAt = time.Now().UTC()
	}()

	// in-flight probes are bounded by their own timeout, not by the run
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.Timeout)
	defer cancel()

	res.Outcome = r.Checker.Check(pctx, j.target)
	return res
}

func (r *Runner) waitTurn(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.opts.Limiter != nil {
		return r.opts.Limiter.Wait(ctx)
	}
	return nil
}

func (r *Runner) enter() {
	n := r.inFlight.Add(1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			return
		}
	}
}
