// Package browser opens reachable targets in the user's default browser.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/browser"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
)

const DefaultDelay = 100 * time.Millisecond

type Opener struct {
	Logger *zap.Logger
	Delay  time.Duration
	// Launch opens one URL; defaults to the system browser.
	Launch func(url string) error
}

func NewOpener(logger *zap.Logger, delay time.Duration) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Opener{Logger: logger, Delay: delay, Launch: browser.OpenURL}
}

// Open launches each target in order with Delay between tabs. A failing
// launch does not stop the rest; all failures come back combined.
func (o *Opener) Open(ctx context.Context, targets []domain.Target) error {
	var errs error
	for i, t := range targets {
		if i > 0 && o.Delay > 0 {
			select {
			case <-ctx.Done():
				return multierr.Append(errs, ctx.Err())
			case <-time.After(o.Delay):
			}
		} else if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}

		if err := o.Launch(t.String()); err != nil {
			o.Logger.Warn("browser_open_failed", zap.String("url", t.String()), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("open %s: %w", t, err))
			continue
		}
		o.Logger.Debug("browser_opened", zap.String("url", t.String()))
	}
	return errs
}
