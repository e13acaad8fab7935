package probe

import (
	"context"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Checker performs a single timed probe of one target. Implementations must
// not retry and must always return an Outcome.
type Checker interface {
	Check(ctx context.Context, target domain.Target) domain.Outcome
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context, target domain.Target) domain.Outcome

func (f CheckerFunc) Check(ctx context.Context, target domain.Target) domain.Outcome {
	return f(ctx, target)
}
