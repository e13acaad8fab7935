package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Diagnosis is the re-verification verdict for one failed target. It is
// report-only and never replaces the primary outcome.
type Diagnosis struct {
	Target  domain.Target  `json:"url"`
	Outcome domain.Outcome `json:"outcome"`
	Detail  string         `json:"detail"`
}

// Reverifier re-probes failed targets one at a time with a longer timeout.
type Reverifier struct {
	Checker Checker
	// Resolve runs for DNS-class failures; nil skips the resolver diagnosis.
	Resolve func(ctx context.Context, host string) DNSStatus
	Logger  *zap.Logger
}

func NewReverifier(timeout time.Duration, logger *zap.Logger) *Reverifier {
	chk := NewHTTPChecker(timeout)
	chk.UserAgent = PlainUserAgent
	return &Reverifier{
		Checker: chk,
		Resolve: func(ctx context.Context, host string) DNSStatus {
			return CheckDNS(ctx, nil, host)
		},
		Logger: logger,
	}
}

// Run walks failures sequentially, in the order given.
func (r *Reverifier) Run(ctx context.Context, failures []domain.Result) []Diagnosis {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	out := make([]Diagnosis, 0, len(failures))
	for _, f := range failures {
		if ctx.Err() != nil {
			break
		}
		o := r.Checker.Check(ctx, f.Target)
		d := Diagnosis{Target: f.Target, Outcome: o, Detail: r.describe(ctx, f.Target, o)}
		out = append(out, d)

		log.Debug("reverify_checked",
			zap.String("url", f.Target.String()),
			zap.String("kind", string(o.Kind)),
			zap.String("detail", d.Detail),
		)
	}
	return out
}

func (r *Reverifier) describe(ctx context.Context, target domain.Target, o domain.Outcome) string {
	switch {
	case o.Kind == domain.KindReachable:
		return fmt.Sprintf("%s (reachable on re-check)", o)
	case o.Reason == domain.ReasonDNS && r.Resolve != nil:
		u, err := Validate(target)
		if err != nil {
			return o.String()
		}
		dns := r.Resolve(ctx, u.Hostname())
		return fmt.Sprintf("%s dns=%s", o, dns.Class)
	}
	return o.String()
}
