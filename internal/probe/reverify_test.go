package probe

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
)

func TestReverifier_SequentialDiagnoses(t *testing.T) {
	var order []domain.Target
	chk := CheckerFunc(func(_ context.Context, tg domain.Target) domain.Outcome {
		order = append(order, tg)
		switch tg {
		case "https://flaky.example":
			return domain.Reachable(200)
		case "https://gone.example":
			return domain.Unreachable(domain.ReasonDNS, 0, "no such host")
		}
		return domain.Unreachable(domain.ReasonHTTP, 503, "503 Service Unavailable")
	})

	var resolved []string
	rv := &Reverifier{
		Checker: chk,
		Resolve: func(_ context.Context, host string) DNSStatus {
			resolved = append(resolved, host)
			return DNSStatus{Domain: host, Class: DNSNXDomain}
		},
		Logger: zap.NewNop(),
	}

	failures := []domain.Result{
		{Target: "https://flaky.example", Outcome: domain.Unreachable(domain.ReasonTimeout, 0, "")},
		{Target: "https://gone.example", Outcome: domain.Unreachable(domain.ReasonDNS, 0, "")},
		{Target: "https://down.example", Outcome: domain.Unreachable(domain.ReasonHTTP, 503, "")},
	}
	got := rv.Run(context.Background(), failures)

	if len(got) != 3 {
		t.Fatalf("want 3 diagnoses, got %d", len(got))
	}
	for i, f := range failures {
		if order[i] != f.Target || got[i].Target != f.Target {
			t.Fatalf("re-verification must keep input order: %v", order)
		}
	}
	if !strings.Contains(got[0].Detail, "reachable on re-check") {
		t.Fatalf("unexpected detail for recovered target: %q", got[0].Detail)
	}
	if got[1].Detail != "dns: no such host dns=NXDOMAIN" {
		t.Fatalf("unexpected dns detail: %q", got[1].Detail)
	}
	if got[2].Detail != "HTTP 503" {
		t.Fatalf("unexpected http detail: %q", got[2].Detail)
	}
	if len(resolved) != 1 || resolved[0] != "gone.example" {
		t.Fatalf("resolver should only run for dns failures: %v", resolved)
	}
	// primary outcomes are untouched
	if failures[0].Outcome.Kind != domain.KindUnreachable {
		t.Fatalf("re-verification mutated its input")
	}
}

func TestReverifier_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	rv := &Reverifier{Checker: CheckerFunc(func(context.Context, domain.Target) domain.Outcome {
		calls++
		cancel()
		return domain.Unreachable(domain.ReasonNetwork, 0, "reset")
	})}

	got := rv.Run(ctx, []domain.Result{{Target: "https://a"}, {Target: "https://b"}})
	if calls != 1 || len(got) != 1 {
		t.Fatalf("want one check before cancel stops the sweep, calls=%d got=%d", calls, len(got))
	}
}

func TestCheckDNS_InvalidName(t *testing.T) {
	for _, host := range []string{"", "https://x"} {
		if s := CheckDNS(context.Background(), nil, host); s.Class != DNSInvalidName {
			t.Fatalf("CheckDNS(%q) class=%s want INVALID_NAME", host, s.Class)
		}
	}
}
