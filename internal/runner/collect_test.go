package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/progress"
	"github.com/hamed0406/sitecheck/internal/results"
	"github.com/hamed0406/sitecheck/internal/targets"
)

// mixedChecker classifies by host name so each bucket gets members.
func mixedChecker() probe.Checker {
	return probe.CheckerFunc(func(_ context.Context, t domain.Target) domain.Outcome {
		s := t.String()
		switch {
		case strings.HasPrefix(s, "ftp://"):
			return domain.Malformed(`unsupported scheme "ftp"`)
		case strings.Contains(s, "down"):
			return domain.Unreachable(domain.ReasonHTTP, 503, "")
		case strings.Contains(s, "nxdomain"):
			return domain.Unreachable(domain.ReasonDNS, 0, "no such host")
		default:
			time.Sleep(time.Millisecond)
			return domain.Reachable(200)
		}
	})
}

func TestCollect_EndToEnd(t *testing.T) {
	raw := []string{
		"a.example", "https://a.example", "down.example",
		"  ", "ftp://files.example", "b.example", "nxdomain.example", "b.example",
	}
	tg, err := targets.Prepare(raw)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(tg) != 5 {
		t.Fatalf("want 5 unique targets, got %v", tg)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	r := New(zap.New(core), mixedChecker(), Options{Concurrency: 3, Timeout: time.Second})
	set := results.New("", tg, len(raw))

	var snaps []progress.Snapshot
	tracker := progress.New(len(tg), time.Hour, func(s progress.Snapshot) { snaps = append(snaps, s) })
	var seen []domain.Target

	sum, err := r.Collect(context.Background(), set, tg, tracker.Observe, func(res domain.Result) {
		seen = append(seen, res.Target)
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if len(seen) != 5 {
		t.Fatalf("observers saw %d results", len(seen))
	}
	if got := len(sum.Reachable) + len(sum.Unreachable) + len(sum.Malformed); got != 5 {
		t.Fatalf("buckets hold %d results", got)
	}
	if sum.Reachable[0].Target != "https://a.example" || sum.Reachable[1].Target != "https://b.example" {
		t.Fatalf("reachable order: %+v", sum.Reachable)
	}
	if sum.Unreachable[0].Target != "https://down.example" || sum.Unreachable[1].Target != "https://nxdomain.example" {
		t.Fatalf("unreachable order: %+v", sum.Unreachable)
	}
	if len(sum.Malformed) != 1 || sum.Inputs != 8 {
		t.Fatalf("malformed/inputs: %+v", sum)
	}
	if len(snaps) != 1 || !snaps[0].Final || snaps[0].Completed != 5 {
		t.Fatalf("want exactly the final progress snapshot, got %+v", snaps)
	}
	if logs.FilterMessage("run_finished").Len() != 1 {
		t.Fatalf("run_finished not logged")
	}
}

func TestCollect_AllFailStillSummarizes(t *testing.T) {
	chk := probe.CheckerFunc(func(context.Context, domain.Target) domain.Outcome {
		return domain.Unreachable(domain.ReasonTimeout, 0, "no response within 1.5s")
	})
	tg := []domain.Target{"https://x.example", "https://y.example"}
	r := New(zap.NewNop(), chk, Options{Concurrency: 2, Timeout: time.Second})

	sum, err := r.Collect(context.Background(), results.New("", tg, 2), tg)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(sum.Reachable) != 0 || len(sum.Unreachable) != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}
