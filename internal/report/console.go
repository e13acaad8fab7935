package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/progress"
)

const urlWidth = 45

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	errColor  = color.New(color.FgYellow)
	headColor = color.New(color.FgHiCyan, color.Bold)
	dimColor  = color.New(color.FgHiBlack)
)

// Console prints live status lines and the final summary. Safe for use from
// several goroutines.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Banner(inputs, unique, concurrency int, timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	headColor.Fprintln(c.out, "sitecheck: batch website availability check")
	fmt.Fprintln(c.out, strings.Repeat("=", 80))
	fmt.Fprintf(c.out, "loaded: %d | unique: %d | workers: %d | timeout: %s\n", inputs, unique, concurrency, timeout)
	fmt.Fprintln(c.out, strings.Repeat("-", 80))
}

func statusLabel(k domain.Kind) (string, *color.Color) {
	switch k {
	case domain.KindReachable:
		return "✓ SUCCESS", okColor
	case domain.KindUnreachable:
		return "✗ FAIL   ", failColor
	default:
		return "⚠ ERROR  ", errColor
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Status prints one line per finished probe.
func (c *Console) Status(r domain.Result) {
	label, col := statusLabel(r.Outcome.Kind)
	c.mu.Lock()
	defer c.mu.Unlock()
	col.Fprint(c.out, label)
	fmt.Fprintf(c.out, " | %-*s | %s\n", urlWidth, clip(r.Target.String(), urlWidth), r.Outcome)
}

func (c *Console) Progress(s progress.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := fmt.Sprintf("progress: %d/%d (%.1f%%) | elapsed: %.1fs | rate: %.1f/s",
		s.Completed, s.Total, s.Percent(), s.Elapsed.Seconds(), s.Throughput)
	if !s.Final {
		line += fmt.Sprintf(" | eta: %s", s.ETA.Round(time.Second))
	}
	dimColor.Fprintln(c.out, line)
}

// Summary prints the final counts.
func (c *Console) Summary(sum domain.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, "\n"+strings.Repeat("=", 80))
	headColor.Fprintf(c.out, "done in %.2fs (run %s)\n", sum.Stats.Elapsed.Seconds(), sum.RunID)

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  reachable\t%d\n", len(sum.Reachable))
	fmt.Fprintf(tw, "  unreachable\t%d\n", len(sum.Unreachable))
	fmt.Fprintf(tw, "  malformed\t%d\n", len(sum.Malformed))
	fmt.Fprintf(tw, "  total\t%d\n", sum.Stats.Total)
	_ = tw.Flush()
	fmt.Fprintln(c.out, strings.Repeat("=", 80))
}

// Diagnoses prints the re-verification results.
func (c *Console) Diagnoses(ds []probe.Diagnosis) {
	if len(ds) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	headColor.Fprintln(c.out, "re-verification")
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, d := range ds {
		fmt.Fprintf(tw, "  %s\t%s\n", d.Target, d.Detail)
	}
	_ = tw.Flush()
}

// Println writes a plain line, serialized with status output.
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}
