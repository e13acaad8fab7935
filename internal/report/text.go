package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hamed0406/sitecheck/internal/domain"
)

const (
	sectionReachable   = "===== Reachable ====="
	sectionUnreachable = "===== Unreachable ====="
	sectionMalformed   = "===== Malformed ====="
	sectionReverify    = "===== Re-verification ====="
)

func writeText(w io.Writer, rep Report) error {
	sum := rep.Summary
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Website availability report")
	fmt.Fprintf(bw, "Generated: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(bw, "Run ID: %s\n", sum.RunID)
	fmt.Fprintf(bw, "Total sites: %d\n", sum.Stats.Total)
	fmt.Fprintf(bw, "Reachable: %d\n", len(sum.Reachable))
	fmt.Fprintf(bw, "Unreachable: %d\n", len(sum.Unreachable))
	fmt.Fprintf(bw, "Malformed: %d\n", len(sum.Malformed))
	fmt.Fprintf(bw, "Elapsed: %.2fs\n\n", sum.Stats.Elapsed.Seconds())

	fmt.Fprintln(bw, sectionReachable)
	for _, r := range sum.Reachable {
		fmt.Fprintln(bw, r.Target)
	}

	fmt.Fprintf(bw, "\n%s\n", sectionUnreachable)
	for _, r := range sum.Unreachable {
		fmt.Fprintf(bw, "%s\nReason: %s\n", r.Target, r.Outcome)
	}

	fmt.Fprintf(bw, "\n%s\n", sectionMalformed)
	for _, r := range sum.Malformed {
		fmt.Fprintf(bw, "%s\nReason: %s\n", r.Target, r.Outcome)
	}

	if len(rep.Diagnoses) > 0 {
		fmt.Fprintf(bw, "\n%s\n", sectionReverify)
		for _, d := range rep.Diagnoses {
			fmt.Fprintf(bw, "%s\nResult: %s\n", d.Target, d.Detail)
		}
	}
	return bw.Flush()
}

// ReachableFromText reads the reachable section back out of a txt report.
func ReachableFromText(r io.Reader) ([]domain.Target, error) {
	var out []domain.Target
	in := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == sectionReachable:
			in = true
		case strings.HasPrefix(line, "====="):
			in = false
		case in && line != "":
			out = append(out, domain.Target(line))
		}
	}
	return out, sc.Err()
}
