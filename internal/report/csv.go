package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

var csvHeader = []string{"bucket", "url", "kind", "reason", "status", "detail", "latency_ms", "checked_at"}

func resultRow(r domain.Result) []string {
	status := ""
	if r.Outcome.StatusCode != 0 {
		status = strconv.Itoa(r.Outcome.StatusCode)
	}
	checked := ""
	if !r.CheckedAt.IsZero() {
		checked = r.CheckedAt.Format(time.RFC3339)
	}
	return []string{
		string(r.Outcome.Kind),
		r.Target.String(),
		string(r.Outcome.Kind),
		string(r.Outcome.Reason),
		status,
		r.Outcome.String(),
		strconv.FormatFloat(float64(r.Outcome.Latency)/float64(time.Millisecond), 'f', 1, 64),
		checked,
	}
}

func writeCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	sum := rep.Summary
	for _, bucket := range [][]domain.Result{sum.Reachable, sum.Unreachable, sum.Malformed} {
		for _, r := range bucket {
			if err := cw.Write(resultRow(r)); err != nil {
				return err
			}
		}
	}
	for _, d := range rep.Diagnoses {
		if err := cw.Write([]string{"reverification", d.Target.String(), "", "", "", d.Detail, "", ""}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
