package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Document is the JSON form of a report. The saved-report viewer serves it
// back unchanged.
type Document struct {
	RunID          string       `json:"run_id"`
	GeneratedAt    time.Time    `json:"generated_at"`
	StartedAt      time.Time    `json:"started_at"`
	Inputs         int          `json:"inputs"`
	Total          int          `json:"total"`
	ElapsedMS      float64      `json:"elapsed_ms"`
	Reachable      []Entry      `json:"reachable"`
	Unreachable    []Entry      `json:"unreachable"`
	Malformed      []Entry      `json:"malformed"`
	Reverification []Diagnostic `json:"reverification,omitempty"`
}

type Entry struct {
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	Reason    string    `json:"reason,omitempty"`
	Status    int       `json:"status,omitempty"`
	Detail    string    `json:"detail"`
	LatencyMS float64   `json:"latency_ms"`
	CheckedAt time.Time `json:"checked_at"`
}

type Diagnostic struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

func entries(rs []domain.Result) []Entry {
	out := make([]Entry, 0, len(rs))
	for _, r := range rs {
		out = append(out, Entry{
			URL:       r.Target.String(),
			Kind:      string(r.Outcome.Kind),
			Reason:    string(r.Outcome.Reason),
			Status:    r.Outcome.StatusCode,
			Detail:    r.Outcome.String(),
			LatencyMS: float64(r.Outcome.Latency) / float64(time.Millisecond),
			CheckedAt: r.CheckedAt,
		})
	}
	return out
}

// NewDocument flattens a Report into its JSON shape.
func NewDocument(rep Report) Document {
	sum := rep.Summary
	doc := Document{
		RunID:       sum.RunID,
		GeneratedAt: rep.GeneratedAt,
		StartedAt:   sum.StartedAt,
		Inputs:      sum.Inputs,
		Total:       sum.Stats.Total,
		ElapsedMS:   float64(sum.Stats.Elapsed) / float64(time.Millisecond),
		Reachable:   entries(sum.Reachable),
		Unreachable: entries(sum.Unreachable),
		Malformed:   entries(sum.Malformed),
	}
	for _, d := range rep.Diagnoses {
		doc.Reverification = append(doc.Reverification, Diagnostic{URL: d.Target.String(), Detail: d.Detail})
	}
	return doc
}

func writeJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(rep))
}

// DecodeDocument reads a JSON report.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode report: %w", err)
	}
	return doc, nil
}
