// Package report renders a frozen run Summary to disk and to the terminal.
//
// Every file format carries the same three buckets (reachable, unreachable,
// malformed) in first-seen order, and every per-target reason is the
// Outcome's String form, so a txt and an xlsx report of the same run never
// disagree.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
)

type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatCSV, FormatXLSX}
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseFormats splits a comma separated list such as "txt,json".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	var errs error
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if errs == nil && len(out) == 0 {
		errs = fmt.Errorf("%w: empty", ErrUnknownFormat)
	}
	return out, errs
}

// Report is everything a report file shows.
type Report struct {
	Summary     domain.Summary
	Diagnoses   []probe.Diagnosis
	GeneratedAt time.Time
}

const filePrefix = "website_report_"

// FileName is the timestamped name a report of format f gets.
func FileName(at time.Time, f Format) string {
	return filePrefix + at.Format("20060102_150405") + "." + string(f)
}

// Encode writes rep in format f.
func Encode(w io.Writer, rep Report, f Format) error {
	switch f {
	case FormatText:
		return writeText(w, rep)
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatCSV:
		return writeCSV(w, rep)
	case FormatXLSX:
		return writeXLSX(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

type Writer struct {
	Dir    string
	Logger *zap.Logger
}

func NewWriter(dir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{Dir: dir, Logger: logger}
}

// Write creates the report directory if needed and writes one file.
func (w *Writer) Write(rep Report, f Format) (path string, err error) {
	if rep.GeneratedAt.IsZero() {
		rep.GeneratedAt = time.Now()
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	full := filepath.Join(w.Dir, FileName(rep.GeneratedAt, f))
	file, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
		if err != nil {
			_ = os.Remove(full)
			path = ""
		}
	}()

	if err := Encode(file, rep, f); err != nil {
		return "", fmt.Errorf("encode %s report: %w", f, err)
	}
	w.Logger.Info("report_written",
		zap.String("run_id", rep.Summary.RunID),
		zap.String("format", string(f)),
		zap.String("path", full),
	)
	return full, nil
}

// WriteAll writes one file per format; it keeps going past failures and
// returns every path that was written along with the combined error.
func (w *Writer) WriteAll(rep Report, formats []Format) ([]string, error) {
	if rep.GeneratedAt.IsZero() {
		rep.GeneratedAt = time.Now()
	}
	var paths []string
	var errs error
	for _, f := range formats {
		p, err := w.Write(rep, f)
		if err != nil {
			w.Logger.Warn("report_failed", zap.String("format", string(f)), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		paths = append(paths, p)
	}
	return paths, errs
}
