package httpapi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hamed0406/sitecheck/internal/report"
)

var (
	ErrNotFound    = errors.New("report not found")
	ErrInvalidName = errors.New("invalid report name")
)

// ReportInfo describes one saved report file.
type ReportInfo struct {
	Name       string    `json:"name"`
	Format     string    `json:"format"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Store reads the report directory the CLI writes into. It never writes
// reports itself.
type Store struct {
	Dir string
}

func validName(name string) (report.Format, error) {
	if name != filepath.Base(name) || !strings.HasPrefix(name, "website_report_") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	f, err := report.ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return f, nil
}

// List returns saved reports, newest first. A missing directory is an
// empty list.
func (s Store) List() ([]ReportInfo, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []ReportInfo{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]ReportInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := validName(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, ReportInfo{
			Name:       e.Name(),
			Format:     string(f),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime().UTC(),
		})
	}
	// names embed the timestamp
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (s Store) path(name string) (string, report.Format, error) {
	f, err := validName(name)
	if err != nil {
		return "", "", err
	}
	p := filepath.Join(s.Dir, name)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", "", err
	}
	return p, f, nil
}

// Latest decodes the newest JSON report.
func (s Store) Latest() (report.Document, error) {
	list, err := s.List()
	if err != nil {
		return report.Document{}, err
	}
	for _, ri := range list {
		if ri.Format != string(report.FormatJSON) {
			continue
		}
		file, err := os.Open(filepath.Join(s.Dir, ri.Name))
		if err != nil {
			return report.Document{}, err
		}
		defer file.Close()
		return report.DecodeDocument(file)
	}
	return report.Document{}, ErrNotFound
}

func (s Store) Delete(name string) error {
	p, _, err := s.path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}
