package targets

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// ErrNothingToProbe is returned when no targets remain after normalization.
// Callers decide whether to stop; it is not fatal.
var ErrNothingToProbe = errors.New("nothing to probe")

const defaultScheme = "https://"

// Normalize trims raw and prepends https:// when no scheme is present.
// Strings that already carry a scheme are kept as-is, even unsupported ones,
// so the probe can report them as malformed.
func Normalize(raw string) (domain.Target, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if !strings.Contains(s, "://") {
		s = defaultScheme + s
	}
	return domain.Target(s), true
}

// Dedup removes repeats while keeping the first occurrence's position.
func Dedup(in []domain.Target) []domain.Target {
	seen := make(map[domain.Target]struct{}, len(in))
	out := make([]domain.Target, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Prepare normalizes and deduplicates raw input.
func Prepare(raw []string) ([]domain.Target, error) {
	norm := make([]domain.Target, 0, len(raw))
	for _, r := range raw {
		if t, ok := Normalize(r); ok {
			norm = append(norm, t)
		}
	}
	out := Dedup(norm)
	if len(out) == 0 {
		return nil, ErrNothingToProbe
	}
	return out, nil
}

// LoadFile reads one URL per line. Empty lines and lines starting with '#'
// are ignored.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan url file: %w", err)
	}
	return out, nil
}

// Load reads path when it exists and falls back to the built-in list when it
// does not. fromFile reports which source was used.
func Load(path string) (raw []string, fromFile bool, err error) {
	if path != "" {
		raw, err = LoadFile(path)
		if err == nil {
			return raw, true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, err
		}
	}
	return Builtin(), false, nil
}
