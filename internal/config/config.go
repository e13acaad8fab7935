package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/sitecheck/internal/report"
)

// MaxConcurrency caps the worker pool regardless of what was asked for.
const MaxConcurrency = 100

var (
	ErrConcurrency = errors.New("concurrency must be at least 1")
	ErrTimeout     = errors.New("timeout must be positive")
	ErrProxy       = errors.New("invalid proxy url")
	ErrRate        = errors.New("rate must not be negative")
)

type Config struct {
	// probing
	Concurrency      int           // workers; 1..MaxConcurrency
	Timeout          time.Duration // per probe
	ReverifyTimeout  time.Duration // per probe in the re-verification pass
	ProgressInterval time.Duration // minimum gap between progress lines
	OpenDelay        time.Duration // gap between browser tabs
	Rate             float64       // probe starts per second; 0 = unlimited
	Proxy            string        // http://, https://, socks5:// upstream; empty = direct
	URLsFile         string        // one URL per line
	ReportDir        string
	ReportFormats    string // comma separated, e.g. "txt,json"

	// ambient
	LogDir string

	// saved-report viewer
	Addr           string // e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	PublicAPIKeys  []string
	AdminAPIKeys   []string
	AllowedOrigins []string
	PublicRPM      int
	PublicBurst    int
}

func FromEnv() Config {
	// Bind address (Windows-friendly default)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	return Config{
		Concurrency:      envInt("SITECHECK_CONCURRENCY", 30, 1),
		Timeout:          envMS("SITECHECK_TIMEOUT_MS", 1500*time.Millisecond, 1),
		ReverifyTimeout:  envMS("SITECHECK_REVERIFY_TIMEOUT_MS", 5*time.Second, 1),
		ProgressInterval: envMS("SITECHECK_PROGRESS_MS", 500*time.Millisecond, 1),
		OpenDelay:        envMS("SITECHECK_OPEN_DELAY_MS", 100*time.Millisecond, 0),
		Rate:             envFloat("SITECHECK_RATE", 0),
		Proxy:            strings.TrimSpace(os.Getenv("SITECHECK_PROXY")),
		URLsFile:         envString("SITECHECK_URLS_FILE", "website_list.txt"),
		ReportDir:        envString("SITECHECK_REPORT_DIR", "website_reports"),
		ReportFormats:    envString("SITECHECK_REPORT_FORMAT", string(report.FormatText)),

		LogDir: envString("LOG_DIR", "logs"),

		Addr:           addr,
		PublicAPIKeys:  envList("PUBLIC_API_KEYS"),
		AdminAPIKeys:   envList("ADMIN_API_KEYS"),
		AllowedOrigins: envList("ALLOWED_ORIGINS"),
		PublicRPM:      envInt("PUBLIC_RPM", 120, 0),
		PublicBurst:    envInt("PUBLIC_BURST", 60, 1),
	}
}

// BindFlags registers the probing flags on fs with the current values as
// defaults, so anything given on the command line overrides the env.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Concurrency, "concurrency", c.Concurrency, "number of concurrent probe workers (max 100)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "per-probe timeout")
	fs.DurationVar(&c.ReverifyTimeout, "reverify-timeout", c.ReverifyTimeout, "per-probe timeout of the re-verification pass")
	fs.DurationVar(&c.ProgressInterval, "progress", c.ProgressInterval, "minimum interval between progress lines")
	fs.DurationVar(&c.OpenDelay, "open-delay", c.OpenDelay, "delay between browser tabs")
	fs.Float64Var(&c.Rate, "rate", c.Rate, "max probe starts per second (0 = unlimited)")
	fs.StringVar(&c.Proxy, "proxy", c.Proxy, "upstream proxy: http://, https:// or socks5://host:port")
	fs.StringVar(&c.URLsFile, "input", c.URLsFile, "path to file with one URL per line")
	fs.StringVar(&c.ReportDir, "report-dir", c.ReportDir, "directory for report files")
	fs.StringVar(&c.ReportFormats, "format", c.ReportFormats, "report formats: txt,json,csv,xlsx")
	fs.StringVar(&c.LogDir, "log-dir", c.LogDir, "log directory")
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs error
	if c.Concurrency < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%w: got %d", ErrConcurrency, c.Concurrency))
	}
	if c.Timeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: got %s", ErrTimeout, c.Timeout))
	}
	if c.ReverifyTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: reverify got %s", ErrTimeout, c.ReverifyTimeout))
	}
	if c.Rate < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: got %v", ErrRate, c.Rate))
	}
	if _, err := report.ParseFormats(c.ReportFormats); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Proxy != "" {
		if err := checkProxy(c.Proxy); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Workers is Concurrency capped at MaxConcurrency; capped reports whether
// the cap applied.
func (c Config) Workers() (n int, capped bool) {
	if c.Concurrency > MaxConcurrency {
		return MaxConcurrency, true
	}
	return c.Concurrency, false
}

func checkProxy(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProxy, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrProxy, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrProxy)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt falls back to def when unset, unparsable or below floor.
func envInt(key string, def, floor int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= floor {
			return n
		}
	}
	return def
}

func envMS(key string, def time.Duration, minMS int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= minMS {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
