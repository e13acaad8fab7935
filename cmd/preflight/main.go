// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/sitecheck/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		fail("configuration invalid")
	}
	ok(fmt.Sprintf("concurrency=%d timeout=%s reverify_timeout=%s", cfg.Concurrency, cfg.Timeout, cfg.ReverifyTimeout))
	if n, capped := cfg.Workers(); capped {
		warn(fmt.Sprintf("SITECHECK_CONCURRENCY=%d is above the cap; %d workers will be used", cfg.Concurrency, n))
	}

	if _, err := os.Stat(cfg.URLsFile); err != nil {
		warn(cfg.URLsFile + " not found; the built-in URL list will be used.")
	} else {
		ok("SITECHECK_URLS_FILE=" + cfg.URLsFile)
	}

	if cfg.Proxy != "" {
		ok("SITECHECK_PROXY=" + cfg.Proxy)
	}
	if cfg.Rate > 0 {
		ok(fmt.Sprintf("SITECHECK_RATE=%v probes/s", cfg.Rate))
	}
	ok("SITECHECK_REPORT_FORMAT=" + cfg.ReportFormats + " -> " + cfg.ReportDir)

	// report viewer
	for name, v := range map[string]string{"ADMIN_API_KEYS": os.Getenv("ADMIN_API_KEYS"), "PUBLIC_API_KEYS": os.Getenv("PUBLIC_API_KEYS")} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}
	if len(cfg.AdminAPIKeys) == 0 {
		warn("ADMIN_API_KEYS is empty; anyone can delete saved reports.")
	}
	if len(cfg.PublicAPIKeys) == 0 && len(cfg.AdminAPIKeys) == 0 {
		warn("no API keys set; the report viewer is open to any client.")
	}
	ok("API_ADDR=" + cfg.Addr)

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	ok("preflight passed")
}
