package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hamed0406/sitecheck/internal/browser"
	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/logging"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/progress"
	"github.com/hamed0406/sitecheck/internal/report"
	"github.com/hamed0406/sitecheck/internal/results"
	"github.com/hamed0406/sitecheck/internal/runner"
	"github.com/hamed0406/sitecheck/internal/targets"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()
	fs := flag.NewFlagSet("sitecheck", flag.ExitOnError)
	cfg.BindFlags(fs)
	openFlag := fs.String("open", string(modeAsk), "open reachable sites in the browser: ask | yes | no")
	reportFlag := fs.String("report", string(modeAsk), "write a report when something failed: ask | yes | no | always")
	reverify := fs.Bool("reverify", true, "re-check failures one by one before writing the report")
	verbose := fs.Bool("verbose", false, "enable debug logs on stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: sitecheck [flags] [url ...]\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	openMode, err1 := parseMode("open", *openFlag, modeAsk, modeYes, modeNo)
	reportMode, err2 := parseMode("report", *reportFlag, modeAsk, modeYes, modeNo, modeAlways)
	if err := multierr.Combine(cfg.Validate(), err1, err2); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:")
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	formats, _ := report.ParseFormats(cfg.ReportFormats)

	logger, err := logging.New(cfg.LogDir, logging.Options{Verbose: *verbose})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con := report.NewConsole(color.Output)

	raw := fs.Args()
	if len(raw) == 0 {
		var fromFile bool
		raw, fromFile, err = targets.Load(cfg.URLsFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !fromFile {
			logger.Info("url_file_missing", zap.String("path", cfg.URLsFile))
			con.Println(fmt.Sprintf("%s not found, using the built-in list", cfg.URLsFile))
		}
	}
	tg, err := targets.Prepare(raw)
	if errors.Is(err, targets.ErrNothingToProbe) {
		con.Println("no usable URLs, nothing to do")
		return 0
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	workers, capped := cfg.Workers()
	if capped {
		logger.Warn("concurrency_capped", zap.Int("requested", cfg.Concurrency), zap.Int("used", workers))
	}

	checker, err := probe.NewProxiedHTTPChecker(cfg.Timeout, cfg.Proxy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	con.Banner(len(raw), len(tg), workers, cfg.Timeout)

	set := results.New("", tg, len(raw))
	tracker := progress.New(len(tg), cfg.ProgressInterval, con.Progress)
	rn := runner.New(logger.With(zap.String("run_id", set.RunID())), checker, runner.Options{
		Concurrency: workers,
		Timeout:     cfg.Timeout,
		Limiter:     limiter,
	})

	sum, err := rn.Collect(ctx, set, tg, con.Status, tracker.Observe)
	if err != nil {
		logger.Error("run_failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "run failed:", err)
		return 1
	}
	con.Summary(sum)

	prompt := newPrompter(os.Stdin, os.Stdout)

	if len(sum.Reachable) > 0 && ctx.Err() == nil &&
		prompt.confirm(openMode, fmt.Sprintf("Open %d reachable sites in the browser?", len(sum.Reachable))) {
		con.Println(fmt.Sprintf("opening %d sites...", len(sum.Reachable)))
		if err := browser.NewOpener(logger, cfg.OpenDelay).Open(ctx, sum.ReachableTargets()); err != nil {
			con.Println("some sites could not be opened:", err)
		}
	}

	failures := sum.Failures()
	wantReport := reportMode == modeAlways ||
		(len(failures) > 0 && prompt.confirm(reportMode, "Write a report?"))
	if !wantReport {
		return 0
	}

	var diags []probe.Diagnosis
	if *reverify && len(failures) > 0 && ctx.Err() == nil {
		con.Println(fmt.Sprintf("\nre-checking %d failed sites, please wait...", len(failures)))
		rv := probe.NewReverifier(cfg.ReverifyTimeout, logger)
		if cfg.Proxy != "" {
			pc, err := probe.NewProxiedHTTPChecker(cfg.ReverifyTimeout, cfg.Proxy)
			if err == nil {
				pc.UserAgent = probe.PlainUserAgent
				rv.Checker = pc
			}
		}
		diags = rv.Run(ctx, failures)
		con.Diagnoses(diags)
	}

	paths, err := report.NewWriter(cfg.ReportDir, logger).WriteAll(report.Report{Summary: sum, Diagnoses: diags}, formats)
	for _, p := range paths {
		con.Println("report saved to:", p)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		return 1
	}
	return 0
}
