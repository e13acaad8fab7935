package main

import (
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/httpapi"
	apimw "github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/logging"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	api := httpapi.NewServer(logger, cfg.ReportDir)
	keys := apimw.Keys{Readers: cfg.PublicAPIKeys, Deleters: cfg.AdminAPIKeys}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.String("report_dir", cfg.ReportDir),
		zap.Bool("auth", len(keys.Readers)+len(keys.Deleters) > 0),
	)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
