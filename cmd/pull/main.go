package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/larsvdm/fieldtrack/internal/config"
	"github.com/larsvdm/fieldtrack/internal/connector"
	"github.com/larsvdm/fieldtrack/internal/connector/pinion"
	"github.com/larsvdm/fieldtrack/internal/connector/roamler"
	"github.com/larsvdm/fieldtrack/internal/connector/wiser"
	"github.com/larsvdm/fieldtrack/internal/domain"
	"github.com/larsvdm/fieldtrack/internal/logger"
	"github.com/larsvdm/fieldtrack/internal/service"
	"github.com/larsvdm/fieldtrack/internal/storage"
	"github.com/larsvdm/fieldtrack/internal/targets"
)

// pull is the one-shot CLI: fetch progress from every vendor, print a summary
// and write the XLSX workbook, optionally publishing it to object storage.
func main() {
	var (
		configPath = flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
		from       = flag.String("from", "", "window start (YYYY-MM-DD), defaults to the configured window")
		to         = flag.String("to", "", "window end (YYYY-MM-DD), defaults to the configured window")
		out        = flag.String("out", "progress.xlsx", "output XLSX path, empty to skip")
		publish    = flag.Bool("publish", false, "also upload the workbook to object storage")
		timeout    = flag.Duration("timeout", 10*time.Minute, "overall timeout")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(logger.LoadFromEnv())
	logger.SetDefault(appLogger)
	defer logger.Sync()

	window := domain.Window{From: cfg.Roamler.DateFrom, To: cfg.Roamler.DateTo}
	if *from != "" {
		window.From = *from
	}
	if *to != "" {
		window.To = *to
	}

	targetStore, err := targets.Load(cfg.Tracker.TargetsPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load targets")
	}

	connectors := []connector.Connector{
		roamler.NewConnector(roamler.NewClient(nil, appLogger), nil, &roamler.Config{
			Workers: cfg.Roamler.Workers,
		}, appLogger),
		wiser.New(wiser.Config{
			BaseURL:    cfg.Wiser.BaseURL,
			APIKey:     cfg.Wiser.APIKey,
			ManualPath: cfg.Wiser.ManualPath,
		}, appLogger),
		pinion.New(pinion.Config{
			BaseURL:    cfg.Pinion.BaseURL,
			APIKey:     cfg.Pinion.APIKey,
			ManualPath: cfg.Pinion.ManualPath,
		}, appLogger),
	}

	tracker := service.NewTracker(connectors, service.TrackerOptions{
		Targets:       targetStore,
		DefaultWindow: window,
	}, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := tracker.Progress(ctx, window, true)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to build progress report")
	}

	printSummary(report)

	if *out != "" {
		data, err := service.WorkbookBytes(report)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to render workbook")
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			appLogger.WithError(err).Fatal("Failed to write workbook")
		}
		fmt.Printf("\nWorkbook written to %s\n", *out)
	}

	if *publish {
		if !cfg.Storage.Enabled {
			appLogger.Fatal("Cannot publish: object storage is not enabled")
		}
		s3, err := storage.NewS3Storage(&cfg.Storage)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize object storage")
		}
		url, err := service.PublishReport(ctx, s3, cfg.Tracker.ExportKey, report)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to publish report")
		}
		fmt.Printf("Published to %s\n", url)
	}
}

func printSummary(report *domain.Report) {
	fmt.Printf("Progress %s to %s\n\n", report.Window.From, report.Window.To)
	fmt.Printf("%-6s %-20s %-10s %10s %8s %7s  %s\n",
		"Market", "Category", "Platform", "Completed", "Target", "Pct", "Status")
	for _, row := range report.Rows {
		fmt.Printf("%-6s %-20s %-10s %10d %8d %6.1f%%  %s\n",
			row.Market, row.Category, row.Platform, row.Completed, row.Target, row.Pct, row.Status)
	}
	fmt.Printf("\nTotal: %d / %d\n", report.TotalCompleted(), report.TotalTarget())

	for _, diag := range report.Diagnostics {
		if diag.SkippedUnknownMarket == 0 && len(diag.FailedJobs) == 0 {
			continue
		}
		fmt.Printf("\n[%s] %d jobs, %d skipped (unknown market), %d failed\n",
			diag.Platform, diag.TotalJobs, diag.SkippedUnknownMarket, len(diag.FailedJobs))
		for _, title := range diag.UnknownTitles {
			fmt.Printf("  skipped: %s\n", title)
		}
		for _, failure := range diag.FailedJobs {
			fmt.Printf("  failed job %s (%s/%s): %s\n",
				failure.JobID, failure.Market, failure.Category, failure.Error)
		}
	}
}
