// Command adscraperd serves the scraping API and, when configured, runs
// scheduled recurring scrapes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/eejihoon/scrappers/api"
	"github.com/eejihoon/scrappers/api/handler"
	"github.com/eejihoon/scrappers/config"
	"github.com/eejihoon/scrappers/logging"
	"github.com/eejihoon/scrappers/models"
	"github.com/eejihoon/scrappers/runner"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	logging.Setup(cfg.Log)
	slog.Info("adscraperd starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
	)

	selectors, err := config.LoadSelectors(os.Getenv("ADSCRAPER_SELECTORS_FILE"))
	if err != nil {
		slog.Error("invalid selector profile", "error", err)
		os.Exit(1)
	}

	// ── 3. Initialise runner (launches browser, opens sinks) ───────
	run, err := runner.New(cfg, selectors, "ad_data.csv")
	if err != nil {
		slog.Error("failed to initialise runner", "error", err)
		os.Exit(1)
	}
	defer run.Close()

	// ── 4. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	runs := handler.NewRunManager(run.Execute)
	router := api.NewRouter(runs, cfg, startTime)

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Scheduled recurring runs ─────────────────────────────────
	var scheduler gocron.Scheduler
	if cfg.Schedule.Interval > 0 && len(cfg.Schedule.PageIDs) > 0 {
		scheduler, err = startScheduler(cfg, runs)
		if err != nil {
			slog.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
	}

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// An in-flight run finishes its current card and stops.
	run.Interrupt()

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			slog.Error("scheduler shutdown error", "error", err)
		}
	}

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// run.Close() runs via defer; it kills Chrome and flushes the sinks.
	slog.Info("adscraperd stopped")
}

// startScheduler kicks off a recurring scrape of every configured page.
// Pages are scraped sequentially; the browser serves one run at a time.
func startScheduler(cfg *config.Config, runs *handler.RunManager) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(cfg.Schedule.Interval),
		gocron.NewTask(func() {
			for _, pageID := range cfg.Schedule.PageIDs {
				req := models.RunRequest{
					PageID:      pageID,
					Country:     cfg.Schedule.Country,
					ArchiveHTML: true,
				}
				runID, ok := runs.Start(req)
				if !ok {
					slog.Warn("scheduled run skipped, another run in flight", "pageID", pageID)
					continue
				}
				slog.Info("scheduled run started", "runID", runID, "pageID", pageID)

				for runs.Active() {
					time.Sleep(time.Second)
				}
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	slog.Info("scheduler started",
		"interval", cfg.Schedule.Interval,
		"pages", len(cfg.Schedule.PageIDs),
	)
	return s, nil
}
