// Package runner wires a browser driver, storage sinks, and the card
// orchestrator into a run executor shared by the CLI and the daemon.
package runner

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/eejihoon/scrappers/config"
	"github.com/eejihoon/scrappers/models"
	"github.com/eejihoon/scrappers/scraper"
	"github.com/eejihoon/scrappers/storage"
	"github.com/eejihoon/scrappers/webhook"
)

// Runner executes scraping runs against one long-lived driver. Runs are
// expected to be serialized by the caller; the underlying driver owns a
// single browser tab.
type Runner struct {
	cfg          *config.Config
	driver       scraper.Driver
	csv          *storage.CSVSink
	sink         storage.Sink
	archiver     *storage.Archiver
	skipExisting bool
	closeDriver  func()

	current atomic.Pointer[scraper.Orchestrator]
}

// New launches a browser session and opens the storage sinks. csvFilename
// is the CSV file appended to under the configured output directory.
func New(cfg *config.Config, selectors *config.Selectors, csvFilename string) (*Runner, error) {
	session, err := scraper.NewSession(cfg.Browser, cfg.Scraper, selectors)
	if err != nil {
		return nil, err
	}

	r, err := NewWithDriver(cfg, session, csvFilename)
	if err != nil {
		session.Close()
		return nil, err
	}
	r.closeDriver = session.Close
	return r, nil
}

// NewWithDriver builds a Runner around an existing driver. Used for
// archive replay, where no browser is involved.
func NewWithDriver(cfg *config.Config, driver scraper.Driver, csvFilename string) (*Runner, error) {
	csvSink, err := storage.NewCSVSink(
		filepath.Join(cfg.Storage.OutputDir, cfg.Storage.CSVDir),
		csvFilename,
	)
	if err != nil {
		return nil, err
	}

	sinks := storage.MultiSink{csvSink}
	if cfg.Redis.Addr != "" {
		redisSink, err := storage.NewRedisSink(cfg.Redis)
		if err != nil {
			_ = csvSink.Close()
			return nil, err
		}
		sinks = append(sinks, redisSink)
		slog.Info("publishing records to redis",
			"addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	}

	archiver, err := storage.NewArchiver(
		filepath.Join(cfg.Storage.OutputDir, cfg.Storage.HTMLDir),
	)
	if err != nil {
		_ = sinks.Close()
		return nil, err
	}

	return &Runner{
		cfg:      cfg,
		driver:   driver,
		csv:      csvSink,
		sink:     sinks,
		archiver: archiver,
	}, nil
}

// SkipExisting seeds each run's duplicate set from the CSV file, so records
// collected by earlier runs are not emitted again.
func (r *Runner) SkipExisting(enabled bool) {
	r.skipExisting = enabled
}

// Execute performs one run and delivers the webhook notification when
// configured. Satisfies handler.RunFunc.
func (r *Runner) Execute(ctx context.Context, runID string, req models.RunRequest) (*models.RunSummary, error) {
	o := scraper.New(r.driver, r.sink, r.cfg.Scraper)
	o.SetArchiver(r.archiver)

	if r.skipExisting {
		ids, err := r.csv.ExistingLibraryIDs()
		if err != nil {
			slog.Warn("could not read existing records, duplicates possible", "error", err)
		} else {
			o.SeedSeen(ids)
		}
	}

	r.current.Store(o)
	defer r.current.Store(nil)

	summary, err := o.Run(ctx, runID, req)

	if r.cfg.Webhook.URL != "" && summary != nil {
		webhook.DeliverAsync(r.cfg.Webhook.URL, r.cfg.Webhook.Secret, webhook.NewRunEvent(summary))
	}
	return summary, err
}

// Interrupt asks the in-flight run, if any, to stop after its current card.
func (r *Runner) Interrupt() {
	if o := r.current.Load(); o != nil {
		o.Interrupt()
	}
}

// Close releases the browser and flushes the sinks.
func (r *Runner) Close() {
	if r.closeDriver != nil {
		r.closeDriver()
	}
	if err := r.sink.Close(); err != nil {
		slog.Warn("sink close failed", "error", err)
	}
}
