// Command adscraper performs one scrape of a Facebook Ad Library page and
// writes the records to CSV.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eejihoon/scrappers/config"
	"github.com/eejihoon/scrappers/logging"
	"github.com/eejihoon/scrappers/models"
	"github.com/eejihoon/scrappers/runner"
	"github.com/eejihoon/scrappers/scraper"
)

func main() {
	pageID := flag.String("page-id", "", "Facebook page ID to scrape (required)")
	country := flag.String("country", "", "ad library country filter (default US)")
	mediaType := flag.String("media-type", "", "media type filter: all, image, video")
	activeStatus := flag.String("active-status", "", "status filter: active, inactive, all")
	maxAds := flag.Int("max-ads", 0, "stop after this many records, 0 for no limit")
	headless := flag.Bool("headless", true, "run the browser headless")
	collectVersions := flag.Bool("collect-versions", false, "open the detail overlay on multi-version ads")
	noArchive := flag.Bool("no-archive", false, "skip saving the page source")
	skipExisting := flag.Bool("skip-existing", false, "skip records already present in the output CSV")
	outputFile := flag.String("output-file", "ad_data.csv", "output CSV filename")
	fromArchive := flag.String("from-archive", "", "re-extract from a saved page source instead of the live site")
	selectorsFile := flag.String("selectors", "", "YAML selector profile overriding the defaults")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := config.Load()
	if *debug {
		cfg.Log.Level = "debug"
	}
	cfg.Browser.Headless = *headless
	logging.Setup(cfg.Log)

	if *pageID == "" {
		slog.Error("missing required flag -page-id")
		os.Exit(2)
	}

	selectors, err := config.LoadSelectors(*selectorsFile)
	if err != nil {
		slog.Error("invalid selector profile", "path", *selectorsFile, "error", err)
		os.Exit(1)
	}

	req := models.RunRequest{
		PageID:          *pageID,
		Country:         *country,
		MediaType:       *mediaType,
		ActiveStatus:    *activeStatus,
		MaxAds:          *maxAds,
		CollectVersions: *collectVersions,
		ArchiveHTML:     !*noArchive,
	}

	var run *runner.Runner
	if *fromArchive != "" {
		html, readErr := os.ReadFile(*fromArchive)
		if readErr != nil {
			slog.Error("cannot read archived page", "path", *fromArchive, "error", readErr)
			os.Exit(1)
		}
		req.ArchiveHTML = false
		run, err = runner.NewWithDriver(cfg, scraper.NewReplayDriver(string(html)), *outputFile)
	} else {
		run, err = runner.New(cfg, selectors, *outputFile)
	}
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer run.Close()

	run.SkipExisting(*skipExisting)

	// SIGINT finishes the current card before stopping, so the CSV never
	// ends on a half-written record.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		slog.Info("signal received, finishing current card", "signal", sig.String())
		run.Interrupt()
	}()

	summary, err := run.Execute(context.Background(), "", req)
	if err != nil {
		slog.Error("run failed", "error", err)
		run.Close()
		os.Exit(1)
	}

	slog.Info("scrape complete",
		"runID", summary.RunID,
		"totalScraped", summary.TotalScraped,
		"totalErrors", summary.TotalErrors,
		"scrolls", summary.ScrollCount,
	)
}
