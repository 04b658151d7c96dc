package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/eejihoon/scrappers/config"
	"github.com/eejihoon/scrappers/dom"
	"github.com/eejihoon/scrappers/extract"
	"github.com/eejihoon/scrappers/models"
	"github.com/eejihoon/scrappers/storage"
)

// Driver is the browser capability set the orchestrator needs. Session is
// the production implementation; tests substitute a fake over static HTML.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context) error
	ScrollToBottom(ctx context.Context) (int, error)
	Root() (dom.Node, error)
	PageSource() (string, error)
	OpenModal(ctx context.Context, button dom.Node) error
	ModalImageURLs() ([]string, error)
	CloseModal(ctx context.Context) error
}

// Orchestrator runs the full scrape of one search-result page: navigate,
// scroll, locate cards, extract each card, and stream accepted records to
// the sink one at a time.
//
// A faulty card never aborts the run: each card is processed in isolation
// and its failure is recorded in the run summary by card index. Duplicates
// and cards without a library identifier are dropped silently. Interruption
// (context cancellation or Interrupt) is honored between cards only, so an
// in-flight card always completes or fails whole.
type Orchestrator struct {
	driver   Driver
	sink     storage.Sink
	archiver *storage.Archiver
	cfg      config.ScraperConfig
	log      *slog.Logger

	seen        map[string]struct{}
	interrupted atomic.Bool
}

// New returns an Orchestrator writing accepted records to sink.
func New(driver Driver, sink storage.Sink, cfg config.ScraperConfig) *Orchestrator {
	return &Orchestrator{
		driver: driver,
		sink:   sink,
		cfg:    cfg,
		log:    slog.Default(),
		seen:   make(map[string]struct{}),
	}
}

// SetArchiver enables page-source archiving for runs requesting it.
func (o *Orchestrator) SetArchiver(a *storage.Archiver) {
	o.archiver = a
}

// SeedSeen pre-populates the duplicate set, so records already persisted
// by earlier runs are not emitted again.
func (o *Orchestrator) SeedSeen(ids []string) {
	for _, id := range ids {
		o.seen[id] = struct{}{}
	}
}

// Interrupt asks the run to stop after the current card. Safe to call from
// signal handlers.
func (o *Orchestrator) Interrupt() {
	o.interrupted.Store(true)
}

// Run executes one scrape described by req and reports the outcome.
// The summary is non-nil even on failure. runID may be empty, in which
// case one is generated.
func (o *Orchestrator) Run(ctx context.Context, runID string, req models.RunRequest) (*models.RunSummary, error) {
	if runID == "" {
		runID = uuid.NewString()
	}
	req.Defaults()

	summary := &models.RunSummary{
		RunID:     runID,
		Platform:  models.PlatformFacebook,
		Status:    models.RunStatusRunning,
		StartedAt: time.Now(),
	}
	log := o.log.With("runID", runID, "pageID", req.PageID)

	searchURL, err := BuildSearchURL(o.cfg.BaseURL, req)
	if err != nil {
		return o.fail(summary, err)
	}

	log.Info("run started", "url", searchURL)

	if err := o.driver.Navigate(ctx, searchURL); err != nil {
		return o.fail(summary, err)
	}
	if err := o.driver.WaitReady(ctx); err != nil {
		return o.fail(summary, err)
	}

	scrolls, err := o.driver.ScrollToBottom(ctx)
	summary.ScrollCount = scrolls
	if err != nil {
		return o.fail(summary, err)
	}

	if req.ArchiveHTML && o.archiver != nil {
		if src, srcErr := o.driver.PageSource(); srcErr != nil {
			log.Warn("page source unavailable, skipping archive", "error", srcErr)
		} else if path, saveErr := o.archiver.SavePageSource(runID, src); saveErr != nil {
			log.Warn("failed to archive page source", "error", saveErr)
		} else {
			log.Info("page source archived", "path", path)
		}
	}

	root, err := o.driver.Root()
	if err != nil {
		return o.fail(summary, err)
	}

	cards := extract.LocateCards(root)
	log.Info("cards located", "count", len(cards))

	for i, card := range cards {
		// Interruption is only honored here, between cards.
		if ctx.Err() != nil || o.interrupted.Load() {
			log.Info("run interrupted", "processedCards", i)
			break
		}
		if req.MaxAds > 0 && summary.TotalScraped >= req.MaxAds {
			log.Info("max ads reached", "maxAds", req.MaxAds)
			break
		}

		res := o.processCard(ctx, card, req)
		switch {
		case res.err != nil:
			summary.TotalErrors++
			summary.ErrorDetails = append(summary.ErrorDetails,
				fmt.Sprintf("card %d: %v", i, res.err))
			log.Error("card extraction failed", "card", i, "error", res.err)
		case res.record == nil:
			log.Debug("card skipped", "card", i, "reason", res.skipReason)
		default:
			if sinkErr := o.sink.Append(ctx, res.record); sinkErr != nil {
				summary.TotalErrors++
				summary.ErrorDetails = append(summary.ErrorDetails,
					fmt.Sprintf("card %d: sink: %v", i, sinkErr))
				log.Error("sink rejected record", "card", i,
					"libraryID", res.record.LibraryID, "error", sinkErr)
				continue
			}
			summary.TotalScraped++
			log.Debug("record emitted", "card", i, "libraryID", res.record.LibraryID)
		}
	}

	summary.Status = models.RunStatusCompleted
	summary.FinishedAt = time.Now()
	log.Info("run finished",
		"totalScraped", summary.TotalScraped,
		"totalErrors", summary.TotalErrors,
		"scrolls", summary.ScrollCount,
	)
	return summary, nil
}

func (o *Orchestrator) fail(summary *models.RunSummary, err error) (*models.RunSummary, error) {
	summary.Status = models.RunStatusFailed
	summary.FinishedAt = time.Now()
	if se, ok := err.(*models.ScrapeError); ok {
		summary.Error = se.ToDetail()
	} else {
		summary.Error = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err).ToDetail()
	}
	o.log.Error("run failed", "runID", summary.RunID, "error", err)
	return summary, err
}

// cardResult is the outcome of one card: an accepted record, a silent skip
// with a reason, or a fault.
type cardResult struct {
	record     *models.AdRecord
	skipReason string
	err        error
}

// processCard extracts one card in isolation. Panics inside extraction are
// recovered and reported as that card's fault.
func (o *Orchestrator) processCard(ctx context.Context, card dom.Node, req models.RunRequest) (res cardResult) {
	defer func() {
		if r := recover(); r != nil {
			res = cardResult{err: models.NewScrapeError(
				models.ErrCodeExtraction,
				fmt.Sprintf("panic during extraction: %v", r),
				nil,
			)}
		}
	}()

	text := card.Text()

	id := extract.LibraryID(text)
	if id == "" {
		return cardResult{skipReason: "no library id"}
	}
	if _, dup := o.seen[id]; dup {
		return cardResult{skipReason: "duplicate"}
	}

	record := models.NewAdRecord(models.PlatformFacebook)
	record.LibraryID = id
	record.StartDate = extract.StartDate(text)
	record.Platforms = extract.Platforms(text)
	record.ThumbnailURL = extract.SelectThumbnail(card)
	record.LearnMoreURL = extract.LearnMoreURL(card)

	if req.CollectVersions && extract.HasMultipleVersions(text) {
		urls, err := o.collectVersions(ctx, card)
		if err != nil {
			// The base record is still good; only the overlay walk failed.
			o.log.Warn("multi-version collection failed",
				"libraryID", id, "error", err)
		}
		record.MultipleVersionsImages = urls
	}

	o.seen[id] = struct{}{}
	return cardResult{record: record}
}

// collectVersions opens the ad-detail overlay, gathers every creative URL,
// and closes the overlay again. The close runs unconditionally so a failed
// collection cannot leave the overlay covering the remaining cards.
func (o *Orchestrator) collectVersions(ctx context.Context, card dom.Node) ([]string, error) {
	button := extract.FindAdDetailsButton(card)
	if button == nil {
		return nil, nil
	}

	if err := o.driver.OpenModal(ctx, button); err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := o.driver.CloseModal(ctx); closeErr != nil {
			o.log.Warn("failed to close detail overlay", "error", closeErr)
		}
	}()

	srcs, err := o.driver.ModalImageURLs()
	if err != nil {
		return nil, err
	}
	return extract.FilterCreativeURLs(srcs), nil
}
