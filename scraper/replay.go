package scraper

import (
	"context"
	"strings"

	"github.com/eejihoon/scrappers/dom"
	"github.com/eejihoon/scrappers/models"
)

// ReplayDriver serves a saved page source through the Driver interface, so
// archived runs can be re-extracted without a browser. Navigation and
// scrolling are no-ops; the detail overlay cannot be opened.
type ReplayDriver struct {
	html string
}

// NewReplayDriver returns a driver over an archived page source.
func NewReplayDriver(html string) *ReplayDriver {
	return &ReplayDriver{html: html}
}

func (d *ReplayDriver) Navigate(context.Context, string) error { return nil }

func (d *ReplayDriver) WaitReady(context.Context) error { return nil }

func (d *ReplayDriver) ScrollToBottom(context.Context) (int, error) { return 0, nil }

func (d *ReplayDriver) Root() (dom.Node, error) {
	return dom.Parse(strings.NewReader(d.html))
}

func (d *ReplayDriver) PageSource() (string, error) { return d.html, nil }

func (d *ReplayDriver) OpenModal(context.Context, dom.Node) error {
	return models.NewScrapeError(models.ErrCodeModal, "detail overlay is unavailable on archived pages", nil)
}

func (d *ReplayDriver) ModalImageURLs() ([]string, error) { return nil, nil }

func (d *ReplayDriver) CloseModal(context.Context) error { return nil }
