package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
	"golang.org/x/time/rate"

	"github.com/eejihoon/scrappers/config"
	"github.com/eejihoon/scrappers/dom"
	"github.com/eejihoon/scrappers/models"
)

// Session drives one headless browser tab against the ad library.
// It implements Driver; a Session serves one run at a time.
type Session struct {
	browser    *rod.Browser
	page       *rod.Page
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig
	selectors  *config.Selectors
	limiter    *rate.Limiter
}

// NewSession launches a headless browser with automation masking and opens
// a single tab configured for the Korean-localized ad library.
func NewSession(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, selectors *config.Selectors) (*Session, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-ipc-flooding-protection"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	// The card layout collapses below desktop widths.
	l.Set(flags.Flag("window-size"),
		fmt.Sprintf("%d,%d", browserCfg.WindowWidth, browserCfg.WindowHeight))
	l.Set(flags.Flag("lang"), "ko-KR")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.MustClose()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	// Stealth JS must be installed before the first navigation.
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth",
			"error", evalErr,
		)
	}

	// The library localizes card labels from Accept-Language; the parsers
	// handle both Korean and English variants, but the Korean layout is
	// the one the selectors are tuned for.
	if browserCfg.AcceptLanguage != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Accept-Language": browserCfg.AcceptLanguage,
			}),
		}.Call(page)
	}

	var limiter *rate.Limiter
	if scraperCfg.NavigationsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(scraperCfg.NavigationsPerMinute/60.0), 1)
	}

	return &Session{
		browser:    browser,
		page:       page,
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		selectors:  selectors,
		limiter:    limiter,
	}, nil
}

// Navigate loads url in the session tab, paced by the navigation limiter.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return categorizeError(err, "navigation pacing interrupted")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.scraperCfg.NavigationTimeout)
	defer cancel()

	if err := s.page.Context(ctx).Navigate(url); err != nil {
		return categorizeError(err, "navigation to search URL failed")
	}
	return nil
}

// WaitReady blocks until the ready selector appears and the DOM settles.
func (s *Session) WaitReady(ctx context.Context) error {
	p := s.page.Context(ctx).Timeout(s.scraperCfg.ElementTimeout)
	if _, err := p.Element(s.selectors.WaitReady); err != nil {
		return categorizeError(err, "page did not become ready")
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", err,
		)
	}
	return nil
}

// ScrollToBottom repeatedly scrolls the page to trigger lazy loading,
// stopping when the scroll height stops growing or the attempt cap is
// reached. Returns the number of scroll steps performed.
func (s *Session) ScrollToBottom(ctx context.Context) (int, error) {
	p := s.page.Context(ctx)

	lastHeight, err := scrollHeight(p)
	if err != nil {
		return 0, categorizeError(err, "failed to read scroll height")
	}

	count := 0
	for count < s.scraperCfg.MaxScrollAttempts {
		if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			return count, categorizeError(err, "scroll step failed")
		}
		if err := sleepCtx(ctx, s.scraperCfg.ScrollPause); err != nil {
			return count, err
		}

		newHeight, err := scrollHeight(p)
		if err != nil {
			return count, categorizeError(err, "failed to read scroll height")
		}
		if newHeight == lastHeight {
			break
		}
		lastHeight = newHeight
		count++
		slog.Debug("scrolled", "step", count, "height", newHeight)
	}
	slog.Info("scrolling complete", "steps", count)
	return count, nil
}

// Root returns the document element as the extraction entry point.
func (s *Session) Root() (dom.Node, error) {
	el, err := s.page.Timeout(s.scraperCfg.ElementTimeout).Element("html")
	if err != nil {
		return nil, categorizeError(err, "document root unavailable")
	}
	return newLiveNode(el), nil
}

// PageSource returns the rendered HTML of the current page.
func (s *Session) PageSource() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to read page source")
	}
	return html, nil
}

// OpenModal clicks the ad-detail button and waits for the overlay to settle.
func (s *Session) OpenModal(ctx context.Context, button dom.Node) error {
	live, ok := button.(*liveNode)
	if !ok {
		return models.NewScrapeError(models.ErrCodeModal, "detail button is not a live element", nil)
	}
	if err := live.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return models.NewScrapeError(models.ErrCodeModal, "failed to click detail button", err)
	}
	return sleepCtx(ctx, s.scraperCfg.ModalSettle)
}

// ModalImageURLs returns the src of every overlay image matching the
// configured selector. Filtering and deduplication are the caller's job.
func (s *Session) ModalImageURLs() ([]string, error) {
	els, err := s.page.Elements(s.selectors.ModalImages)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeModal, "failed to list overlay images", err)
	}
	var srcs []string
	for _, el := range els {
		if src, attrErr := el.Attribute("src"); attrErr == nil && src != nil {
			srcs = append(srcs, *src)
		}
	}
	return srcs, nil
}

// CloseModal dismisses the detail overlay: the close control when present,
// the Escape key otherwise. Always attempted so a stuck overlay cannot
// poison the remaining cards.
func (s *Session) CloseModal(ctx context.Context) error {
	p := s.page.Context(ctx).Timeout(2 * time.Second)

	if closeBtn, err := p.Element(s.selectors.ModalClose); err == nil {
		if err := closeBtn.Click(proto.InputMouseButtonLeft, 1); err == nil {
			return sleepCtx(ctx, time.Second)
		}
	}

	if err := p.Keyboard.Press(input.Escape); err != nil {
		return models.NewScrapeError(models.ErrCodeModal, "failed to dismiss overlay", err)
	}
	return sleepCtx(ctx, time.Second)
}

// Close kills the browser process. Call on shutdown to prevent zombie
// Chrome processes.
func (s *Session) Close() {
	slog.Info("session shutting down: closing browser")
	s.browser.MustClose()
}

func scrollHeight(p *rod.Page) (int, error) {
	res, err := p.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// sleepCtx sleeps for d unless the context is canceled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return categorizeError(ctx.Err(), "wait interrupted")
	case <-timer.C:
		return nil
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ScrapeErrors so run summaries
// and the API layer can tell timeouts from hard failures.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "operation canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
