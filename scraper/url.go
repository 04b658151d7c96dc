package scraper

import (
	"net/url"

	"github.com/eejihoon/scrappers/models"
)

// BuildSearchURL assembles the ad library search URL for one run.
// page_id is mandatory; country, media_type and active_status fall back
// to the request defaults. The remaining parameters are fixed to the
// values the library expects for a page-scoped search.
func BuildSearchURL(baseURL string, req models.RunRequest) (string, error) {
	if req.PageID == "" {
		return "", models.NewScrapeError(
			models.ErrCodeInvalidInput,
			"page_id is required",
			nil,
		)
	}
	req.Defaults()

	q := url.Values{}
	q.Set("country", req.Country)
	q.Set("active_status", req.ActiveStatus)
	q.Set("ad_type", "all")
	q.Set("is_targeted_country", "false")
	q.Set("media_type", req.MediaType)
	q.Set("search_type", "page")
	q.Set("view_all_page_id", req.PageID)

	return baseURL + "?" + q.Encode(), nil
}
