package models

import "time"

// Platform identifies the ad library a record was collected from.
type Platform string

const (
	PlatformFacebook Platform = "facebook"
)

// AdRecord is one normalized advertisement extracted from the ad library.
//
// LibraryID is the deduplication key; a record is only emitted when it is
// non-empty, and each LibraryID is emitted at most once per run.
type AdRecord struct {
	Platform Platform `json:"platform"`

	// LibraryID is the ad library's own identifier, digits only in all
	// observed formats.
	LibraryID string `json:"library_id"`

	// StartDate is the normalized YYYY-MM-DD start date, or "" when the
	// card text carried no parseable date.
	StartDate string `json:"start_date"`

	// Platforms lists where the ad is shown, e.g. ["Facebook","Instagram"].
	// Never empty; defaults to ["Facebook"].
	Platforms []string `json:"platforms"`

	ThumbnailURL string `json:"thumbnail_url"`
	LearnMoreURL string `json:"learn_more_url"`

	// MultipleVersionsImages holds creative URLs collected from the ad
	// detail overlay, deduplicated. Empty for single-version ads.
	MultipleVersionsImages []string `json:"multiple_versions_images"`

	// ScrapedAt is assigned once when the record is created.
	ScrapedAt time.Time `json:"scraped_at"`
}

// NewAdRecord returns a record with the per-platform defaults applied.
func NewAdRecord(platform Platform) *AdRecord {
	return &AdRecord{
		Platform:  platform,
		Platforms: []string{"Facebook"},
		ScrapedAt: time.Now(),
	}
}

// RunStatus is the lifecycle state of a scraping run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunSummary is the per-run report exposed to the API and logged at the
// end of each run.
type RunSummary struct {
	RunID        string    `json:"run_id"`
	Platform     Platform  `json:"platform"`
	Status       RunStatus `json:"status"`
	TotalScraped int       `json:"total_scraped"`
	TotalErrors  int       `json:"total_errors"`
	ErrorDetails []string  `json:"error_details,omitempty"`
	ScrollCount  int       `json:"scroll_count"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitzero"`
	Error        *ErrorDetail `json:"error,omitempty"`
}
