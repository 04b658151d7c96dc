package models

// RunRequest is the payload for POST /api/v1/runs and the parameter set
// for a one-shot CLI run.
type RunRequest struct {
	// PageID is the Facebook page whose ads are collected. Required.
	PageID string `json:"page_id" binding:"required"`

	// Country is the two-letter ad library country filter.
	// Default: "US".
	Country string `json:"country,omitempty"`

	// MediaType filters by creative media type ("all", "image", "video").
	// Default: "all".
	MediaType string `json:"media_type,omitempty" binding:"omitempty,oneof=all image video"`

	// ActiveStatus filters by ad status ("active", "inactive", "all").
	// Default: "active".
	ActiveStatus string `json:"active_status,omitempty" binding:"omitempty,oneof=active inactive all"`

	// MaxAds caps the number of records emitted; 0 means no limit.
	MaxAds int `json:"max_ads,omitempty" binding:"omitempty,min=0"`

	// CollectVersions enables the ad-detail overlay walk that gathers
	// every creative of multi-version ads. Slower per card.
	CollectVersions bool `json:"collect_versions,omitempty"`

	// ArchiveHTML saves the fully scrolled page source alongside the run.
	ArchiveHTML bool `json:"archive_html,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *RunRequest) Defaults() {
	if r.Country == "" {
		r.Country = "US"
	}
	if r.MediaType == "" {
		r.MediaType = "all"
	}
	if r.ActiveStatus == "" {
		r.ActiveStatus = "active"
	}
}
