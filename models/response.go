package models

// RunResponse is returned by POST /api/v1/runs once the run is accepted.
type RunResponse struct {
	RunID  string    `json:"run_id"`
	Status RunStatus `json:"status"`
}

// RunStatusResponse is returned by GET /api/v1/runs/:id.
type RunStatusResponse struct {
	Summary *RunSummary `json:"summary"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	RunActive bool   `json:"run_active"`
	Version   string `json:"version"`
}

// ErrorResponse wraps an ErrorDetail for non-2xx API responses.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}
