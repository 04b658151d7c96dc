package handler

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eejihoon/scrappers/models"
)

// RunFunc executes one scraping run to completion and returns its summary.
// Wired to Orchestrator.Run by the daemon entry point.
type RunFunc func(ctx context.Context, runID string, req models.RunRequest) (*models.RunSummary, error)

// RunManager launches runs in the background and keeps their summaries
// for status polling. A single browser tab backs all runs, so at most one
// run is in flight at a time; concurrent requests are rejected.
type RunManager struct {
	run    RunFunc
	runs   sync.Map // runID -> *runEntry
	active atomic.Bool
}

type runEntry struct {
	summary   *models.RunSummary
	createdAt int64
}

// NewRunManager returns a manager executing runs through run. Completed
// run summaries are kept for one hour.
func NewRunManager(run RunFunc) *RunManager {
	m := &RunManager{run: run}

	// Background goroutine to expire summaries older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			m.runs.Range(func(key, value any) bool {
				if value.(*runEntry).createdAt < cutoff {
					m.runs.Delete(key)
				}
				return true
			})
		}
	}()

	return m
}

// Active reports whether a run is currently in flight.
func (m *RunManager) Active() bool {
	return m.active.Load()
}

// Start launches req as a background run and returns its id. ok is false
// when another run is already in flight.
func (m *RunManager) Start(req models.RunRequest) (string, bool) {
	if !m.active.CompareAndSwap(false, true) {
		return "", false
	}

	runID := uuid.NewString()
	m.runs.Store(runID, &runEntry{
		summary: &models.RunSummary{
			RunID:     runID,
			Platform:  models.PlatformFacebook,
			Status:    models.RunStatusPending,
			StartedAt: time.Now(),
		},
		createdAt: time.Now().Unix(),
	})

	go func() {
		defer m.active.Store(false)
		summary, _ := m.run(context.Background(), runID, req)
		m.runs.Store(runID, &runEntry{summary: summary, createdAt: time.Now().Unix()})
	}()

	return runID, true
}

// Summary returns the summary for runID, or nil when unknown.
func (m *RunManager) Summary(runID string) *models.RunSummary {
	val, ok := m.runs.Load(runID)
	if !ok {
		return nil
	}
	return val.(*runEntry).summary
}

// PostRun returns a handler for POST /api/v1/runs.
func PostRun(m *RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RunRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		runID, ok := m.Start(req)
		if !ok {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeRateLimited,
					Message: "a run is already in progress",
				},
			})
			return
		}

		c.JSON(http.StatusAccepted, models.RunResponse{
			RunID:  runID,
			Status: models.RunStatusPending,
		})
	}
}

// GetRun returns a handler for GET /api/v1/runs/:id.
func GetRun(m *RunManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary := m.Summary(c.Param("id"))
		if summary == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "run not found",
				},
			})
			return
		}

		c.JSON(http.StatusOK, models.RunStatusResponse{Summary: summary})
	}
}
