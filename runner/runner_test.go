package runner

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eejihoon/scrappers/config"
	"github.com/eejihoon/scrappers/models"
	"github.com/eejihoon/scrappers/scraper"
)

const archivedPage = `<html><body><main>
	<div class="card">
		<div><span>라이브러리 ID: 1111767890</span></div>
		<div><span>2025. 6. 26.에 게재 시작함</span></div>
		<div><span>플랫폼</span></div>
		<img src="https://scontent.xx.fbcdn.net/v/creative.jpg" width="600" height="400">
	</div>
	<div class="card">
		<div><span>Library ID: 2222000000</span></div>
		<div><span>Started running on Jul 1, 2025</span></div>
		<div><span>Facebook</span></div>
	</div>
</main></body></html>`

func testRunnerConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Load()
	cfg.Storage.OutputDir = t.TempDir()
	cfg.Redis.Addr = ""
	cfg.Webhook.URL = ""
	return cfg
}

func TestExecuteReplayWritesCSV(t *testing.T) {
	cfg := testRunnerConfig(t)

	r, err := NewWithDriver(cfg, scraper.NewReplayDriver(archivedPage), "ad_data.csv")
	require.NoError(t, err)
	defer r.Close()

	summary, err := r.Execute(context.Background(), "", models.RunRequest{PageID: "123"})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalScraped)
	assert.Equal(t, 0, summary.TotalErrors)
	assert.Equal(t, models.RunStatusCompleted, summary.Status)

	path := filepath.Join(cfg.Storage.OutputDir, cfg.Storage.CSVDir, "ad_data.csv")
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "1111767890", rows[1][0])
	assert.Equal(t, "2025-06-26", rows[1][1])
	assert.Equal(t, "2222000000", rows[2][0])
	assert.Equal(t, "2025-07-01", rows[2][1])
}

func TestExecuteSkipExistingSeedsFromCSV(t *testing.T) {
	cfg := testRunnerConfig(t)

	first, err := NewWithDriver(cfg, scraper.NewReplayDriver(archivedPage), "ad_data.csv")
	require.NoError(t, err)
	_, err = first.Execute(context.Background(), "", models.RunRequest{PageID: "123"})
	require.NoError(t, err)
	first.Close()

	// A second pass over the same archive with skip-existing emits nothing.
	second, err := NewWithDriver(cfg, scraper.NewReplayDriver(archivedPage), "ad_data.csv")
	require.NoError(t, err)
	defer second.Close()
	second.SkipExisting(true)

	summary, err := second.Execute(context.Background(), "", models.RunRequest{PageID: "123"})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalScraped)

	path := filepath.Join(cfg.Storage.OutputDir, cfg.Storage.CSVDir, "ad_data.csv")
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
