package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Archiver saves raw page sources for offline re-extraction and
// debugging of selector drift.
type Archiver struct {
	dir string
}

// NewArchiver ensures the archive directory exists.
func NewArchiver(dir string) (*Archiver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Archiver{dir: dir}, nil
}

// SavePageSource writes the page HTML under a timestamped name and
// returns the file path.
func (a *Archiver) SavePageSource(runID, html string) (string, error) {
	name := fmt.Sprintf("%s_%s.html", time.Now().Format("20060102_150405"), runID)
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("write page archive: %w", err)
	}
	return path, nil
}
