package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eejihoon/scrappers/models"
)

// csvHeaders is the fixed column order of the output file.
var csvHeaders = []string{
	"library_id",
	"start_date",
	"platforms",
	"thumbnail_url",
	"learn_more_url",
	"multiple_versions_images",
	"scraped_at",
	"platform",
}

// listSeparator joins multi-value columns; none of the values can
// contain it (platform names and URLs).
const listSeparator = "|"

// CSVSink appends records to a CSV file, writing the header only when
// the file is created. Each record is flushed immediately.
type CSVSink struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink opens (or creates) the CSV file at dir/filename.
func NewCSVSink(dir, filename string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create csv directory: %w", err)
	}
	path := filepath.Join(dir, filename)

	info, statErr := os.Stat(path)
	needHeader := statErr != nil || info.Size() == 0

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}

	sink := &CSVSink{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
	}

	if needHeader {
		if err := sink.writer.Write(csvHeaders); err != nil {
			file.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		sink.writer.Flush()
	}
	return sink, nil
}

// Path returns the file the sink writes to.
func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Append(ctx context.Context, record *models.AdRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	row := []string{
		record.LibraryID,
		record.StartDate,
		strings.Join(record.Platforms, listSeparator),
		record.ThumbnailURL,
		record.LearnMoreURL,
		strings.Join(record.MultipleVersionsImages, listSeparator),
		record.ScrapedAt.Format(time.RFC3339),
		string(record.Platform),
	}

	if err := s.writer.Write(row); err != nil {
		return models.NewScrapeError(models.ErrCodeSink, "csv append failed", err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return models.NewScrapeError(models.ErrCodeSink, "csv flush failed", err)
	}
	return nil
}

func (s *CSVSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// ExistingLibraryIDs reads back every library_id already present in the
// file, for callers that want cross-run deduplication on top of the
// per-run seen-set.
func (s *CSVSink) ExistingLibraryIDs() ([]string, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var ids []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		ids = append(ids, row[0])
	}
	return ids, nil
}
