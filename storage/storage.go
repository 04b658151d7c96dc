// Package storage persists scraped ad records. Records arrive one at a
// time as the orchestrator accepts them, so every sink appends
// incrementally and a crashed run keeps everything emitted so far.
package storage

import (
	"context"

	"github.com/eejihoon/scrappers/models"
)

// Sink receives accepted records one at a time.
type Sink interface {
	// Append persists a single record.
	Append(ctx context.Context, record *models.AdRecord) error

	// Close flushes and releases the sink.
	Close() error
}

// MultiSink fans every record out to all member sinks. The first append
// error is returned, but remaining sinks still receive the record.
type MultiSink []Sink

func (m MultiSink) Append(ctx context.Context, record *models.AdRecord) error {
	var firstErr error
	for _, s := range m {
		if err := s.Append(ctx, record); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m MultiSink) Close() error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
