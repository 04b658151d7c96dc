package storage

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eejihoon/scrappers/models"
)

func sampleRecord(id string) *models.AdRecord {
	return &models.AdRecord{
		Platform:               models.PlatformFacebook,
		LibraryID:              id,
		StartDate:              "2025-06-26",
		Platforms:              []string{"Facebook", "Instagram"},
		ThumbnailURL:           "https://scontent.xx.fbcdn.net/v/creative.jpg",
		LearnMoreURL:           "https://shop.example.com",
		MultipleVersionsImages: []string{"https://scontent.xx.fbcdn.net/v/a.jpg", "https://scontent.xx.fbcdn.net/v/b.jpg"},
		ScrapedAt:              time.Date(2025, 6, 27, 12, 0, 0, 0, time.UTC),
	}
}

func TestCSVSinkWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewCSVSink(dir, "ad_data.csv")
	require.NoError(t, err)

	require.NoError(t, sink.Append(context.Background(), sampleRecord("111")))
	require.NoError(t, sink.Append(context.Background(), sampleRecord("222")))
	require.NoError(t, sink.Close())

	file, err := os.Open(sink.Path())
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeaders, rows[0])
	assert.Equal(t, "111", rows[1][0])
	assert.Equal(t, "2025-06-26", rows[1][1])
	assert.Equal(t, "Facebook|Instagram", rows[1][2])
	assert.Equal(t, "https://scontent.xx.fbcdn.net/v/a.jpg|https://scontent.xx.fbcdn.net/v/b.jpg", rows[1][5])
	assert.Equal(t, "facebook", rows[1][7])
	assert.Equal(t, "222", rows[2][0])
}

func TestCSVSinkAppendsWithoutDuplicateHeader(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewCSVSink(dir, "ad_data.csv")
	require.NoError(t, err)
	require.NoError(t, sink.Append(context.Background(), sampleRecord("111")))
	require.NoError(t, sink.Close())

	// Reopen: the existing header must not be repeated.
	sink, err = NewCSVSink(dir, "ad_data.csv")
	require.NoError(t, err)
	require.NoError(t, sink.Append(context.Background(), sampleRecord("222")))
	require.NoError(t, sink.Close())

	file, err := os.Open(sink.Path())
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeaders, rows[0])
}

func TestCSVSinkExistingLibraryIDs(t *testing.T) {
	dir := t.TempDir()

	sink, err := NewCSVSink(dir, "ad_data.csv")
	require.NoError(t, err)
	require.NoError(t, sink.Append(context.Background(), sampleRecord("111")))
	require.NoError(t, sink.Append(context.Background(), sampleRecord("222")))

	ids, err := sink.ExistingLibraryIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, ids)

	require.NoError(t, sink.Close())
}

func TestMultiSinkFansOut(t *testing.T) {
	dir := t.TempDir()

	a, err := NewCSVSink(dir, "a.csv")
	require.NoError(t, err)
	b, err := NewCSVSink(dir, "b.csv")
	require.NoError(t, err)

	multi := MultiSink{a, b}
	require.NoError(t, multi.Append(context.Background(), sampleRecord("111")))
	require.NoError(t, multi.Close())

	for _, sink := range []*CSVSink{a, b} {
		file, err := os.Open(sink.Path())
		require.NoError(t, err)
		rows, err := csv.NewReader(file).ReadAll()
		file.Close()
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	}
}
