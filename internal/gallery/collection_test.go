package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"art-gallery/internal/domain/artwork"
)

func testRecords() []artwork.Record {
	return []artwork.Record{
		{Filename: "b.jpg", Title: "Beach", CapturedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Filename: "a.jpg", Title: "Alpine", CapturedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Filename: "c.jpg", Title: "canyon", CapturedAt: time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC)},
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortByDate, ParseSortKey(""))
	assert.Equal(t, SortByDate, ParseSortKey("date"))
	assert.Equal(t, SortByName, ParseSortKey("name"))
	assert.Equal(t, SortByDate, ParseSortKey("bogus"))
}

func TestCollection_DefaultSortIsNewestFirst(t *testing.T) {
	c := New()
	c.Ingest(testRecords(), "manifest")

	records := c.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "Alpine", records[0].Title)
	assert.Equal(t, "Beach", records[1].Title)
	assert.Equal(t, "canyon", records[2].Title)

	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].CapturedAt.After(records[i-1].CapturedAt),
			"date order must be non-increasing")
	}
}

func TestCollection_SortByName(t *testing.T) {
	c := New()
	c.Ingest(testRecords(), "manifest")
	c.SortBy(SortByName)

	records := c.Records()
	require.Len(t, records, 3)
	// Locale-aware comparison ignores case: "canyon" sorts with the Cs.
	assert.Equal(t, "Alpine", records[0].Title)
	assert.Equal(t, "Beach", records[1].Title)
	assert.Equal(t, "canyon", records[2].Title)
}

func TestCollection_SortIsIdempotent(t *testing.T) {
	for _, key := range []SortKey{SortByDate, SortByName} {
		c := New()
		c.Ingest(testRecords(), "manifest")
		c.SortBy(key)
		once := c.Records()
		c.SortBy(key)
		twice := c.Records()
		assert.Equal(t, once, twice, "sorting twice by %s changed the order", key)
	}
}

func TestCollection_IngestReplacesContents(t *testing.T) {
	c := New()
	c.Ingest(testRecords(), "manifest")
	require.Equal(t, 3, c.Len())

	c.Ingest([]artwork.Record{
		{Filename: "solo.jpg", Title: "Solo", CapturedAt: time.Now()},
	}, "probe")

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "probe", c.Source())
	assert.Equal(t, "Solo", c.Records()[0].Title)
}

func TestCollection_IngestKeepsActiveSort(t *testing.T) {
	c := New()
	c.SortBy(SortByName)
	c.Ingest(testRecords(), "manifest")
	assert.Equal(t, SortByName, c.Sort())
	assert.Equal(t, "Alpine", c.Records()[0].Title)
}

func TestCollection_Empty(t *testing.T) {
	c := New()
	assert.True(t, c.Empty())
	c.Ingest(testRecords(), "manifest")
	assert.False(t, c.Empty())
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := New()
	c.Ingest(testRecords(), "listing")
	c.SortBy(SortByName)

	restored := FromSnapshot(c.ToSnapshot())
	assert.Equal(t, c.Records(), restored.Records())
	assert.Equal(t, c.Sort(), restored.Sort())
	assert.Equal(t, c.Source(), restored.Source())
}
