// Package gallery holds the in-memory ordered collection of resolved artwork
// records and the active sort key. The collection is replaced wholesale on
// every load pass, never patched incrementally.
package gallery

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"art-gallery/internal/domain/artwork"
)

// SortKey selects the gallery ordering.
type SortKey string

const (
	// SortByDate orders newest first. This is the default.
	SortByDate SortKey = "date"
	// SortByName orders by locale-aware title comparison, ascending.
	SortByName SortKey = "name"
)

// ParseSortKey maps a request parameter onto a sort key, defaulting to date.
func ParseSortKey(s string) SortKey {
	if SortKey(s) == SortByName {
		return SortByName
	}
	return SortByDate
}

// Collection is the gallery model. It is not safe for concurrent use; the
// owning loader serializes access.
type Collection struct {
	records  []artwork.Record
	sortKey  SortKey
	loadedAt time.Time
	source   string
}

// Snapshot is the cacheable form of a collection.
type Snapshot struct {
	Records  []artwork.Record `json:"records"`
	SortKey  SortKey          `json:"sort_key"`
	LoadedAt time.Time        `json:"loaded_at"`
	Source   string           `json:"source"`
}

// New creates an empty collection with the default sort key.
func New() *Collection {
	return &Collection{sortKey: SortByDate}
}

// FromSnapshot rebuilds a collection from its cached form.
func FromSnapshot(s *Snapshot) *Collection {
	c := &Collection{
		records:  append([]artwork.Record(nil), s.Records...),
		sortKey:  s.SortKey,
		loadedAt: s.LoadedAt,
		source:   s.Source,
	}
	if c.sortKey == "" {
		c.sortKey = SortByDate
	}
	c.sort()
	return c
}

// Ingest replaces the collection contents and re-applies the active sort.
func (c *Collection) Ingest(records []artwork.Record, source string) {
	c.records = append(c.records[:0:0], records...)
	c.loadedAt = time.Now()
	c.source = source
	c.sort()
}

// SortBy switches the active sort key and reorders the records in place.
func (c *Collection) SortBy(key SortKey) {
	c.sortKey = key
	c.sort()
}

func (c *Collection) sort() {
	switch c.sortKey {
	case SortByName:
		cl := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(c.records, func(i, j int) bool {
			return cl.CompareString(c.records[i].Title, c.records[j].Title) < 0
		})
	default:
		sort.SliceStable(c.records, func(i, j int) bool {
			return c.records[i].CapturedAt.After(c.records[j].CapturedAt)
		})
	}
}

// Records returns a copy of the ordered records.
func (c *Collection) Records() []artwork.Record {
	return append([]artwork.Record(nil), c.records...)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Empty reports whether the collection holds no records.
func (c *Collection) Empty() bool {
	return len(c.records) == 0
}

// Sort returns the active sort key.
func (c *Collection) Sort() SortKey {
	return c.sortKey
}

// LoadedAt returns when the current contents were ingested.
func (c *Collection) LoadedAt() time.Time {
	return c.loadedAt
}

// Source names the acquisition strategy that produced the current contents.
func (c *Collection) Source() string {
	return c.source
}

// ToSnapshot returns the cacheable form of the collection.
func (c *Collection) ToSnapshot() *Snapshot {
	return &Snapshot{
		Records:  c.Records(),
		SortKey:  c.sortKey,
		LoadedAt: c.loadedAt,
		Source:   c.source,
	}
}
