// Package services wires the acquisition, extraction and gallery layers
// together. The Loader owns the single published collection and runs load
// passes against it.
package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/gallery"
	"art-gallery/internal/observability"
	"art-gallery/internal/platform/cache"
	"art-gallery/internal/sources"
)

// descriptorDateLayouts are the formats accepted for explicit manifest dates.
var descriptorDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006:01:02 15:04:05",
}

// Loader runs load passes: source chain, per-image resolution, then a
// wholesale replacement of the published collection.
type Loader struct {
	chain     *sources.Chain
	fetcher   artwork.Fetcher
	extractor artwork.Extractor
	inspector artwork.Inspector
	cache     *cache.RedisClient    // optional
	recorder  artwork.LoadRecorder  // optional
	log       *observability.Logger

	workers      int
	maxImageSize int64

	// generation guards against a stale slow pass overwriting the result
	// of a newer one.
	generation atomic.Int64

	mu         sync.RWMutex
	collection *gallery.Collection
	loaded     bool
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithCache attaches a snapshot cache.
func WithCache(c *cache.RedisClient) LoaderOption {
	return func(l *Loader) { l.cache = c }
}

// WithRecorder attaches a load-pass audit recorder.
func WithRecorder(r artwork.LoadRecorder) LoaderOption {
	return func(l *Loader) { l.recorder = r }
}

// WithWorkers bounds concurrent per-image resolution.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMaxImageSize caps how many bytes are read per image.
func WithMaxImageSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxImageSize = n
		}
	}
}

func NewLoader(chain *sources.Chain, fetcher artwork.Fetcher, extractor artwork.Extractor,
	inspector artwork.Inspector, log *observability.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		chain:        chain,
		fetcher:      fetcher,
		extractor:    extractor,
		inspector:    inspector,
		log:          log,
		workers:      4,
		maxImageSize: 20 * 1024 * 1024,
		collection:   gallery.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Refresh runs a complete load pass and publishes the result, unless a newer
// pass started in the meantime. It returns the number of resolved records.
func (l *Loader) Refresh(ctx context.Context) (int, error) {
	gen := l.generation.Add(1)
	start := time.Now()

	descriptors, sourceName := l.chain.Load(ctx)
	records := l.resolveAll(ctx, descriptors)

	// The staleness check must happen under the same lock as the publish,
	// or a newer pass could slip in between the check and the Ingest.
	l.mu.Lock()
	if gen != l.generation.Load() {
		l.mu.Unlock()
		l.log.Debug(ctx).
			Int64("generation", gen).
			Msg("discarding stale load pass")
		return len(records), nil
	}
	l.collection.Ingest(records, sourceName)
	l.loaded = true
	snap := l.collection.ToSnapshot()
	l.mu.Unlock()

	l.log.Info(ctx).
		Str("source", sourceName).
		Int("descriptors", len(descriptors)).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("load pass complete")

	if l.cache != nil {
		// An empty snapshot is useless on restart, so an empty pass drops
		// the cached one instead of overwriting it.
		if len(records) == 0 {
			if err := l.cache.InvalidateSnapshot(ctx); err != nil {
				l.log.Warn(ctx).Err(err).Msg("failed to invalidate gallery snapshot")
			}
		} else if err := l.cache.SetSnapshot(ctx, snap); err != nil {
			l.log.Warn(ctx).Err(err).Msg("failed to cache gallery snapshot")
		}
	}

	if l.recorder != nil {
		pass := &artwork.LoadPass{
			Source:     sourceName,
			ImageCount: len(records),
			Duration:   time.Since(start),
			StartedAt:  start,
		}
		if err := l.recorder.Record(ctx, pass); err != nil {
			l.log.Warn(ctx).Err(err).Msg("failed to record load pass")
		}
	}

	return len(records), nil
}

// resolveAll fetches, inspects and extracts every descriptor concurrently.
// Individually failed images are dropped; the pass itself never fails.
func (l *Loader) resolveAll(ctx context.Context, descriptors []artwork.RawDescriptor) []artwork.Record {
	var (
		mu      sync.Mutex
		records []artwork.Record
	)

	loadedAt := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for _, d := range descriptors {
		g.Go(func() error {
			record, ok := l.resolve(ctx, d, loadedAt)
			if !ok {
				return nil
			}
			mu.Lock()
			records = append(records, record)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers only ever return nil

	return records
}

// resolve turns one descriptor into a record. A fetch failure drops the
// image; inspection and extraction failures only degrade its metadata.
func (l *Loader) resolve(ctx context.Context, d artwork.RawDescriptor, loadedAt time.Time) (artwork.Record, bool) {
	body, err := l.fetcher.Fetch(ctx, d.Filename)
	if err != nil {
		l.log.Warn(ctx).
			Err(err).
			Str("filename", d.Filename).
			Msg("dropping image, fetch failed")
		return artwork.Record{}, false
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, l.maxImageSize))
	if err != nil {
		l.log.Warn(ctx).
			Err(err).
			Str("filename", d.Filename).
			Msg("dropping image, read failed")
		return artwork.Record{}, false
	}

	record := artwork.Record{
		Filename: d.Filename,
		Src:      "/api/artworks/" + d.Filename + "/view",
	}

	if w, h, err := l.inspector.Inspect(bytes.NewReader(data)); err == nil {
		record.Width, record.Height = w, h
	}

	meta := l.extractor.Extract(bytes.NewReader(data))

	// Explicit descriptor metadata wins over embedded tags; the filename
	// and the load time are the fallbacks of last resort.
	switch {
	case d.Title != "":
		record.Title = d.Title
	case meta.Title != "":
		record.Title = meta.Title
	default:
		record.Title = artwork.DeriveTitle(d.Filename)
	}

	switch {
	case d.Date != "":
		record.CapturedAt = parseDescriptorDate(d.Date, loadedAt)
	case !meta.CapturedAt.IsZero():
		record.CapturedAt = meta.CapturedAt
	default:
		record.CapturedAt = loadedAt
	}

	record.Description = d.Description
	if record.Description == "" {
		record.Description = meta.Description
	}
	record.Camera = meta.Camera
	record.Software = meta.Software

	return record, true
}

// parseDescriptorDate tries the accepted layouts, substituting the load time
// when none match. CapturedAt must never be left unset.
func parseDescriptorDate(raw string, fallback time.Time) time.Time {
	for _, layout := range descriptorDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return fallback
}

// EnsureLoaded runs a load pass if none has been published yet, preferring a
// cached snapshot when one is available.
func (l *Loader) EnsureLoaded(ctx context.Context) {
	l.mu.RLock()
	loaded := l.loaded
	l.mu.RUnlock()
	if loaded {
		return
	}

	if l.cache != nil {
		if snap, err := l.cache.GetSnapshot(ctx); err == nil && len(snap.Records) > 0 {
			l.mu.Lock()
			if !l.loaded {
				l.collection = gallery.FromSnapshot(snap)
				l.loaded = true
			}
			l.mu.Unlock()
			l.log.Info(ctx).
				Int("records", len(snap.Records)).
				Msg("gallery restored from cache")
			return
		}
	}

	if _, err := l.Refresh(ctx); err != nil {
		l.log.Error(ctx).Err(err).Msg("initial load pass failed")
	}
}

// SortBy switches the active sort key on the published collection.
func (l *Loader) SortBy(key gallery.SortKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.collection.SortBy(key)
}

// Records returns the published records in their current order.
func (l *Loader) Records() []artwork.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collection.Records()
}

// Sort returns the active sort key.
func (l *Loader) Sort() gallery.SortKey {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collection.Sort()
}

// Empty reports whether the published collection has no records.
func (l *Loader) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collection.Empty()
}

// Fetcher exposes the artwork byte fetcher for the view route.
func (l *Loader) Fetcher() artwork.Fetcher {
	return l.fetcher
}
