package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/gallery"
	"art-gallery/internal/observability"
	"art-gallery/internal/sources"
)

type fakeSource struct {
	descriptors []artwork.RawDescriptor
	loads       atomic.Int64
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Load(_ context.Context) ([]artwork.RawDescriptor, error) {
	s.loads.Add(1)
	return s.descriptors, nil
}

type fakeFetcher struct {
	failing map[string]bool
}

func (f *fakeFetcher) Fetch(_ context.Context, filename string) (io.ReadCloser, error) {
	if f.failing[filename] {
		return nil, errors.New("connection reset")
	}
	return io.NopCloser(bytes.NewReader([]byte("image-bytes"))), nil
}

type fakeExtractor struct {
	meta map[string]artwork.Metadata
}

func (e *fakeExtractor) Extract(_ io.Reader) artwork.Metadata {
	// Per-image metadata is not distinguishable from the reader alone in
	// this stub, so a single-entry map keyed by "*" serves all images.
	return e.meta["*"]
}

type fakeInspector struct {
	width, height int
	err           error
}

func (i *fakeInspector) Inspect(_ io.Reader) (int, int, error) {
	return i.width, i.height, i.err
}

func newTestLoader(t *testing.T, src artwork.Source, fetcher artwork.Fetcher, meta artwork.Metadata) *Loader {
	t.Helper()

	log := observability.NewNop()
	return NewLoader(
		sources.NewChain(log, src),
		fetcher,
		&fakeExtractor{meta: map[string]artwork.Metadata{"*": meta}},
		&fakeInspector{width: 800, height: 600},
		log,
		WithWorkers(2),
	)
}

func TestLoader_RefreshDropsFailedFetches(t *testing.T) {
	src := &fakeSource{descriptors: []artwork.RawDescriptor{
		{Filename: "a.jpg"},
		{Filename: "b.jpg"},
		{Filename: "c.jpg"},
	}}
	fetcher := &fakeFetcher{failing: map[string]bool{"b.jpg": true}}

	loader := newTestLoader(t, src, fetcher, artwork.Metadata{})

	count, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records := loader.Records()
	require.Len(t, records, 2)
	for _, r := range records {
		assert.NotEqual(t, "b.jpg", r.Filename)
		assert.Equal(t, 800, r.Width)
		assert.Equal(t, 600, r.Height)
		assert.False(t, r.CapturedAt.IsZero())
	}
}

func TestLoader_DefaultSortNewestFirst(t *testing.T) {
	src := &fakeSource{descriptors: []artwork.RawDescriptor{
		{Filename: "winter.jpg", Date: "2024-01-01"},
		{Filename: "summer.jpg", Date: "2024-06-01"},
	}}

	loader := newTestLoader(t, src, &fakeFetcher{}, artwork.Metadata{})

	_, err := loader.Refresh(context.Background())
	require.NoError(t, err)

	records := loader.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "summer.jpg", records[0].Filename)
	assert.Equal(t, "winter.jpg", records[1].Filename)
	assert.Equal(t, gallery.SortByDate, loader.Sort())
}

func TestLoader_DescriptorMetadataWinsOverEmbedded(t *testing.T) {
	src := &fakeSource{descriptors: []artwork.RawDescriptor{
		{Filename: "a.jpg", Title: "Explicit Title", Date: "2023-05-05", Description: "explicit"},
	}}
	embedded := artwork.Metadata{
		Title:       "Embedded Title",
		CapturedAt:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "embedded",
		Camera:      "Canon EOS R5",
	}

	loader := newTestLoader(t, src, &fakeFetcher{}, embedded)

	_, err := loader.Refresh(context.Background())
	require.NoError(t, err)

	records := loader.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Explicit Title", records[0].Title)
	assert.Equal(t, 2023, records[0].CapturedAt.Year())
	assert.Equal(t, "explicit", records[0].Description)
	assert.Equal(t, "Canon EOS R5", records[0].Camera)
}

func TestLoader_EmbeddedMetadataFillsGaps(t *testing.T) {
	src := &fakeSource{descriptors: []artwork.RawDescriptor{
		{Filename: "my_art-02.jpg"},
	}}
	embedded := artwork.Metadata{
		CapturedAt: time.Date(2021, 7, 4, 12, 0, 0, 0, time.UTC),
		Software:   "Procreate",
	}

	loader := newTestLoader(t, src, &fakeFetcher{}, embedded)

	_, err := loader.Refresh(context.Background())
	require.NoError(t, err)

	records := loader.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "My Art #02", records[0].Title)
	assert.Equal(t, embedded.CapturedAt, records[0].CapturedAt)
	assert.Equal(t, "Procreate", records[0].Software)
}

func TestLoader_ViewRouteSrc(t *testing.T) {
	src := &fakeSource{descriptors: []artwork.RawDescriptor{
		{Filename: "a.jpg"},
	}}

	loader := newTestLoader(t, src, &fakeFetcher{}, artwork.Metadata{})

	_, err := loader.Refresh(context.Background())
	require.NoError(t, err)

	records := loader.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "/api/artworks/a.jpg/view", records[0].Src)
}

func TestLoader_EnsureLoadedRunsOnce(t *testing.T) {
	src := &fakeSource{descriptors: []artwork.RawDescriptor{
		{Filename: "a.jpg"},
	}}

	loader := newTestLoader(t, src, &fakeFetcher{}, artwork.Metadata{})

	ctx := context.Background()
	loader.EnsureLoaded(ctx)
	loader.EnsureLoaded(ctx)

	assert.Equal(t, int64(1), src.loads.Load())
	assert.False(t, loader.Empty())
}

func TestLoader_ExhaustedChainPublishesEmptyGallery(t *testing.T) {
	failing := &fakeSource{}
	failing.descriptors = nil

	loader := newTestLoader(t, failing, &fakeFetcher{}, artwork.Metadata{})

	count, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, loader.Empty())
}

// sequencedSource yields a different descriptor batch on each load.
type sequencedSource struct {
	batches [][]artwork.RawDescriptor
	calls   atomic.Int64
}

func (s *sequencedSource) Name() string { return "sequenced" }

func (s *sequencedSource) Load(_ context.Context) ([]artwork.RawDescriptor, error) {
	i := int(s.calls.Add(1)) - 1
	if i >= len(s.batches) {
		i = len(s.batches) - 1
	}
	return s.batches[i], nil
}

// gatedFetcher blocks the first fetch of one filename until released.
type gatedFetcher struct {
	blockOn string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (f *gatedFetcher) Fetch(_ context.Context, filename string) (io.ReadCloser, error) {
	if filename == f.blockOn {
		f.once.Do(func() { close(f.started) })
		<-f.release
	}
	return io.NopCloser(bytes.NewReader([]byte("image-bytes"))), nil
}

func TestLoader_StaleRefreshDoesNotOverwriteNewer(t *testing.T) {
	src := &sequencedSource{batches: [][]artwork.RawDescriptor{
		{{Filename: "old.jpg"}},
		{{Filename: "new.jpg"}},
	}}
	fetcher := &gatedFetcher{
		blockOn: "old.jpg",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	log := observability.NewNop()
	loader := NewLoader(
		sources.NewChain(log, src),
		fetcher,
		&fakeExtractor{meta: map[string]artwork.Metadata{}},
		&fakeInspector{},
		log,
		WithWorkers(1),
	)

	ctx := context.Background()

	// First pass stalls mid-resolve; a second pass starts, finishes and
	// publishes while the first is still blocked.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = loader.Refresh(ctx)
	}()
	<-fetcher.started

	_, err := loader.Refresh(ctx)
	require.NoError(t, err)

	close(fetcher.release)
	<-done

	records := loader.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "new.jpg", records[0].Filename)
}

func TestParseDescriptorDate(t *testing.T) {
	fallback := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", "2022-09-15T14:30:00Z", time.Date(2022, 9, 15, 14, 30, 0, 0, time.UTC)},
		{"date only", "2022-09-15", time.Date(2022, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"exif style", "2022:09:15 14:30:00", time.Date(2022, 9, 15, 14, 30, 0, 0, time.UTC)},
		{"garbage", "not-a-date", fallback},
		{"empty", "", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDescriptorDate(tt.raw, fallback))
		})
	}
}
