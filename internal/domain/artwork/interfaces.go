package artwork

import (
	"context"
	"io"
)

// Source produces raw descriptors from one acquisition strategy. A source
// that reaches its backend but finds nothing returns ErrNoDescriptors so the
// caller can fall through to the next strategy.
type Source interface {
	// Name identifies the strategy in logs and load-pass records.
	Name() string
	Load(ctx context.Context) ([]RawDescriptor, error)
}

// Fetcher retrieves the raw bytes for a single artwork file.
type Fetcher interface {
	Fetch(ctx context.Context, filename string) (io.ReadCloser, error)
}

// Extractor recovers embedded metadata from an image stream. It never fails
// the caller; on any internal error it degrades to an empty Metadata.
type Extractor interface {
	Extract(r io.Reader) Metadata
}

// Inspector resolves the pixel dimensions of an image stream.
type Inspector interface {
	Inspect(r io.Reader) (width, height int, err error)
}

// LoadRecorder persists a summary of a completed load pass. Implementations
// are optional infrastructure; the loader treats a nil recorder as a no-op.
type LoadRecorder interface {
	Record(ctx context.Context, pass *LoadPass) error
}
