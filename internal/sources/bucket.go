package sources

import (
	"context"
	"fmt"

	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/platform/storage"
)

// BucketSource lists an object-store folder as a metadata source. It sits
// between the listing API and filename probing in the fallback chain and is
// only wired when storage is configured.
type BucketSource struct {
	store *storage.ArtworkStore
}

func NewBucketSource(store *storage.ArtworkStore) *BucketSource {
	return &BucketSource{store: store}
}

func (s *BucketSource) Name() string { return "bucket" }

func (s *BucketSource) Load(ctx context.Context) ([]artwork.RawDescriptor, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", artwork.ErrSourceUnavailable, err)
	}

	var descriptors []artwork.RawDescriptor
	for _, name := range names {
		if !artwork.IsSupportedFile(name) {
			continue
		}
		descriptors = append(descriptors, artwork.RawDescriptor{Filename: name})
	}

	if len(descriptors) == 0 {
		return nil, artwork.ErrNoDescriptors
	}

	return descriptors, nil
}
