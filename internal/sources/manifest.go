// Package sources implements the metadata-acquisition strategies. Each
// strategy satisfies artwork.Source; Chain tries them in order until one
// yields descriptors.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"art-gallery/internal/domain/artwork"
)

// manifestDocument is the shape of the static descriptor file: a top-level
// list of image entries with at least a filename.
type manifestDocument struct {
	Images []artwork.RawDescriptor `json:"images"`
}

// ManifestSource loads descriptors from a static JSON manifest. When the
// manifest is present and well formed its metadata is used as-is.
type ManifestSource struct {
	url    string
	client *http.Client
}

func NewManifestSource(url string, client *http.Client) *ManifestSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &ManifestSource{url: url, client: client}
}

func (s *ManifestSource) Name() string { return "manifest" }

func (s *ManifestSource) Load(ctx context.Context) ([]artwork.RawDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", artwork.ErrSourceUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", artwork.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: manifest returned %s", artwork.ErrSourceUnavailable, resp.Status)
	}

	var doc manifestDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parsing manifest: %v", artwork.ErrSourceUnavailable, err)
	}

	descriptors := make([]artwork.RawDescriptor, 0, len(doc.Images))
	for _, d := range doc.Images {
		if err := d.Validate(); err != nil {
			continue
		}
		descriptors = append(descriptors, d)
	}

	if len(descriptors) == 0 {
		return nil, artwork.ErrNoDescriptors
	}

	return descriptors, nil
}
