package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"art-gallery/internal/domain/artwork"
)

// listingEntry is one file entry from a repository-contents endpoint. Only
// the name field matters; everything else the provider returns is ignored.
type listingEntry struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// ListingSource queries a hosting provider's directory-listing API for a
// fixed folder and keeps the entries with a known image extension.
type ListingSource struct {
	url    string
	client *http.Client
}

func NewListingSource(url string, client *http.Client) *ListingSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &ListingSource{url: url, client: client}
}

func (s *ListingSource) Name() string { return "listing" }

func (s *ListingSource) Load(ctx context.Context) ([]artwork.RawDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", artwork.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", artwork.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: listing returned %s", artwork.ErrSourceUnavailable, resp.Status)
	}

	var entries []listingEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: parsing listing: %v", artwork.ErrSourceUnavailable, err)
	}

	var descriptors []artwork.RawDescriptor
	for _, e := range entries {
		if e.Type != "" && e.Type != "file" {
			continue
		}
		if !artwork.IsSupportedFile(e.Name) {
			continue
		}
		descriptors = append(descriptors, artwork.RawDescriptor{Filename: e.Name})
	}

	if len(descriptors) == 0 {
		return nil, artwork.ErrNoDescriptors
	}

	return descriptors, nil
}
