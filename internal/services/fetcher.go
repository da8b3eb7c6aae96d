package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"art-gallery/internal/domain/artwork"
)

// HTTPFetcher retrieves artwork bytes by resolving filenames against a base
// URL. It implements artwork.Fetcher.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, filename string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/"+filename, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", filename, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", filename, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close() //nolint:errcheck // Cleanup in error path
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", artwork.ErrArtworkNotFound, filename)
		}
		return nil, fmt.Errorf("fetching %s: unexpected status %s", filename, resp.Status)
	}

	return resp.Body, nil
}
