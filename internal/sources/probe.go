package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"art-gallery/internal/domain/artwork"
)

// ProbeSource is the last-resort strategy: it tries a fixed candidate-name
// list against the image base URL and keeps only the names that respond.
type ProbeSource struct {
	baseURL string
	names   []string
	client  *http.Client
}

func NewProbeSource(baseURL string, names []string, client *http.Client) *ProbeSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProbeSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		names:   names,
		client:  client,
	}
}

func (s *ProbeSource) Name() string { return "probe" }

func (s *ProbeSource) Load(ctx context.Context) ([]artwork.RawDescriptor, error) {
	var descriptors []artwork.RawDescriptor
	for _, name := range s.names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", artwork.ErrSourceUnavailable, err)
		}
		if s.exists(ctx, name) {
			descriptors = append(descriptors, artwork.RawDescriptor{Filename: name})
		}
	}

	if len(descriptors) == 0 {
		return nil, artwork.ErrNoDescriptors
	}

	return descriptors, nil
}

// exists issues a HEAD request for one candidate. Any transport or HTTP
// failure just means the candidate is skipped.
func (s *ProbeSource) exists(ctx context.Context, name string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.baseURL+"/"+name, nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
