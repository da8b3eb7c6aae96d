package sources

import (
	"context"

	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/observability"
)

// Chain tries each source in order until one succeeds with at least one
// descriptor. An exhausted chain is not an error: the caller gets an empty
// result and the view renders its instructional empty state.
type Chain struct {
	sources []artwork.Source
	log     *observability.Logger
}

func NewChain(log *observability.Logger, srcs ...artwork.Source) *Chain {
	return &Chain{sources: srcs, log: log}
}

// Load returns the descriptors from the first non-empty source and the name
// of the strategy that produced them.
func (c *Chain) Load(ctx context.Context) ([]artwork.RawDescriptor, string) {
	for _, src := range c.sources {
		descriptors, err := src.Load(ctx)
		if err != nil {
			c.log.Warn(ctx).
				Err(err).
				Str("source", src.Name()).
				Msg("metadata source failed, falling through")
			continue
		}
		if len(descriptors) == 0 {
			continue
		}

		c.log.Info(ctx).
			Str("source", src.Name()).
			Int("descriptors", len(descriptors)).
			Msg("metadata source succeeded")
		return descriptors, src.Name()
	}

	c.log.Warn(ctx).Msg("all metadata sources exhausted")
	return nil, ""
}

// Sources exposes the configured strategy order.
func (c *Chain) Sources() []artwork.Source {
	return c.sources
}
