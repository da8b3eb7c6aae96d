package services

import (
	"context"
	"database/sql"
	"net/http"

	"art-gallery/internal/config"
	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/extract"
	"art-gallery/internal/observability"
	"art-gallery/internal/platform/cache"
	"art-gallery/internal/platform/database"
	"art-gallery/internal/platform/storage"
	"art-gallery/internal/sources"
)

// Container holds all the application dependencies
type Container struct {
	config *config.Config
	log    *observability.Logger

	db         *sql.DB
	store      *storage.ArtworkStore
	cache      *cache.RedisClient
	loadPasses *database.LoadPassRepository

	loader *Loader
}

// NewContainer creates a new dependency injection container. The optional
// backends (storage, cache, database) are only wired when configured; the
// loader degrades gracefully without them.
func NewContainer(cfg *config.Config, log *observability.Logger) (*Container, error) {
	c := &Container{
		config: cfg,
		log:    log,
	}

	ctx := context.Background()

	if cfg.Storage.Enabled {
		store, err := storage.NewArtworkStore(cfg.Storage)
		if err != nil {
			return nil, err
		}
		c.store = store
	}

	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Cache)
		if err != nil {
			// A dead cache is an inconvenience, not a startup failure.
			log.Warn(ctx).Err(err).Msg("cache unavailable, continuing without it")
		} else {
			c.cache = redisClient
		}
	}

	if cfg.DatabaseURL != "" {
		db, err := database.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			_ = db.Close() //nolint:errcheck // Cleanup in error path
			return nil, err
		}
		c.db = db
		c.loadPasses = database.NewLoadPassRepository(db)
	}

	c.loader = c.buildLoader()

	log.Info(ctx).
		Bool("storage", c.store != nil).
		Bool("cache", c.cache != nil).
		Bool("database", c.db != nil).
		Msg("dependency container initialized")

	return c, nil
}

// buildLoader assembles the source chain in its fixed fallback order and
// wires it to the fetcher, extractor and inspector.
func (c *Container) buildLoader() *Loader {
	httpClient := &http.Client{Timeout: c.config.Gallery.HTTPTimeout}

	var srcs []artwork.Source
	if c.config.Gallery.ManifestURL != "" {
		srcs = append(srcs, sources.NewManifestSource(c.config.Gallery.ManifestURL, httpClient))
	}
	if c.config.Gallery.ListingURL != "" {
		srcs = append(srcs, sources.NewListingSource(c.config.Gallery.ListingURL, httpClient))
	}
	if c.store != nil {
		srcs = append(srcs, sources.NewBucketSource(c.store))
	}
	if c.config.Gallery.BaseURL != "" {
		srcs = append(srcs, sources.NewProbeSource(c.config.Gallery.BaseURL, c.config.Gallery.ProbeNames, httpClient))
	}

	chain := sources.NewChain(c.log, srcs...)

	// Image bytes come from the bucket when storage is configured,
	// otherwise from the public base URL.
	var fetcher artwork.Fetcher
	if c.store != nil {
		fetcher = c.store
	} else {
		fetcher = NewHTTPFetcher(c.config.Gallery.BaseURL, httpClient)
	}

	opts := []LoaderOption{
		WithWorkers(c.config.Gallery.Workers),
		WithMaxImageSize(c.config.Gallery.MaxImageSize),
	}
	if c.cache != nil {
		opts = append(opts, WithCache(c.cache))
	}
	if c.loadPasses != nil {
		opts = append(opts, WithRecorder(c.loadPasses))
	}

	return NewLoader(
		chain,
		fetcher,
		extract.New(c.log),
		storage.NewImageInspector(),
		c.log,
		opts...,
	)
}

// Loader returns the gallery loader.
func (c *Container) Loader() *Loader {
	return c.loader
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger.
func (c *Container) Logger() *observability.Logger {
	return c.log
}

// DB returns the database handle, or nil when auditing is disabled.
func (c *Container) DB() *sql.DB {
	return c.db
}

// LoadPasses returns the load-pass repository, or nil when auditing is
// disabled.
func (c *Container) LoadPasses() *database.LoadPassRepository {
	return c.loadPasses
}

// Cache returns the cache client, or nil when caching is disabled.
func (c *Container) Cache() *cache.RedisClient {
	return c.cache
}

// Store returns the artwork store, or nil when storage is disabled.
func (c *Container) Store() *storage.ArtworkStore {
	return c.store
}

// Close releases all held resources.
func (c *Container) Close() {
	if c.cache != nil {
		_ = c.cache.Close() //nolint:errcheck // Best effort shutdown
	}
	if c.db != nil {
		_ = c.db.Close() //nolint:errcheck // Best effort shutdown
	}
}
