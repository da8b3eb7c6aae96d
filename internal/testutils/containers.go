package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	redisModule "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"art-gallery/internal/config"
	"art-gallery/internal/platform/cache"
	"art-gallery/internal/platform/database"
	"art-gallery/internal/platform/storage"
)

// TestContainers manages test containers for integration testing
type TestContainers struct {
	PostgresContainer testcontainers.Container
	MinioContainer    testcontainers.Container
	RedisContainer    testcontainers.Container
	DB                *sql.DB
	Store             *storage.ArtworkStore
	RedisClient       *cache.RedisClient
	DatabaseURL       string
	MinioEndpoint     string
	MinioUsername     string
	MinioPassword     string
	RedisEndpoint     string
	BucketName        string
}

// SetupTestContainers initializes and starts test containers
func SetupTestContainers(ctx context.Context) (*TestContainers, error) {
	containers := &TestContainers{
		MinioUsername: "testuser",
		MinioPassword: "testpass123",
		BucketName:    "test-artworks",
	}

	if err := containers.setupPostgres(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	if err := containers.setupMinio(ctx); err != nil {
		_ = containers.Cleanup(ctx) //nolint:errcheck // Cleanup in error path
		return nil, fmt.Errorf("failed to setup minio container: %w", err)
	}

	if err := containers.setupRedis(ctx); err != nil {
		_ = containers.Cleanup(ctx) //nolint:errcheck // Cleanup in error path
		return nil, fmt.Errorf("failed to setup redis container: %w", err)
	}

	if err := database.RunMigrations(containers.DB); err != nil {
		_ = containers.Cleanup(ctx) //nolint:errcheck // Cleanup in error path
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return containers, nil
}

// setupPostgres creates and starts a PostgreSQL test container
func (tc *TestContainers) setupPostgres(ctx context.Context) error {
	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithSQLDriver("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to start postgres container: %w", err)
	}

	tc.PostgresContainer = postgresContainer

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	tc.DatabaseURL = connStr

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Test connection with retry
	for i := 0; i < 10; i++ {
		if err := db.Ping(); err != nil {
			if i == 9 {
				return fmt.Errorf("failed to ping postgres after retries: %w", err)
			}
			time.Sleep(time.Second)
			continue
		}
		break
	}

	tc.DB = db
	return nil
}

// setupMinio creates and starts a MinIO test container
func (tc *TestContainers) setupMinio(ctx context.Context) error {
	minioContainer, err := minio.Run(ctx,
		"minio/minio:latest",
		minio.WithUsername(tc.MinioUsername),
		minio.WithPassword(tc.MinioPassword),
	)
	if err != nil {
		return fmt.Errorf("failed to start minio container: %w", err)
	}

	tc.MinioContainer = minioContainer

	endpoint, err := minioContainer.ConnectionString(ctx)
	if err != nil {
		return fmt.Errorf("failed to get minio endpoint: %w", err)
	}

	tc.MinioEndpoint = endpoint

	storageConfig := config.StorageConfig{
		Enabled:         true,
		Endpoint:        endpoint,
		AccessKeyID:     tc.MinioUsername,
		SecretAccessKey: tc.MinioPassword,
		UseSSL:          false,
		BucketName:      tc.BucketName,
		Region:          "us-east-1",
	}

	// NewArtworkStore creates the bucket when it does not exist yet
	store, err := storage.NewArtworkStore(storageConfig)
	if err != nil {
		return fmt.Errorf("failed to create artwork store: %w", err)
	}

	tc.Store = store
	return nil
}

// setupRedis creates and starts a Valkey test container (Redis-compatible)
func (tc *TestContainers) setupRedis(ctx context.Context) error {
	redisContainer, err := redisModule.Run(ctx,
		"valkey/valkey:7-alpine",
		redisModule.WithSnapshotting(10, 1),
		redisModule.WithLogLevel(redisModule.LogLevelVerbose),
	)
	if err != nil {
		return fmt.Errorf("failed to start valkey container: %w", err)
	}

	tc.RedisContainer = redisContainer

	endpoint, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		return fmt.Errorf("failed to get valkey endpoint: %w", err)
	}

	tc.RedisEndpoint = endpoint

	cacheConfig := config.CacheConfig{
		Enabled:     true,
		Address:     endpoint,
		Password:    "",
		Database:    0,
		DefaultTTL:  1 * time.Hour,
		DialTimeout: 5 * time.Second,
	}

	redisClient, err := cache.NewRedisClient(cacheConfig)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}

	tc.RedisClient = redisClient

	if err := tc.RedisClient.Health(ctx); err != nil {
		return fmt.Errorf("failed to connect to valkey: %w", err)
	}

	return nil
}

// Cleanup terminates all test containers and closes connections
func (tc *TestContainers) Cleanup(ctx context.Context) error {
	var errs []error

	if tc.DB != nil {
		if err := tc.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if tc.PostgresContainer != nil {
		if err := tc.PostgresContainer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate postgres container: %w", err))
		}
	}

	if tc.MinioContainer != nil {
		if err := tc.MinioContainer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate minio container: %w", err))
		}
	}

	if tc.RedisClient != nil {
		if err := tc.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close valkey client: %w", err))
		}
	}

	if tc.RedisContainer != nil {
		if err := tc.RedisContainer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate valkey container: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}

	return nil
}

// ResetDatabase clears recorded load passes and re-runs migrations
func (tc *TestContainers) ResetDatabase(ctx context.Context) error {
	tables := []string{
		"load_passes",
		"schema_migrations",
	}

	tx, err := tc.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			// Ignore errors for tables that might not exist
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset transaction: %w", err)
	}

	return database.RunMigrations(tc.DB)
}

// FlushCache drops the cached gallery snapshot
func (tc *TestContainers) FlushCache(ctx context.Context) error {
	if tc.RedisClient == nil {
		return fmt.Errorf("valkey client not available")
	}

	return tc.RedisClient.InvalidateSnapshot(ctx)
}
