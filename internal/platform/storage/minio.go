package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"art-gallery/internal/config"
	"art-gallery/internal/domain/artwork"
)

// ArtworkStore is an object-store backed artwork folder. It serves two
// purposes: listing the bucket as one of the metadata-source strategies and
// fetching image bytes for extraction and display.
type ArtworkStore struct {
	client     *minio.Client
	bucketName string
	prefix     string
}

func NewArtworkStore(cfg config.StorageConfig) (*ArtworkStore, error) {
	var creds *credentials.Credentials

	// Use the AWS credentials chain if no static credentials are provided.
	// This supports IAM roles and the AWS credentials file.
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.FileAWSCredentials{},
			&credentials.IAM{},
		})
	} else {
		// Fall back to static credentials for local development
		creds = credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	store := &ArtworkStore{
		client:     client,
		bucketName: cfg.BucketName,
		prefix:     cfg.Prefix,
	}

	if err := store.ensureBucket(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *ArtworkStore) ensureBucket() error {
	ctx := context.Background()
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}

	if !exists {
		return s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
	}

	return nil
}

// List returns the object names under the configured prefix, with the prefix
// stripped so callers see plain filenames.
func (s *ArtworkStore) List(ctx context.Context) ([]string, error) {
	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	})

	var names []string
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("listing bucket %s: %w", s.bucketName, object.Err)
		}
		names = append(names, path.Base(object.Key))
	}

	return names, nil
}

// Fetch streams the bytes of one artwork file. The Stat call forces the
// lazy GetObject to surface missing-object errors here instead of on first
// read.
func (s *ArtworkStore) Fetch(ctx context.Context, filename string) (io.ReadCloser, error) {
	key := filename
	if s.prefix != "" {
		key = path.Join(s.prefix, filename)
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}

	if _, err := obj.Stat(); err != nil {
		_ = obj.Close() //nolint:errcheck // Cleanup in error path
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", artwork.ErrArtworkNotFound, key)
		}
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}

	return obj, nil
}

// Put uploads one artwork file under the configured prefix.
func (s *ArtworkStore) Put(ctx context.Context, filename, contentType string, r io.Reader, size int64) error {
	key := filename
	if s.prefix != "" {
		key = path.Join(s.prefix, filename)
	}

	_, err := s.client.PutObject(ctx, s.bucketName, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}

	return nil
}

// Health checks bucket reachability.
func (s *ArtworkStore) Health(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucketName); err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}
