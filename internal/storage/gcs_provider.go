package storage

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSProvider implements Provider on top of Google Cloud Storage.
type GCSProvider struct {
	Client     *storage.Client
	BucketName string
	logger     *zap.Logger
}

// NewGCSProvider initializes a GCS client and verifies the bucket is
// reachable. Authentication is handled via Application Default
// Credentials.
func NewGCSProvider(ctx context.Context, bucketName string, logger *zap.Logger) (*GCSProvider, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	// Fail fast on startup if the bucket is misconfigured.
	if _, err := client.Bucket(bucketName).Attrs(ctx); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("Failed to close GCS client after bucket check failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to get GCS bucket '%s' attributes: %w", bucketName, err)
	}

	return &GCSProvider{
		Client:     client,
		BucketName: bucketName,
		logger:     logger,
	}, nil
}

// Save uploads the data as a whole-object overwrite, applying the
// content type, cache policy, and public-read ACL from opts.
func (g *GCSProvider) Save(ctx context.Context, objectName string, data []byte, opts WriteOptions) error {
	wc := g.Client.Bucket(g.BucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = opts.ContentType
	if opts.CacheMaxAge > 0 {
		wc.CacheControl = fmt.Sprintf("public, max-age=%d", int(opts.CacheMaxAge.Seconds()))
	}
	if opts.PublicRead {
		wc.PredefinedACL = "publicRead"
	}

	if _, err := wc.Write(data); err != nil {
		// Close anyway to release resources; the write failure is the
		// error that matters.
		if closeErr := wc.Close(); closeErr != nil {
			g.logger.Warn("Failed to close GCS writer after write failure", zap.Error(closeErr))
		}
		return fmt.Errorf("failed to write data to GCS object %s: %w", objectName, err)
	}

	// Close finalizes the upload and flushes buffered data.
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for object %s: %w", objectName, err)
	}
	return nil
}

// Delete removes the object, translating the backend's not-exist error
// into ErrObjectNotFound.
func (g *GCSProvider) Delete(ctx context.Context, objectName string) error {
	err := g.Client.Bucket(g.BucketName).Object(objectName).Delete(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", objectName, ErrObjectNotFound)
	}
	return fmt.Errorf("failed to delete GCS object %s: %w", objectName, err)
}

// Close shuts down the underlying client.
func (g *GCSProvider) Close() error {
	if err := g.Client.Close(); err != nil {
		return fmt.Errorf("failed to close GCS client: %w", err)
	}
	return nil
}
