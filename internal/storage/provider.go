// Package storage defines the blob storage provider used to publish
// generated artifacts. The abstraction keeps the application
// independent of a specific backend (Google Cloud Storage in
// production, an in-memory store in tests and dry runs).
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by Delete when the named object does
// not exist. Callers that treat delete-on-missing as a no-op match on
// this sentinel.
var ErrObjectNotFound = errors.New("storage: object not found")

// WriteOptions carries per-object metadata applied on Save.
type WriteOptions struct {
	ContentType string
	CacheMaxAge time.Duration
	PublicRead  bool
}

// Provider is the common interface for a blob storage backend.
// Writes are whole-object overwrites; there is no conditional write,
// so two concurrent writers on the same path race and the last write
// wins.
type Provider interface {
	// Save uploads data to the named object, replacing any previous
	// content.
	Save(ctx context.Context, objectName string, data []byte, opts WriteOptions) error

	// Delete removes the named object, returning ErrObjectNotFound
	// when it does not exist.
	Delete(ctx context.Context, objectName string) error
}

// NoOpProvider discards writes and deletes. Useful for dry runs where
// snapshots are rendered but not published.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte, _ WriteOptions) error {
	return nil
}

// Delete for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Delete(_ context.Context, _ string) error {
	return nil
}
