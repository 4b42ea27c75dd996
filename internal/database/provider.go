// Package database defines the interface for reading source entities
// from the document database. The document database is the sole
// source of truth; every generated artifact is a pure derivation of
// it and can be recomputed at any time.
package database

import (
	"context"

	"github.com/bilikmatch/seogen/internal/seo"
)

// ListingDoc pairs a listing payload with its document id.
type ListingDoc struct {
	ID      string
	Listing seo.Listing
}

// TenantDoc pairs a tenant profile payload with its document id.
type TenantDoc struct {
	ID      string
	Profile seo.TenantProfile
}

// Provider is the common interface for the entity source.
type Provider interface {
	// Listings reads the full listing collection.
	Listings(ctx context.Context) ([]ListingDoc, error)

	// TenantProfiles reads the full tenant profile collection.
	TenantProfiles(ctx context.Context) ([]TenantDoc, error)

	// ListingIDs projects only document ids from the listing
	// collection, avoiding full payload reads for sitemap rebuilds.
	ListingIDs(ctx context.Context) ([]string, error)

	// Close terminates the connection and releases resources.
	Close() error
}

// NoOpProvider is an empty entity source for tests and dry runs.
type NoOpProvider struct{}

// Listings for NoOpProvider returns no documents.
func (n *NoOpProvider) Listings(_ context.Context) ([]ListingDoc, error) { return nil, nil }

// TenantProfiles for NoOpProvider returns no documents.
func (n *NoOpProvider) TenantProfiles(_ context.Context) ([]TenantDoc, error) { return nil, nil }

// ListingIDs for NoOpProvider returns no ids.
func (n *NoOpProvider) ListingIDs(_ context.Context) ([]string, error) { return nil, nil }

// Close for NoOpProvider does nothing.
func (n *NoOpProvider) Close() error { return nil }
