package database

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/bilikmatch/seogen/internal/seo"
)

// FirestoreConfig names the project, database, and collections the
// provider reads from.
type FirestoreConfig struct {
	ProjectID          string
	Database           string
	ListingsCollection string
	TenantsCollection  string
}

// FirestoreProvider implements Provider against Cloud Firestore.
// Authentication uses Application Default Credentials, like the other
// GCP clients in this service.
type FirestoreProvider struct {
	Client *firestore.Client
	cfg    FirestoreConfig
	logger *zap.Logger
}

// NewFirestoreProvider connects to Firestore and returns a provider
// bound to the configured collections.
func NewFirestoreProvider(ctx context.Context, cfg FirestoreConfig, logger *zap.Logger) (*FirestoreProvider, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firestore project id is required")
	}
	if cfg.Database == "" {
		cfg.Database = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &FirestoreProvider{
		Client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Listings reads every document in the listings collection. Documents
// that fail to decode are logged and skipped rather than failing the
// whole read; the collection carries historical duck-typed payloads.
func (f *FirestoreProvider) Listings(ctx context.Context) ([]ListingDoc, error) {
	iter := f.Client.Collection(f.cfg.ListingsCollection).Documents(ctx)
	defer iter.Stop()

	var docs []ListingDoc
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", f.cfg.ListingsCollection, err)
		}
		var l seo.Listing
		if err := doc.DataTo(&l); err != nil {
			f.logger.Warn("Skipping undecodable listing document",
				zap.String("id", doc.Ref.ID), zap.Error(err))
			continue
		}
		docs = append(docs, ListingDoc{ID: doc.Ref.ID, Listing: l})
	}
	return docs, nil
}

// TenantProfiles reads every document in the tenants collection.
func (f *FirestoreProvider) TenantProfiles(ctx context.Context) ([]TenantDoc, error) {
	iter := f.Client.Collection(f.cfg.TenantsCollection).Documents(ctx)
	defer iter.Stop()

	var docs []TenantDoc
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", f.cfg.TenantsCollection, err)
		}
		var p seo.TenantProfile
		if err := doc.DataTo(&p); err != nil {
			f.logger.Warn("Skipping undecodable tenant document",
				zap.String("id", doc.Ref.ID), zap.Error(err))
			continue
		}
		docs = append(docs, TenantDoc{ID: doc.Ref.ID, Profile: p})
	}
	return docs, nil
}

// ListingIDs projects document ids only, using a field-less select so
// no payload bytes cross the wire.
func (f *FirestoreProvider) ListingIDs(ctx context.Context) ([]string, error) {
	iter := f.Client.Collection(f.cfg.ListingsCollection).Select().Documents(ctx)
	defer iter.Stop()

	var ids []string
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate %s ids: %w", f.cfg.ListingsCollection, err)
		}
		ids = append(ids, doc.Ref.ID)
	}
	return ids, nil
}

// Close shuts down the Firestore client.
func (f *FirestoreProvider) Close() error {
	if err := f.Client.Close(); err != nil {
		return fmt.Errorf("failed to close firestore client: %w", err)
	}
	return nil
}
