package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bilikmatch/seogen/internal/database"
	"github.com/bilikmatch/seogen/internal/metrics"
	"github.com/bilikmatch/seogen/internal/seo"
	"github.com/bilikmatch/seogen/internal/storage"
)

// ItemFailure records one entity whose bulk write failed.
type ItemFailure struct {
	ID  string
	Err error
}

// BulkResult accounts for every entity seen during a bulk run. Written
// counts artifacts actually stored; entities missing required fields
// are counted as skipped, never folded into the written count.
type BulkResult struct {
	Scanned  int
	Written  int
	Skipped  int
	Failures []ItemFailure
}

// Bulk regenerates every snapshot of an entity kind from the source
// collection, independent of the event path. Writes run on a bounded
// worker pool and failures are collected per item, so one rejected
// write does not abort the remaining entities.
type Bulk struct {
	db          database.Provider
	store       storage.Provider
	renderer    *seo.Renderer
	concurrency int
	cacheMaxAge time.Duration
	logger      *zap.Logger
}

// NewBulk constructs a Bulk regenerator.
func NewBulk(
	db database.Provider,
	store storage.Provider,
	renderer *seo.Renderer,
	concurrency int,
	cacheMaxAge time.Duration,
	logger *zap.Logger,
) *Bulk {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Bulk{
		db:          db,
		store:       store,
		renderer:    renderer,
		concurrency: concurrency,
		cacheMaxAge: cacheMaxAge,
		logger:      logger,
	}
}

// RegenerateAll renders and writes the full collection of the given
// kind. The returned result is complete even when err is non-nil: err
// only signals that at least one item failed.
func (b *Bulk) RegenerateAll(ctx context.Context, kind seo.EntityKind) (BulkResult, error) {
	switch kind {
	case seo.KindListing:
		return b.regenerateListings(ctx)
	case seo.KindTenant:
		return b.regenerateTenants(ctx)
	default:
		return BulkResult{}, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func (b *Bulk) regenerateListings(ctx context.Context) (BulkResult, error) {
	docs, err := b.db.Listings(ctx)
	if err != nil {
		return BulkResult{}, fmt.Errorf("read listings: %w", err)
	}

	items := make([]bulkItem, 0, len(docs))
	for _, doc := range docs {
		doc := doc
		if !doc.Listing.Renderable() {
			items = append(items, bulkItem{id: doc.ID, skip: true})
			continue
		}
		items = append(items, bulkItem{
			id: doc.ID,
			render: func() ([]byte, error) {
				return b.renderer.RenderListing(doc.Listing, doc.ID)
			},
			objectName: ListingObject(doc.ID),
		})
	}
	return b.run(ctx, seo.KindListing, items)
}

func (b *Bulk) regenerateTenants(ctx context.Context) (BulkResult, error) {
	docs, err := b.db.TenantProfiles(ctx)
	if err != nil {
		return BulkResult{}, fmt.Errorf("read tenant profiles: %w", err)
	}

	items := make([]bulkItem, 0, len(docs))
	for _, doc := range docs {
		doc := doc
		if !doc.Profile.SEORelevant() || doc.Profile.DisplayName == "" {
			items = append(items, bulkItem{id: doc.ID, skip: true})
			continue
		}
		items = append(items, bulkItem{
			id: doc.ID,
			render: func() ([]byte, error) {
				return b.renderer.RenderTenant(doc.Profile, doc.ID)
			},
			objectName: TenantObject(doc.ID),
		})
	}
	return b.run(ctx, seo.KindTenant, items)
}

type bulkItem struct {
	id         string
	skip       bool
	render     func() ([]byte, error)
	objectName string
}

func (b *Bulk) run(ctx context.Context, kind seo.EntityKind, items []bulkItem) (BulkResult, error) {
	result := BulkResult{Scanned: len(items)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, item := range items {
		item := item
		if item.skip {
			result.Skipped++
			metrics.ObserveSnapshotSkip(string(kind), "not_renderable")
			continue
		}
		g.Go(func() error {
			metrics.IncBulkInflight()
			defer metrics.DecBulkInflight()

			err := b.writeOne(gctx, kind, item)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, ItemFailure{ID: item.id, Err: err})
				b.logger.Error("Bulk write failed",
					zap.String("kind", string(kind)), zap.String("id", item.id), zap.Error(err))
				// Per-item isolation: record and keep going.
				return nil
			}
			result.Written++
			return nil
		})
	}

	// Goroutines only return nil; Wait surfaces ctx cancellation.
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("bulk regeneration aborted: %w", err)
	}

	b.logger.Info("Bulk regeneration finished",
		zap.String("kind", string(kind)),
		zap.Int("scanned", result.Scanned),
		zap.Int("written", result.Written),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Failures)))

	if len(result.Failures) > 0 {
		return result, fmt.Errorf("%d of %d writes failed (first: %v)",
			len(result.Failures), result.Scanned, result.Failures[0].Err)
	}
	return result, nil
}

func (b *Bulk) writeOne(ctx context.Context, kind seo.EntityKind, item bulkItem) error {
	start := time.Now()
	html, err := item.render()
	if err != nil {
		return fmt.Errorf("render %s: %w", item.id, err)
	}
	opts := storage.WriteOptions{
		ContentType: "text/html",
		CacheMaxAge: b.cacheMaxAge,
		PublicRead:  true,
	}
	if err := b.store.Save(ctx, item.objectName, html, opts); err != nil {
		return fmt.Errorf("save %s: %w", item.objectName, err)
	}
	metrics.ObserveSnapshotWritten(string(kind))
	metrics.ObserveRenderDuration(string(kind), time.Since(start))
	return nil
}
