package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bilikmatch/seogen/internal/database"
	"github.com/bilikmatch/seogen/internal/seo"
	"github.com/bilikmatch/seogen/internal/storage"
)

// Refresher rebuilds the aggregate sitemap wholesale. The sitemap is
// only consistent immediately after a rebuild; the event-driven path
// does not touch it.
type Refresher struct {
	db            database.Provider
	store         storage.Provider
	publicBaseURL string
	cacheMaxAge   time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewRefresher constructs a Refresher. now may be nil, in which case
// time.Now is used; tests inject a fixed clock.
func NewRefresher(
	db database.Provider,
	store storage.Provider,
	publicBaseURL string,
	cacheMaxAge time.Duration,
	logger *zap.Logger,
	now func() time.Time,
) *Refresher {
	if now == nil {
		now = time.Now
	}
	return &Refresher{
		db:            db,
		store:         store,
		publicBaseURL: publicBaseURL,
		cacheMaxAge:   cacheMaxAge,
		logger:        logger,
		now:           now,
	}
}

// RebuildSitemap projects listing ids from the source collection,
// builds the XML document, and writes it in one shot. All-or-nothing:
// a failed write leaves the previous sitemap in place. Returns the
// number of listing entries written.
func (r *Refresher) RebuildSitemap(ctx context.Context) (int, error) {
	ids, err := r.db.ListingIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("project listing ids: %w", err)
	}

	xmlDoc, err := seo.BuildSitemap(r.publicBaseURL, ids, r.now())
	if err != nil {
		return 0, fmt.Errorf("build sitemap: %w", err)
	}

	opts := storage.WriteOptions{
		ContentType: "application/xml",
		CacheMaxAge: r.cacheMaxAge,
		PublicRead:  true,
	}
	if err := r.store.Save(ctx, SitemapObject, xmlDoc, opts); err != nil {
		return 0, fmt.Errorf("save sitemap: %w", err)
	}

	r.logger.Info("Sitemap rebuilt", zap.Int("listings", len(ids)))
	return len(ids), nil
}
