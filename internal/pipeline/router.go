package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bilikmatch/seogen/internal/metrics"
	"github.com/bilikmatch/seogen/internal/seo"
	"github.com/bilikmatch/seogen/internal/storage"
)

const (
	skipReasonUnchanged     = "unchanged"
	skipReasonRoleNotTenant = "role_not_tenant"
)

// Router handles one change notification at a time: it classifies the
// event, consults the change detector, and renders and writes (or
// deletes) the snapshot. Invocations are stateless and independent;
// idempotent overwrite and tolerant delete semantics make redelivery
// safe without deduplication.
type Router struct {
	store       storage.Provider
	renderer    *seo.Renderer
	cacheMaxAge time.Duration
	logger      *zap.Logger
}

// NewRouter constructs a Router.
func NewRouter(store storage.Provider, renderer *seo.Renderer, cacheMaxAge time.Duration, logger *zap.Logger) *Router {
	return &Router{
		store:       store,
		renderer:    renderer,
		cacheMaxAge: cacheMaxAge,
		logger:      logger,
	}
}

func (r *Router) htmlWriteOptions() storage.WriteOptions {
	return storage.WriteOptions{
		ContentType: "text/html",
		CacheMaxAge: r.cacheMaxAge,
		PublicRead:  true,
	}
}

// HandleListing processes one listing change event. Render and write
// failures propagate to the caller so the delivery mechanism can
// retry; re-running the same event produces the same stored bytes.
func (r *Router) HandleListing(ctx context.Context, ev ListingEvent) error {
	metrics.ObserveChangeEvent(string(seo.KindListing), string(ev.Op))

	switch ev.Op {
	case OpDeleted:
		return r.deleteSnapshot(ctx, seo.KindListing, ListingObject(ev.ID), ev.ID)
	case OpCreated, OpUpdated:
		if !seo.ShouldRegenerateListing(ev.Before, *ev.After) {
			metrics.ObserveSnapshotSkip(string(seo.KindListing), skipReasonUnchanged)
			r.logger.Debug("SEO content unchanged, skipping regeneration",
				zap.String("id", ev.ID))
			return nil
		}
		start := time.Now()
		html, err := r.renderer.RenderListing(*ev.After, ev.ID)
		if err != nil {
			return fmt.Errorf("render listing %s: %w", ev.ID, err)
		}
		if err := r.store.Save(ctx, ListingObject(ev.ID), html, r.htmlWriteOptions()); err != nil {
			return fmt.Errorf("save listing snapshot %s: %w", ev.ID, err)
		}
		metrics.ObserveSnapshotWritten(string(seo.KindListing))
		metrics.ObserveRenderDuration(string(seo.KindListing), time.Since(start))
		r.logger.Info("Listing snapshot written", zap.String("id", ev.ID))
		return nil
	default:
		return fmt.Errorf("unknown listing event op %q", ev.Op)
	}
}

// HandleTenant processes one tenant profile change event. Profiles
// whose role is not "tenant" never regenerate; a pre-existing snapshot
// from a previous tenant role is left in place (known staleness gap,
// kept deliberately).
func (r *Router) HandleTenant(ctx context.Context, ev TenantEvent) error {
	metrics.ObserveChangeEvent(string(seo.KindTenant), string(ev.Op))

	switch ev.Op {
	case OpDeleted:
		return r.deleteSnapshot(ctx, seo.KindTenant, TenantObject(ev.ID), ev.ID)
	case OpCreated, OpUpdated:
		if !ev.After.SEORelevant() {
			metrics.ObserveSnapshotSkip(string(seo.KindTenant), skipReasonRoleNotTenant)
			r.logger.Debug("Profile role is not tenant, skipping",
				zap.String("id", ev.ID), zap.String("role", ev.After.Role))
			return nil
		}
		if !seo.ShouldRegenerateTenant(ev.Before, *ev.After) {
			metrics.ObserveSnapshotSkip(string(seo.KindTenant), skipReasonUnchanged)
			r.logger.Debug("SEO content unchanged, skipping regeneration",
				zap.String("id", ev.ID))
			return nil
		}
		start := time.Now()
		html, err := r.renderer.RenderTenant(*ev.After, ev.ID)
		if err != nil {
			return fmt.Errorf("render tenant %s: %w", ev.ID, err)
		}
		if err := r.store.Save(ctx, TenantObject(ev.ID), html, r.htmlWriteOptions()); err != nil {
			return fmt.Errorf("save tenant snapshot %s: %w", ev.ID, err)
		}
		metrics.ObserveSnapshotWritten(string(seo.KindTenant))
		metrics.ObserveRenderDuration(string(seo.KindTenant), time.Since(start))
		r.logger.Info("Tenant snapshot written", zap.String("id", ev.ID))
		return nil
	default:
		return fmt.Errorf("unknown tenant event op %q", ev.Op)
	}
}

// deleteSnapshot removes the derived artifact. Deleting a snapshot
// that was never created is a defined no-op: the not-found error is
// logged and swallowed. Other delete failures propagate for retry.
func (r *Router) deleteSnapshot(ctx context.Context, kind seo.EntityKind, objectName, id string) error {
	err := r.store.Delete(ctx, objectName)
	if err == nil {
		metrics.ObserveSnapshotDeleted(string(kind))
		r.logger.Info("Snapshot deleted", zap.String("id", id), zap.String("object", objectName))
		return nil
	}
	if errors.Is(err, storage.ErrObjectNotFound) {
		r.logger.Info("Snapshot already absent on delete",
			zap.String("id", id), zap.String("object", objectName))
		return nil
	}
	return fmt.Errorf("delete snapshot %s: %w", objectName, err)
}
