// Package pipeline contains the three orchestration paths over the
// domain core: the per-event change router, the bulk regenerator, and
// the sitemap refresher. All three funnel through the same renderer
// and blob store, so rendering logic has exactly one implementation.
package pipeline

import (
	"errors"

	"github.com/bilikmatch/seogen/internal/seo"
)

// Op tags a change event as a creation, update, or deletion.
type Op string

const (
	// OpCreated means the entity did not exist before this write.
	OpCreated Op = "created"
	// OpUpdated means both the pre- and post-write snapshots exist.
	OpUpdated Op = "updated"
	// OpDeleted means the entity no longer exists after this write.
	OpDeleted Op = "deleted"
)

// ErrEmptyEvent is returned when a change notification carries neither
// a pre-write nor a post-write snapshot.
var ErrEmptyEvent = errors.New("pipeline: change event has neither before nor after")

// ListingEvent is one listing change notification, classified into a
// tagged variant at construction so handlers dispatch on Op instead of
// re-inferring the case from presence checks.
type ListingEvent struct {
	ID     string
	Op     Op
	Before *seo.Listing
	After  *seo.Listing
}

// NewListingEvent classifies the (before, after) pair. Delivery is at
// least once, so the same pair may be seen repeatedly; the resulting
// event is safe to handle any number of times.
func NewListingEvent(id string, before, after *seo.Listing) (ListingEvent, error) {
	op, err := classify(before != nil, after != nil)
	if err != nil {
		return ListingEvent{}, err
	}
	return ListingEvent{ID: id, Op: op, Before: before, After: after}, nil
}

// TenantEvent is one tenant profile change notification.
type TenantEvent struct {
	ID     string
	Op     Op
	Before *seo.TenantProfile
	After  *seo.TenantProfile
}

// NewTenantEvent classifies the (before, after) pair.
func NewTenantEvent(id string, before, after *seo.TenantProfile) (TenantEvent, error) {
	op, err := classify(before != nil, after != nil)
	if err != nil {
		return TenantEvent{}, err
	}
	return TenantEvent{ID: id, Op: op, Before: before, After: after}, nil
}

func classify(hasBefore, hasAfter bool) (Op, error) {
	switch {
	case hasAfter && hasBefore:
		return OpUpdated, nil
	case hasAfter:
		return OpCreated, nil
	case hasBefore:
		return OpDeleted, nil
	default:
		return "", ErrEmptyEvent
	}
}
