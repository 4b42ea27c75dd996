// Package queue delivers entity-change notifications to the snapshot
// router. The production consumer is a Pub/Sub subscription; an
// in-memory consumer backs tests and local development. Delivery is
// at least once and unordered across retries; the router compensates
// with idempotent handlers rather than deduplication.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bilikmatch/seogen/internal/pipeline"
	"github.com/bilikmatch/seogen/internal/seo"
)

// Router is the downstream handler for decoded change events.
type Router interface {
	HandleListing(ctx context.Context, ev pipeline.ListingEvent) error
	HandleTenant(ctx context.Context, ev pipeline.TenantEvent) error
}

// Consumer runs a change-notification receive loop until the context
// finishes.
type Consumer interface {
	Run(ctx context.Context) error
	Close() error
}

// changeMessage is the wire payload of one change notification: an
// optional pre-write snapshot and an optional post-write snapshot.
// Absence of after signals deletion.
type changeMessage struct {
	Kind   string          `json:"kind"`
	ID     string          `json:"id"`
	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`
}

// dispatch decodes one raw notification and hands it to the router.
// A decode failure is the caller's signal to drop the message (it will
// never become valid); a handler failure is the signal to redeliver.
func dispatch(ctx context.Context, router Router, data []byte) error {
	var msg changeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return &MalformedError{Err: fmt.Errorf("decode change message: %w", err)}
	}
	if msg.ID == "" {
		return &MalformedError{Err: fmt.Errorf("change message missing id")}
	}

	switch seo.EntityKind(msg.Kind) {
	case seo.KindListing:
		before, err := decodeListing(msg.Before)
		if err != nil {
			return &MalformedError{Err: fmt.Errorf("decode listing before: %w", err)}
		}
		after, err := decodeListing(msg.After)
		if err != nil {
			return &MalformedError{Err: fmt.Errorf("decode listing after: %w", err)}
		}
		ev, err := pipeline.NewListingEvent(msg.ID, before, after)
		if err != nil {
			return &MalformedError{Err: err}
		}
		if err := router.HandleListing(ctx, ev); err != nil {
			return fmt.Errorf("handle listing event %s: %w", msg.ID, err)
		}
		return nil
	case seo.KindTenant:
		before, err := decodeTenant(msg.Before)
		if err != nil {
			return &MalformedError{Err: fmt.Errorf("decode tenant before: %w", err)}
		}
		after, err := decodeTenant(msg.After)
		if err != nil {
			return &MalformedError{Err: fmt.Errorf("decode tenant after: %w", err)}
		}
		ev, err := pipeline.NewTenantEvent(msg.ID, before, after)
		if err != nil {
			return &MalformedError{Err: err}
		}
		if err := router.HandleTenant(ctx, ev); err != nil {
			return fmt.Errorf("handle tenant event %s: %w", msg.ID, err)
		}
		return nil
	default:
		return &MalformedError{Err: fmt.Errorf("unknown entity kind %q", msg.Kind)}
	}
}

func decodeListing(raw json.RawMessage) (*seo.Listing, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var l seo.Listing
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &l, nil
}

func decodeTenant(raw json.RawMessage) (*seo.TenantProfile, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var p seo.TenantProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &p, nil
}

// MalformedError marks a message that can never be processed; the
// consumer acknowledges it instead of redelivering forever.
type MalformedError struct {
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed change message: %v", e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
