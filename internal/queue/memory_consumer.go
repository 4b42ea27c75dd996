package queue

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// MemoryConsumer delivers change messages from an in-process channel.
// It backs tests and local development without a Pub/Sub subscription.
type MemoryConsumer struct {
	messages chan []byte
	router   Router
	logger   *zap.Logger
}

// NewMemoryConsumer creates a consumer with the given buffer depth.
func NewMemoryConsumer(router Router, depth int, logger *zap.Logger) *MemoryConsumer {
	if depth <= 0 {
		depth = 16
	}
	return &MemoryConsumer{
		messages: make(chan []byte, depth),
		router:   router,
		logger:   logger,
	}
}

// Publish enqueues one raw change message.
func (c *MemoryConsumer) Publish(ctx context.Context, data []byte) error {
	select {
	case c.messages <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
}

// Run dispatches queued messages until the context finishes. Unlike
// the Pub/Sub consumer there is no redelivery; failures are logged
// and dropped.
func (c *MemoryConsumer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-c.messages:
			if err := dispatch(ctx, c.router, data); err != nil {
				var malformed *MalformedError
				if errors.As(err, &malformed) {
					c.logger.Error("Dropping malformed change message", zap.Error(err))
					continue
				}
				c.logger.Error("Change event handling failed", zap.Error(err))
			}
		}
	}
}

// Close does nothing for the in-memory consumer.
func (c *MemoryConsumer) Close() error { return nil }
