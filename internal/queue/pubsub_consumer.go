package queue

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
)

// PubSubConsumer receives change notifications from a Pub/Sub
// subscription and dispatches them to the router.
type PubSubConsumer struct {
	client *pubsub.Client
	sub    *pubsub.Subscription
	router Router
	logger *zap.Logger
}

// NewPubSubConsumer creates a Pub/Sub client and verifies the
// subscription exists. Authentication uses Application Default
// Credentials.
func NewPubSubConsumer(ctx context.Context, projectID, subscriptionID string, router Router, logger *zap.Logger) (*PubSubConsumer, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	sub := client.Subscription(subscriptionID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("Failed to close pubsub client after subscription check failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to check for subscription '%s': %w", subscriptionID, err)
	}
	if !exists {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("Failed to close pubsub client after subscription check failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("pubsub subscription '%s' does not exist in project '%s'", subscriptionID, projectID)
	}

	return &PubSubConsumer{
		client: client,
		sub:    sub,
		router: router,
		logger: logger,
	}, nil
}

// Run blocks receiving messages until the context finishes. Handler
// errors Nack the message so the platform redelivers it; malformed
// messages are Acked after logging since redelivery cannot fix them.
func (c *PubSubConsumer) Run(ctx context.Context) error {
	err := c.sub.Receive(ctx, func(msgCtx context.Context, msg *pubsub.Message) {
		if err := dispatch(msgCtx, c.router, msg.Data); err != nil {
			var malformed *MalformedError
			if errors.As(err, &malformed) {
				c.logger.Error("Dropping malformed change message",
					zap.String("message_id", msg.ID), zap.Error(err))
				msg.Ack()
				return
			}
			c.logger.Error("Change event handling failed, message will be redelivered",
				zap.String("message_id", msg.ID), zap.Error(err))
			msg.Nack()
			return
		}
		msg.Ack()
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("pubsub receive: %w", err)
	}
	return nil
}

// Close shuts down the underlying client.
func (c *PubSubConsumer) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close pubsub client: %w", err)
	}
	return nil
}
