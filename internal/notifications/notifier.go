// Package notifications publishes marketplace events into Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// BroadcastChannel receives events meant for every subscriber.
const BroadcastChannel = "notifications:broadcast"

// Event types published by the marketplace.
const (
	EventListingCreated    = "listing_created"
	EventListingDeleted    = "listing_deleted"
	EventProductSold       = "product_sold"
	EventCheckoutCompleted = "checkout_completed"
)

// Event is the JSON envelope written to every channel.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Notifier provides helpers to publish notifications into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel returns the channel of a single user.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// PublishUser sends an event to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, eventType string, payload map[string]any) error {
	return n.publish(ctx, UserChannel(userID), eventType, payload)
}

// PublishBroadcast sends an event to the broadcast channel.
func (n *Notifier) PublishBroadcast(ctx context.Context, eventType string, payload map[string]any) error {
	return n.publish(ctx, BroadcastChannel, eventType, payload)
}

func (n *Notifier) publish(ctx context.Context, channel, eventType string, payload map[string]any) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	body, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return n.rdb.Publish(ctx, channel, string(body)).Err()
}
