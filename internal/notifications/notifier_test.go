package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_PublishUser(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, UserChannel(5))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n := NewNotifier(rdb)
	require.NoError(t, n.PublishUser(ctx, 5, EventProductSold, map[string]any{"product_id": 9}))

	select {
	case msg := <-sub.Channel():
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, EventProductSold, ev.Type)
		assert.Equal(t, float64(9), ev.Payload["product_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("expected a message on the user channel")
	}
}

func TestNotifier_PublishBroadcast(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, BroadcastChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, NewNotifier(rdb).PublishBroadcast(ctx, EventListingCreated, map[string]any{"title": "Lamp"}))

	select {
	case msg := <-sub.Channel():
		assert.Contains(t, msg.Payload, `"type":"listing_created"`)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a broadcast message")
	}
}

func TestNotifier_NilClientIsNoop(t *testing.T) {
	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.PublishBroadcast(context.Background(), EventListingCreated, nil))
	assert.NoError(t, NewNotifier(nil).PublishUser(context.Background(), 1, EventProductSold, nil))
}
