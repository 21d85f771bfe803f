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

func TestNotifier_PublishesJSONEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, TimelineChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	NewNotifier(client).Publish(ctx, TimelineEvent{Type: EventStoryLiked, StoryID: 3, UserID: "alice"})

	select {
	case msg := <-sub.Channel():
		var event TimelineEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, EventStoryLiked, event.Type)
		assert.Equal(t, uint(3), event.StoryID)
		assert.Equal(t, "alice", event.UserID)
		assert.False(t, event.CreatedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for timeline event")
	}
}

func TestNotifier_NilIsNoop(t *testing.T) {
	var n *Notifier
	n.Publish(context.Background(), TimelineEvent{Type: EventStoryCreated})
	NewNotifier(nil).Publish(context.Background(), TimelineEvent{Type: EventStoryCreated})
}

func TestNotifier_PublishFailureIsSwallowed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	NewNotifier(client).Publish(context.Background(), TimelineEvent{Type: EventStoryCommented})
}
