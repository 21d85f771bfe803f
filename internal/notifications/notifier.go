// Package notifications publishes timeline activity to Redis so other
// processes can react to new stories and interactions.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"heirloom/internal/middleware"
	"heirloom/internal/observability"

	"github.com/redis/go-redis/v9"
)

// TimelineChannel is the Redis pub/sub channel events are published on.
const TimelineChannel = "timeline:events"

// Event types.
const (
	EventStoryCreated   = "story.created"
	EventStoryLiked     = "story.liked"
	EventStoryUnliked   = "story.unliked"
	EventStoryCommented = "story.commented"
)

// TimelineEvent is the JSON payload published for each event.
type TimelineEvent struct {
	Type      string    `json:"type"`
	StoryID   uint      `json:"storyId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier publishes timeline events. A Notifier without a Redis client,
// or a nil *Notifier, drops every event.
type Notifier struct {
	client *redis.Client
}

func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

// Publish sends event on TimelineChannel. Failures are logged, not returned.
func (n *Notifier) Publish(ctx context.Context, event TimelineEvent) {
	if n == nil || n.client == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode timeline event", slog.String("error", err.Error()))
		return
	}
	if err := n.client.Publish(ctx, TimelineChannel, payload).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		middleware.Logger.WarnContext(ctx, "failed to publish timeline event",
			slog.String("type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}
