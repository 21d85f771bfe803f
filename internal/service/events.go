package service

import (
	"context"

	"heirloom/internal/notifications"
)

// EventPublisher receives timeline activity after it has been committed.
type EventPublisher interface {
	Publish(ctx context.Context, event notifications.TimelineEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, notifications.TimelineEvent) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
