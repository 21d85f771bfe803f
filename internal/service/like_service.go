package service

import (
	"context"

	"heirloom/internal/models"
	"heirloom/internal/notifications"
	"heirloom/internal/observability"
	"heirloom/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type LikeService struct {
	ledger repository.InteractionRepository
	events EventPublisher
}

func NewLikeService(ledger repository.InteractionRepository, events EventPublisher) *LikeService {
	return &LikeService{ledger: ledger, events: publisherOrNoop(events)}
}

// ToggleLike flips the caller's like on a story and reports the new state.
// The lookup and the write run under a lock on the story row.
func (s *LikeService) ToggleLike(ctx context.Context, storyID uint, userID string) (liked bool, err error) {
	ctx, span := observability.StartSpan(ctx, "like.toggle", attribute.Int64("story.id", int64(storyID)))
	defer func() { span.End(err) }()

	if userID == "" {
		return false, models.NewUnauthorizedError("Authentication required")
	}

	err = s.ledger.WithStoryLock(ctx, storyID, func(ledger repository.InteractionRepository) error {
		_, found, err := ledger.Find(ctx, storyID, userID, models.InteractionLike)
		if err != nil {
			return err
		}
		if found {
			if _, err := ledger.Remove(ctx, storyID, userID, models.InteractionLike); err != nil {
				return err
			}
			liked = false
			return nil
		}
		if err := ledger.Record(ctx, &models.Interaction{
			StoryID: storyID,
			UserID:  userID,
			Kind:    models.InteractionLike,
		}); err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, unknownUser(err)
	}

	state, eventType := "unliked", notifications.EventStoryUnliked
	if liked {
		state, eventType = "liked", notifications.EventStoryLiked
	}
	observability.LikeToggles.WithLabelValues(state).Inc()
	span.AddAttributes(attribute.Bool("like.liked", liked))
	s.events.Publish(ctx, notifications.TimelineEvent{Type: eventType, StoryID: storyID, UserID: userID})
	return liked, nil
}
