package service

import (
	"context"

	"heirloom/internal/models"
	"heirloom/internal/observability"
	"heirloom/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type TimelineService struct {
	storyRepo  repository.StoryRepository
	aggregator *Aggregator
}

func NewTimelineService(storyRepo repository.StoryRepository, aggregator *Aggregator) *TimelineService {
	return &TimelineService{storyRepo: storyRepo, aggregator: aggregator}
}

// ListTimeline returns every story, most recent event first, as seen by
// viewerID (empty for anonymous callers).
func (s *TimelineService) ListTimeline(ctx context.Context, viewerID string) (timeline []models.StoryWithDetails, err error) {
	ctx, span := observability.StartSpan(ctx, "timeline.list")
	defer func() { span.End(err) }()

	stories, err := s.storyRepo.ListByEventDate(ctx)
	if err != nil {
		return nil, err
	}
	timeline, err = s.aggregator.AggregateMany(ctx, stories, viewerID)
	if err != nil {
		return nil, err
	}

	observability.TimelineSize.Observe(float64(len(timeline)))
	span.AddAttributes(attribute.Int("timeline.size", len(timeline)))
	return timeline, nil
}

func (s *TimelineService) GetStory(ctx context.Context, storyID uint, viewerID string) (*models.StoryWithDetails, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Aggregate(ctx, story, viewerID)
}
