package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"heirloom/internal/middleware"
	"heirloom/internal/models"
	"heirloom/internal/notifications"
	"heirloom/internal/observability"
	"heirloom/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type StoryService struct {
	storyRepo repository.StoryRepository
	userRepo  repository.UserRepository
	media     *MediaService
	events    EventPublisher
}

type CreateStoryInput struct {
	AuthorID    string        `json:"-"`
	Title       string        `json:"title" validate:"required,min=3,max=255"`
	Description string        `json:"description" validate:"required,max=10000"`
	EventDate   string        `json:"eventDate" validate:"required"`
	Media       []MediaUpload `json:"-"`
}

func NewStoryService(
	storyRepo repository.StoryRepository,
	userRepo repository.UserRepository,
	media *MediaService,
	events EventPublisher,
) *StoryService {
	return &StoryService{
		storyRepo: storyRepo,
		userRepo:  userRepo,
		media:     media,
		events:    publisherOrNoop(events),
	}
}

// CreateStory validates the fields and the whole media batch, writes the
// blobs, and inserts the story with its media in one transaction. Nothing is
// left behind when any step fails.
func (s *StoryService) CreateStory(ctx context.Context, in CreateStoryInput) (story *models.Story, err error) {
	ctx, span := observability.StartSpan(ctx, "story.create", attribute.Int("media.count", len(in.Media)))
	defer func() { span.End(err) }()

	if in.AuthorID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.EventDate = strings.TrimSpace(in.EventDate)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	eventDate, err := ParseEventDate(in.EventDate)
	if err != nil {
		return nil, models.NewFieldValidationError(map[string]string{
			"eventDate": "must be a date in YYYY-MM-DD or RFC 3339 format",
		})
	}

	if _, err := s.userRepo.GetByID(ctx, in.AuthorID); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Unknown user, start a session first")
		}
		return nil, err
	}

	batch, err := s.media.Validate(in.Media)
	if err != nil {
		return nil, err
	}
	files, err := s.media.Store(ctx, batch)
	if err != nil {
		return nil, err
	}

	story = &models.Story{
		Title:       in.Title,
		Description: in.Description,
		EventDate:   eventDate,
		AuthorID:    in.AuthorID,
	}
	if err := s.storyRepo.Create(ctx, story, files); err != nil {
		s.media.Discard(ctx, files)
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, unknownUser(err)
		}
		return nil, models.NewStorageFailureError("story insert", err)
	}

	observability.StoriesCreated.Inc()
	middleware.Logger.InfoContext(ctx, "story created",
		slog.Uint64("story_id", uint64(story.ID)),
		slog.Int("media", len(files)),
	)
	s.events.Publish(ctx, notifications.TimelineEvent{
		Type:    notifications.EventStoryCreated,
		StoryID: story.ID,
		UserID:  story.AuthorID,
	})
	return story, nil
}

// ParseEventDate accepts a calendar date or a full RFC 3339 timestamp.
func ParseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
