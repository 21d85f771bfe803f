package service

import (
	"context"
	"strings"

	"heirloom/internal/models"
	"heirloom/internal/notifications"
	"heirloom/internal/observability"
	"heirloom/internal/repository"
)

type CommentService struct {
	ledger    repository.InteractionRepository
	storyRepo repository.StoryRepository
	userRepo  repository.UserRepository
	events    EventPublisher
}

type CreateCommentInput struct {
	StoryID uint   `json:"-"`
	UserID  string `json:"-"`
	Content string `json:"content" validate:"required,max=2000"`
}

func NewCommentService(
	ledger repository.InteractionRepository,
	storyRepo repository.StoryRepository,
	userRepo repository.UserRepository,
	events EventPublisher,
) *CommentService {
	return &CommentService{
		ledger:    ledger,
		storyRepo: storyRepo,
		userRepo:  userRepo,
		events:    publisherOrNoop(events),
	}
}

func (s *CommentService) AddComment(ctx context.Context, in CreateCommentInput) (*models.Interaction, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.requireStory(ctx, in.StoryID); err != nil {
		return nil, err
	}

	content := in.Content
	comment := &models.Interaction{
		StoryID: in.StoryID,
		UserID:  in.UserID,
		Kind:    models.InteractionComment,
		Content: &content,
	}
	if err := s.ledger.Record(ctx, comment); err != nil {
		return nil, unknownUser(err)
	}
	if user, err := s.userRepo.GetByID(ctx, in.UserID); err == nil {
		comment.User = user
	}

	observability.CommentsCreated.Inc()
	s.events.Publish(ctx, notifications.TimelineEvent{
		Type:    notifications.EventStoryCommented,
		StoryID: in.StoryID,
		UserID:  in.UserID,
	})
	return comment, nil
}

// ListComments returns a story's comments, oldest first.
func (s *CommentService) ListComments(ctx context.Context, storyID uint) ([]models.Interaction, error) {
	if err := s.requireStory(ctx, storyID); err != nil {
		return nil, err
	}
	interactions, err := s.ledger.ListByStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	comments := make([]models.Interaction, 0, len(interactions))
	for _, in := range interactions {
		if in.Kind == models.InteractionComment {
			comments = append(comments, in)
		}
	}
	return comments, nil
}

func (s *CommentService) requireStory(ctx context.Context, storyID uint) error {
	ok, err := s.storyRepo.Exists(ctx, storyID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Story", storyID)
	}
	return nil
}
