package service

import (
	"context"
	"log/slog"

	"heirloom/internal/middleware"
	"heirloom/internal/models"
	"heirloom/internal/repository"
)

// Aggregator assembles StoryWithDetails read models. Counts are derived
// from the interaction list on every call.
type Aggregator struct {
	mediaRepo repository.MediaRepository
	ledger    repository.InteractionRepository
}

func NewAggregator(mediaRepo repository.MediaRepository, ledger repository.InteractionRepository) *Aggregator {
	return &Aggregator{mediaRepo: mediaRepo, ledger: ledger}
}

// Aggregate builds the read model for one story. viewerID may be empty.
func (a *Aggregator) Aggregate(ctx context.Context, story *models.Story, viewerID string) (*models.StoryWithDetails, error) {
	media, err := a.mediaRepo.ListByStory(ctx, story.ID)
	if err != nil {
		return nil, err
	}
	interactions, err := a.ledger.ListByStory(ctx, story.ID)
	if err != nil {
		return nil, err
	}
	details, err := buildDetails(story, media, interactions, viewerID)
	if err != nil {
		logDangling(ctx, story)
		return nil, err
	}
	return &details, nil
}

// AggregateMany builds read models for stories, preserving their order,
// with one media fetch and one interaction fetch for the whole batch.
func (a *Aggregator) AggregateMany(ctx context.Context, stories []models.Story, viewerID string) ([]models.StoryWithDetails, error) {
	out := make([]models.StoryWithDetails, 0, len(stories))
	if len(stories) == 0 {
		return out, nil
	}

	ids := make([]uint, len(stories))
	for i := range stories {
		ids[i] = stories[i].ID
	}
	media, err := a.mediaRepo.ListByStoryIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	interactions, err := a.ledger.ListByStoryIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range stories {
		story := &stories[i]
		details, err := buildDetails(story, media[story.ID], interactions[story.ID], viewerID)
		if err != nil {
			logDangling(ctx, story)
			return nil, err
		}
		out = append(out, details)
	}
	return out, nil
}

func buildDetails(story *models.Story, media []models.MediaFile, interactions []models.Interaction, viewerID string) (models.StoryWithDetails, error) {
	if story.Author == nil {
		return models.StoryWithDetails{}, models.NewDanglingAuthorError(story.ID, story.AuthorID)
	}
	if media == nil {
		media = []models.MediaFile{}
	}
	if interactions == nil {
		interactions = []models.Interaction{}
	}

	var likes, comments int
	var viewerLiked bool
	for _, in := range interactions {
		switch in.Kind {
		case models.InteractionLike:
			likes++
			if viewerID != "" && in.UserID == viewerID {
				viewerLiked = true
			}
		case models.InteractionComment:
			comments++
		}
	}

	return models.StoryWithDetails{
		ID:            story.ID,
		Title:         story.Title,
		Description:   story.Description,
		EventDate:     story.EventDate,
		AuthorID:      story.AuthorID,
		CreatedAt:     story.CreatedAt,
		UpdatedAt:     story.UpdatedAt,
		Author:        *story.Author,
		MediaFiles:    media,
		MediaKinds:    mediaKinds(media),
		Interactions:  interactions,
		LikesCount:    likes,
		CommentsCount: comments,
		UserHasLiked:  viewerLiked,
	}, nil
}

// mediaKinds lists the distinct kinds present, in first-seen order.
func mediaKinds(media []models.MediaFile) []models.MediaKind {
	kinds := []models.MediaKind{}
	seen := make(map[models.MediaKind]bool, 3)
	for _, m := range media {
		k := m.Kind()
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds
}

func logDangling(ctx context.Context, story *models.Story) {
	middleware.Logger.ErrorContext(ctx, "story references a missing author",
		slog.Uint64("story_id", uint64(story.ID)),
		slog.String("author_id", story.AuthorID),
	)
}
