package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"heirloom/internal/middleware"
	"heirloom/internal/models"
	"heirloom/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository is the ledger of likes and comments keyed by story and user.
type InteractionRepository interface {
	// Record appends an interaction. A like that already exists for the pair
	// is not duplicated; in is filled from the stored row instead.
	Record(ctx context.Context, in *models.Interaction) error
	Find(ctx context.Context, storyID uint, userID string, kind models.InteractionKind) (*models.Interaction, bool, error)
	// Remove deletes every interaction matching the tuple and reports how many went.
	Remove(ctx context.Context, storyID uint, userID string, kind models.InteractionKind) (int64, error)
	ListByStory(ctx context.Context, storyID uint) ([]models.Interaction, error)
	ListByStoryIDs(ctx context.Context, storyIDs []uint) (map[uint][]models.Interaction, error)
	// WithStoryLock runs fn in a transaction that holds a row lock on the story,
	// so concurrent read-then-write sequences on that story serialize.
	WithStoryLock(ctx context.Context, storyID uint, fn func(ledger InteractionRepository) error) error
}

type interactionRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewInteractionRepository creates a new interaction ledger
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db, log: observability.NewRepoLogger("story_interactions", middleware.Logger)}
}

func (r *interactionRepository) Record(ctx context.Context, in *models.Interaction) error {
	if err := checkInteraction(in); err != nil {
		return err
	}

	db := r.db.WithContext(ctx).Omit(clause.Associations)
	if in.Kind == models.InteractionLike {
		db = db.Clauses(clause.OnConflict{DoNothing: true})
	}

	result := db.Create(in)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "record")
		return classify(result.Error)
	}

	if result.RowsAffected == 0 {
		// Lost the race against an identical like; surface the winner.
		existing, found, err := r.Find(ctx, in.StoryID, in.UserID, in.Kind)
		if err != nil {
			return err
		}
		if found {
			*in = *existing
		}
		return nil
	}

	r.log.LogCreate(ctx,
		slog.Uint64("story_id", uint64(in.StoryID)),
		slog.String("kind", string(in.Kind)),
	)
	return nil
}

func (r *interactionRepository) Find(ctx context.Context, storyID uint, userID string, kind models.InteractionKind) (*models.Interaction, bool, error) {
	var in models.Interaction
	err := r.db.WithContext(ctx).
		Where("story_id = ? AND user_id = ? AND type = ?", storyID, userID, kind).
		Order("id ASC").
		First(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &in, true, nil
}

func (r *interactionRepository) Remove(ctx context.Context, storyID uint, userID string, kind models.InteractionKind) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("story_id = ? AND user_id = ? AND type = ?", storyID, userID, kind).
		Delete(&models.Interaction{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "remove")
		return 0, result.Error
	}
	r.log.LogDelete(ctx,
		slog.Uint64("story_id", uint64(storyID)),
		slog.String("kind", string(kind)),
		slog.Int64("rows", result.RowsAffected),
	)
	return result.RowsAffected, nil
}

func (r *interactionRepository) ListByStory(ctx context.Context, storyID uint) ([]models.Interaction, error) {
	interactions := []models.Interaction{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("story_id = ?", storyID).
		Order("created_at ASC, id ASC").
		Find(&interactions).Error
	return interactions, err
}

func (r *interactionRepository) ListByStoryIDs(ctx context.Context, storyIDs []uint) (map[uint][]models.Interaction, error) {
	grouped := make(map[uint][]models.Interaction, len(storyIDs))
	if len(storyIDs) == 0 {
		return grouped, nil
	}
	var interactions []models.Interaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("story_id IN ?", storyIDs).
		Order("created_at ASC, id ASC").
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	for _, in := range interactions {
		grouped[in.StoryID] = append(grouped[in.StoryID], in)
	}
	return grouped, nil
}

func (r *interactionRepository) WithStoryLock(ctx context.Context, storyID uint, fn func(ledger InteractionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var story models.Story
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&story, storyID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Story", storyID)
		}
		if err != nil {
			return err
		}
		return fn(&interactionRepository{db: tx, log: r.log})
	})
}

// checkInteraction enforces the content rule: comments carry text, likes never do.
func checkInteraction(in *models.Interaction) error {
	switch in.Kind {
	case models.InteractionLike:
		if in.Content != nil {
			return models.NewValidationError("Likes cannot carry content")
		}
	case models.InteractionComment:
		if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
			return models.NewValidationError("Comment content is required")
		}
	default:
		return models.NewValidationError("Unknown interaction type " + string(in.Kind))
	}
	return nil
}
