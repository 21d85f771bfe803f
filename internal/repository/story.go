package repository

import (
	"context"
	"errors"
	"log/slog"

	"heirloom/internal/middleware"
	"heirloom/internal/models"
	"heirloom/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository persists stories together with their media rows.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story, media []models.MediaFile) error
	GetByID(ctx context.Context, id uint) (*models.Story, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ListByEventDate(ctx context.Context) ([]models.Story, error)
}

type storyRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db, log: observability.NewRepoLogger("stories", middleware.Logger)}
}

// Create inserts the story and its media in a single transaction. On success
// every media row carries the new story id.
func (r *storyRepository) Create(ctx context.Context, story *models.Story, media []models.MediaFile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(story).Error; err != nil {
			return err
		}
		if len(media) == 0 {
			return nil
		}
		for i := range media {
			media[i].StoryID = story.ID
		}
		return tx.Omit(clause.Associations).Create(&media).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return classify(err)
	}
	r.log.LogCreate(ctx, slog.Uint64("story_id", uint64(story.ID)), slog.Int("media", len(media)))
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).Preload("Author").First(&story, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Story", id)
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Story{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByEventDate returns every story, most recent event first.
func (r *storyRepository) ListByEventDate(ctx context.Context) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("event_date DESC, id DESC").
		Find(&stories).Error
	return stories, err
}
