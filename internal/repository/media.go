package repository

import (
	"context"

	"heirloom/internal/models"

	"gorm.io/gorm"
)

// MediaRepository reads story attachments in upload order.
type MediaRepository interface {
	ListByStory(ctx context.Context, storyID uint) ([]models.MediaFile, error)
	ListByStoryIDs(ctx context.Context, storyIDs []uint) (map[uint][]models.MediaFile, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) ListByStory(ctx context.Context, storyID uint) ([]models.MediaFile, error) {
	media := []models.MediaFile{}
	err := r.db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("uploaded_at ASC, id ASC").
		Find(&media).Error
	return media, err
}

func (r *mediaRepository) ListByStoryIDs(ctx context.Context, storyIDs []uint) (map[uint][]models.MediaFile, error) {
	grouped := make(map[uint][]models.MediaFile, len(storyIDs))
	if len(storyIDs) == 0 {
		return grouped, nil
	}
	var media []models.MediaFile
	err := r.db.WithContext(ctx).
		Where("story_id IN ?", storyIDs).
		Order("uploaded_at ASC, id ASC").
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	for _, m := range media {
		grouped[m.StoryID] = append(grouped[m.StoryID], m)
	}
	return grouped, nil
}
