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

// UserRepository persists identity-provider users.
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users", middleware.Logger)}
}

// Upsert inserts the user or refreshes every profile field when the id exists.
// The user is reloaded afterwards so timestamps reflect the stored row.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		r.log.LogError(ctx, err, "upsert")
		return classify(err)
	}
	r.log.LogCreate(ctx, slog.String("user_id", user.ID))

	var stored models.User
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", user.ID).Error; err != nil {
		return err
	}
	*user = stored
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
