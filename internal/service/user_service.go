package service

import (
	"context"
	"errors"
	"strings"

	"heirloom/internal/models"
	"heirloom/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpsertIdentity creates the caller's user row or refreshes its profile
// from the identity provider's claims.
func (s *UserService) UpsertIdentity(ctx context.Context, identity models.Identity) (*models.User, error) {
	if strings.TrimSpace(identity.UserID) == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	user := &models.User{
		ID:              identity.UserID,
		FirstName:       strings.TrimSpace(identity.FirstName),
		LastName:        strings.TrimSpace(identity.LastName),
		ProfileImageURL: strings.TrimSpace(identity.ProfileImageURL),
	}
	if email := strings.TrimSpace(identity.Email); email != "" {
		user.Email = &email
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewValidationError("Email is already linked to another user")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
