package service

import (
	"errors"

	"heirloom/internal/models"
	"heirloom/internal/repository"
)

// unknownUser maps a write rejected on the user foreign key to Unauthorized:
// the caller holds a valid token but never started a session.
func unknownUser(err error) error {
	if errors.Is(err, repository.ErrMissingReference) {
		return models.NewUnauthorizedError("Unknown user, start a session first")
	}
	return err
}
