package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"heirloom/internal/models"
	"heirloom/internal/notifications"
	"heirloom/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storyRepoStub struct {
	createFn          func(context.Context, *models.Story, []models.MediaFile) error
	getByIDFn         func(context.Context, uint) (*models.Story, error)
	existsFn          func(context.Context, uint) (bool, error)
	listByEventDateFn func(context.Context) ([]models.Story, error)
}

func (s *storyRepoStub) Create(ctx context.Context, story *models.Story, media []models.MediaFile) error {
	return s.createFn(ctx, story, media)
}
func (s *storyRepoStub) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	return s.getByIDFn(ctx, id)
}
func (s *storyRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *storyRepoStub) ListByEventDate(ctx context.Context) ([]models.Story, error) {
	return s.listByEventDateFn(ctx)
}

func noopStoryRepo() *storyRepoStub {
	return &storyRepoStub{
		createFn: func(_ context.Context, story *models.Story, _ []models.MediaFile) error {
			story.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Story, error) {
			return &models.Story{ID: id, Author: &models.User{ID: "author"}}, nil
		},
		existsFn:          func(_ context.Context, _ uint) (bool, error) { return true, nil },
		listByEventDateFn: func(_ context.Context) ([]models.Story, error) { return nil, nil },
	}
}

type userRepoStub struct {
	upsertFn  func(context.Context, *models.User) error
	getByIDFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Upsert(ctx context.Context, user *models.User) error {
	return s.upsertFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		upsertFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}
}

type mediaRepoStub struct {
	listByStoryFn    func(context.Context, uint) ([]models.MediaFile, error)
	listByStoryIDsFn func(context.Context, []uint) (map[uint][]models.MediaFile, error)
}

func (s *mediaRepoStub) ListByStory(ctx context.Context, storyID uint) ([]models.MediaFile, error) {
	return s.listByStoryFn(ctx, storyID)
}
func (s *mediaRepoStub) ListByStoryIDs(ctx context.Context, ids []uint) (map[uint][]models.MediaFile, error) {
	return s.listByStoryIDsFn(ctx, ids)
}

func noopMediaRepo() *mediaRepoStub {
	return &mediaRepoStub{
		listByStoryFn: func(_ context.Context, _ uint) ([]models.MediaFile, error) { return nil, nil },
		listByStoryIDsFn: func(_ context.Context, _ []uint) (map[uint][]models.MediaFile, error) {
			return map[uint][]models.MediaFile{}, nil
		},
	}
}

type interactionRepoStub struct {
	recordFn         func(context.Context, *models.Interaction) error
	findFn           func(context.Context, uint, string, models.InteractionKind) (*models.Interaction, bool, error)
	removeFn         func(context.Context, uint, string, models.InteractionKind) (int64, error)
	listByStoryFn    func(context.Context, uint) ([]models.Interaction, error)
	listByStoryIDsFn func(context.Context, []uint) (map[uint][]models.Interaction, error)
	withStoryLockFn  func(context.Context, uint, func(repository.InteractionRepository) error) error
}

func (s *interactionRepoStub) Record(ctx context.Context, in *models.Interaction) error {
	return s.recordFn(ctx, in)
}
func (s *interactionRepoStub) Find(ctx context.Context, storyID uint, userID string, kind models.InteractionKind) (*models.Interaction, bool, error) {
	return s.findFn(ctx, storyID, userID, kind)
}
func (s *interactionRepoStub) Remove(ctx context.Context, storyID uint, userID string, kind models.InteractionKind) (int64, error) {
	return s.removeFn(ctx, storyID, userID, kind)
}
func (s *interactionRepoStub) ListByStory(ctx context.Context, storyID uint) ([]models.Interaction, error) {
	return s.listByStoryFn(ctx, storyID)
}
func (s *interactionRepoStub) ListByStoryIDs(ctx context.Context, ids []uint) (map[uint][]models.Interaction, error) {
	return s.listByStoryIDsFn(ctx, ids)
}
func (s *interactionRepoStub) WithStoryLock(ctx context.Context, storyID uint, fn func(repository.InteractionRepository) error) error {
	return s.withStoryLockFn(ctx, storyID, fn)
}

func noopInteractionRepo() *interactionRepoStub {
	stub := &interactionRepoStub{
		recordFn: func(_ context.Context, _ *models.Interaction) error { return nil },
		findFn: func(_ context.Context, _ uint, _ string, _ models.InteractionKind) (*models.Interaction, bool, error) {
			return nil, false, nil
		},
		removeFn:      func(_ context.Context, _ uint, _ string, _ models.InteractionKind) (int64, error) { return 0, nil },
		listByStoryFn: func(_ context.Context, _ uint) ([]models.Interaction, error) { return nil, nil },
		listByStoryIDsFn: func(_ context.Context, _ []uint) (map[uint][]models.Interaction, error) {
			return map[uint][]models.Interaction{}, nil
		},
	}
	stub.withStoryLockFn = func(_ context.Context, _ uint, fn func(repository.InteractionRepository) error) error {
		return fn(stub)
	}
	return stub
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.TimelineEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event notifications.TimelineEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func bytesUpload(name, contentType string, data []byte) MediaUpload {
	return MediaUpload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func assertValidationError(t *testing.T, err error) *models.AppError {
	t.Helper()
	return assertCode(t, err, models.CodeValidation)
}
