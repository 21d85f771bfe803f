package repository

import (
	"context"
	"testing"
	"time"

	"heirloom/internal/models"
	"heirloom/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryRepository_CreateWithMedia(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStoryRepository(db)
	mediaRepo := NewMediaRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", "Alice")
	story := &models.Story{
		Title:       "Beach day",
		Description: "Sandcastles",
		EventDate:   time.Date(2021, 7, 4, 0, 0, 0, 0, time.UTC),
		AuthorID:    alice.ID,
	}
	media := []models.MediaFile{
		{Filename: "media-1-a.jpg", OriginalName: "a.jpg", MimeType: "image/jpeg", FileSize: 10, FilePath: "/uploads/media-1-a.jpg"},
		{Filename: "media-1-b.mp3", OriginalName: "b.mp3", MimeType: "audio/mpeg", FileSize: 20, FilePath: "/uploads/media-1-b.mp3"},
	}

	require.NoError(t, repo.Create(ctx, story, media))
	require.NotZero(t, story.ID)
	for _, m := range media {
		assert.Equal(t, story.ID, m.StoryID)
	}

	stored, err := mediaRepo.ListByStory(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "a.jpg", stored[0].OriginalName)
	assert.Equal(t, "b.mp3", stored[1].OriginalName)
}

func TestStoryRepository_CreateRollsBackOnMissingAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	story := &models.Story{Title: "Ghost", Description: "x", EventDate: time.Now(), AuthorID: "nobody"}
	err := repo.Create(ctx, story, []models.MediaFile{{Filename: "f", OriginalName: "f", MimeType: "image/png", FilePath: "/uploads/f"}})
	assert.ErrorIs(t, err, ErrMissingReference)

	var count int64
	require.NoError(t, db.Model(&models.MediaFile{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStoryRepository_ListByEventDate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", "Alice")
	testutil.CreateStory(t, db, alice.ID, "Oldest", "2020-01-01")
	testutil.CreateStory(t, db, alice.ID, "Newest", "2022-06-15")
	testutil.CreateStory(t, db, alice.ID, "Middle", "2021-03-10")

	stories, err := repo.ListByEventDate(ctx)
	require.NoError(t, err)
	require.Len(t, stories, 3)

	var days []string
	for _, s := range stories {
		days = append(days, s.EventDate.Format(time.DateOnly))
		require.NotNil(t, s.Author)
		assert.Equal(t, "Alice", s.Author.FirstName)
	}
	assert.Equal(t, []string{"2022-06-15", "2021-03-10", "2020-01-01"}, days)
}

func TestStoryRepository_GetByIDAndExists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", "Alice")
	story := testutil.CreateStory(t, db, alice.ID, "Birthday", "2023-02-02")

	got, err := repo.GetByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, "Birthday", got.Title)
	require.NotNil(t, got.Author)
	assert.Equal(t, alice.ID, got.Author.ID)

	_, err = repo.GetByID(ctx, story.ID+100)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	ok, err := repo.Exists(ctx, story.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, story.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMediaRepository_ListByStoryIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMediaRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", "Alice")
	s1 := testutil.CreateStory(t, db, alice.ID, "One", "2020-01-01")
	s2 := testutil.CreateStory(t, db, alice.ID, "Two", "2021-01-01")
	require.NoError(t, db.Create(&models.MediaFile{StoryID: s1.ID, Filename: "x", OriginalName: "x.png", MimeType: "image/png", FilePath: "/uploads/x"}).Error)

	grouped, err := repo.ListByStoryIDs(ctx, []uint{s1.ID, s2.ID})
	require.NoError(t, err)
	assert.Len(t, grouped[s1.ID], 1)
	assert.Empty(t, grouped[s2.ID])

	none, err := repo.ListByStory(ctx, s2.ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
