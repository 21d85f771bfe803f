package service

import (
	"context"
	"testing"
	"time"

	"heirloom/internal/models"
	"heirloom/internal/repository"
	"heirloom/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineService_ListTimeline(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "a", "Ann")
	testutil.CreateUser(t, db, "b", "Ben")
	oldest := testutil.CreateStory(t, db, "a", "Oldest", "2020-01-01")
	newest := testutil.CreateStory(t, db, "b", "Newest", "2022-06-15")
	testutil.CreateStory(t, db, "a", "Middle", "2021-03-10")

	ledger := repository.NewInteractionRepository(db)
	ctx := context.Background()
	require.NoError(t, ledger.Record(ctx, &models.Interaction{StoryID: newest.ID, UserID: "a", Kind: models.InteractionLike}))
	require.NoError(t, ledger.Record(ctx, &models.Interaction{StoryID: newest.ID, UserID: "b", Kind: models.InteractionLike}))
	text := "so cold"
	require.NoError(t, ledger.Record(ctx, &models.Interaction{StoryID: oldest.ID, UserID: "b", Kind: models.InteractionComment, Content: &text}))
	require.NoError(t, db.Create(&models.MediaFile{
		StoryID: oldest.ID, Filename: "f.jpg", OriginalName: "f.jpg", MimeType: "image/jpeg", FileSize: 3, FilePath: "/uploads/f.jpg",
	}).Error)

	svc := NewTimelineService(repository.NewStoryRepository(db), NewAggregator(repository.NewMediaRepository(db), ledger))

	timeline, err := svc.ListTimeline(ctx, "a")
	require.NoError(t, err)
	require.Len(t, timeline, 3)

	var days []string
	for _, s := range timeline {
		days = append(days, s.EventDate.Format(time.DateOnly))
		assert.NotNil(t, s.MediaFiles)
	}
	assert.Equal(t, []string{"2022-06-15", "2021-03-10", "2020-01-01"}, days)

	assert.Equal(t, "Ben", timeline[0].Author.FirstName)
	assert.Equal(t, 2, timeline[0].LikesCount)
	assert.True(t, timeline[0].UserHasLiked)
	assert.Empty(t, timeline[1].MediaFiles)
	assert.Equal(t, 1, timeline[2].CommentsCount)
	assert.Zero(t, timeline[2].LikesCount)
	assert.Equal(t, []models.MediaKind{models.MediaKindPhoto}, timeline[2].MediaKinds)

	anonymous, err := svc.ListTimeline(ctx, "")
	require.NoError(t, err)
	assert.False(t, anonymous[0].UserHasLiked)
}

func TestTimelineService_Empty(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTimelineService(repository.NewStoryRepository(db),
		NewAggregator(repository.NewMediaRepository(db), repository.NewInteractionRepository(db)))

	timeline, err := svc.ListTimeline(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, timeline)
	assert.Empty(t, timeline)
}

func TestTimelineService_GetStory(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		storyRepo := noopStoryRepo()
		storyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Story, error) {
			return nil, models.NewNotFoundError("Story", id)
		}
		svc := NewTimelineService(storyRepo, NewAggregator(noopMediaRepo(), noopInteractionRepo()))
		_, err := svc.GetStory(context.Background(), 5, "")
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("dangling author", func(t *testing.T) {
		t.Parallel()
		storyRepo := noopStoryRepo()
		storyRepo.getByIDFn = func(_ context.Context, id uint) (*models.Story, error) {
			return &models.Story{ID: id, AuthorID: "gone"}, nil
		}
		svc := NewTimelineService(storyRepo, NewAggregator(noopMediaRepo(), noopInteractionRepo()))
		_, err := svc.GetStory(context.Background(), 5, "")
		assertCode(t, err, models.CodeDanglingAuthor)
	})
}
