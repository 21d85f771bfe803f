package repository

import (
	"context"
	"regexp"
	"testing"

	"heirloom/internal/models"
	"heirloom/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_UpsertEmitsOnConflictUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`) + `.*` +
		regexp.QuoteMeta(`ON CONFLICT ("id") DO UPDATE SET "email"="excluded"."email"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name"}).AddRow("alice", "Alice"))

	user := &models.User{ID: "alice", FirstName: "Alice"}
	require.NoError(t, repo.Upsert(context.Background(), user))
	assert.Equal(t, "Alice", user.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionRepository_LikeInsertIgnoresConflicts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewInteractionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "story_interactions"`) + `.*` +
		regexp.QuoteMeta(`ON CONFLICT DO NOTHING RETURNING "id"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	in := &models.Interaction{StoryID: 1, UserID: "alice", Kind: models.InteractionLike}
	require.NoError(t, repo.Record(context.Background(), in))
	assert.Equal(t, uint(7), in.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpsertRefreshesProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	email := "ada@example.com"
	require.NoError(t, repo.Upsert(ctx, &models.User{ID: "ada", Email: &email, FirstName: "Ada"}))
	first, err := repo.GetByID(ctx, "ada")
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, &models.User{ID: "ada", Email: &email, FirstName: "Augusta", LastName: "King"}))
	second, err := repo.GetByID(ctx, "ada")
	require.NoError(t, err)

	assert.Equal(t, "Augusta", second.FirstName)
	assert.Equal(t, "King", second.LastName)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
}

func TestUserRepository_EmailIsUnique(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	email := "shared@example.com"
	require.NoError(t, repo.Upsert(ctx, &models.User{ID: "one", Email: &email}))
	err := repo.Upsert(ctx, &models.User{ID: "two", Email: &email})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
