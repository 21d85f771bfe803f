package database

import (
	"path/filepath"
	"testing"
	"time"

	"heirloom/internal/config"
	"heirloom/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "heirloom.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestDSN(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", DSN(cfg))

	cfg.DBSSLMode = "require"
	assert.Contains(t, DSN(cfg), "sslmode=require")
}

func TestMigrate_CreatesSchema(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "stories", "media_files", "story_interactions"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s", table)
	}

	// Running twice is a no-op.
	require.NoError(t, Migrate(db))
}

func TestMigrate_SecondLikeViolatesUniqueIndex(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))

	user := &models.User{ID: "user-a", FirstName: "Ada"}
	require.NoError(t, db.Create(user).Error)
	story := &models.Story{Title: "Picnic", Description: "At the lake", EventDate: time.Now(), AuthorID: user.ID}
	require.NoError(t, db.Create(story).Error)

	like := func() error {
		return db.Create(&models.Interaction{StoryID: story.ID, UserID: user.ID, Kind: models.InteractionLike}).Error
	}
	require.NoError(t, like())
	assert.Error(t, like(), "second like for the same pair must be rejected")

	// Comments are not constrained.
	text := "lovely"
	for range 2 {
		require.NoError(t, db.Create(&models.Interaction{
			StoryID: story.ID, UserID: user.ID, Kind: models.InteractionComment, Content: &text,
		}).Error)
	}
}

func TestMigrate_StoryRequiresExistingAuthor(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(db))

	err := db.Create(&models.Story{Title: "Orphan", Description: "x", EventDate: time.Now(), AuthorID: "ghost"}).Error
	assert.Error(t, err)
}
