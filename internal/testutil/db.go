// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"heirloom/internal/database"
	"heirloom/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database that lives for the duration of the test.
// A file-backed database is used so pooled connections share one schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "heirloom.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given id.
func CreateUser(t testing.TB, db *gorm.DB, id, firstName string) *models.User {
	t.Helper()
	user := &models.User{ID: id, FirstName: firstName, LastName: "Tester"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateStory inserts a story by author on the given day (YYYY-MM-DD).
func CreateStory(t testing.TB, db *gorm.DB, authorID, title, day string) *models.Story {
	t.Helper()
	eventDate, err := time.Parse(time.DateOnly, day)
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	story := &models.Story{Title: title, Description: "A family memory", EventDate: eventDate, AuthorID: authorID}
	if err := db.Omit("Author").Create(story).Error; err != nil {
		t.Fatalf("create story: %v", err)
	}
	return story
}
