// Package models contains data structures for the timeline's domain models.
package models

import (
	"strings"
	"time"
)

// User is a family member known to the identity provider.
type User struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email           *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	FirstName       string    `gorm:"type:varchar(255)" json:"firstName"`
	LastName        string    `gorm:"type:varchar(255)" json:"lastName"`
	ProfileImageURL string    `gorm:"type:varchar(500)" json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DisplayName joins the first and last name, falling back to the email.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.Email != nil {
		return *u.Email
	}
	return name
}

// Identity is the verified caller supplied by the identity provider's token.
type Identity struct {
	UserID          string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
}
