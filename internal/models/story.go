package models

import "time"

// Story is a titled family memory placed on the timeline by its event date.
type Story struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	EventDate   time.Time `gorm:"not null" json:"eventDate"`
	AuthorID    string    `gorm:"type:varchar(64);not null;index" json:"authorId"`
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StoryWithDetails is the read model assembled for every story on the timeline.
// It is never persisted.
type StoryWithDetails struct {
	ID            uint          `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	EventDate     time.Time     `json:"eventDate"`
	AuthorID      string        `json:"authorId"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Author        User          `json:"author"`
	MediaFiles    []MediaFile   `json:"mediaFiles"`
	MediaKinds    []MediaKind   `json:"mediaKinds"`
	Interactions  []Interaction `json:"interactions"`
	LikesCount    int           `json:"likesCount"`
	CommentsCount int           `json:"commentsCount"`
	UserHasLiked  bool          `json:"userHasLiked"`
}
