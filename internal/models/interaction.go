package models

import "time"

// InteractionKind is the type of a social action on a story.
type InteractionKind string

const (
	InteractionLike    InteractionKind = "like"
	InteractionComment InteractionKind = "comment"
)

// Valid reports whether k is a known interaction kind.
func (k InteractionKind) Valid() bool {
	return k == InteractionLike || k == InteractionComment
}

// Interaction is a like or comment recorded against a story by a user.
// Content is only set for comments.
type Interaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	StoryID   uint            `gorm:"not null;index" json:"storyId"`
	Story     *Story          `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    string          `gorm:"type:varchar(64);not null;index" json:"userId"`
	User      *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Kind      InteractionKind `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Content   *string         `gorm:"type:text" json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TableName keeps the table name stable.
func (Interaction) TableName() string {
	return "story_interactions"
}
