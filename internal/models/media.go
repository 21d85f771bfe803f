package models

import (
	"strings"
	"time"
)

// MediaKind groups MIME types into the buckets clients filter the timeline by.
type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// MediaFile is one attachment of a story, stored in blob storage.
type MediaFile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StoryID       uint      `gorm:"not null;index" json:"storyId"`
	Story         *Story    `gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE" json:"-"`
	Filename      string    `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalName  string    `gorm:"type:varchar(255);not null" json:"originalName"`
	MimeType      string    `gorm:"type:varchar(100);not null" json:"mimeType"`
	FileSize      int64     `gorm:"not null" json:"fileSize"`
	FilePath      string    `gorm:"type:varchar(500);not null" json:"filePath"`
	ThumbnailPath string    `gorm:"type:varchar(500)" json:"thumbnailPath,omitempty"`
	UploadedAt    time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

// TableName keeps the table name stable.
func (MediaFile) TableName() string {
	return "media_files"
}

// Kind derives the media bucket from the MIME type.
func (m MediaFile) Kind() MediaKind {
	switch {
	case strings.HasPrefix(m.MimeType, "image/"):
		return MediaKindPhoto
	case strings.HasPrefix(m.MimeType, "video/"):
		return MediaKindVideo
	case strings.HasPrefix(m.MimeType, "audio/"):
		return MediaKindAudio
	default:
		return ""
	}
}
