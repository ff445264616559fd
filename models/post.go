package models

import "time"

// TagList is stored as a JSON-encoded string column so the same model works on
// MySQL and the sqlite used in tests.
type TagList []string

// Post is a single teaching material authored by the site owner.
type Post struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	Title             string      `gorm:"size:255;not null" json:"title"`
	Slug              string      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content           string      `gorm:"type:text;not null" json:"content"` // markdown source
	Tags              TagList     `gorm:"type:text;serializer:json" json:"tags"`
	IsPublished       bool        `gorm:"not null;default:false;index" json:"isPublished"`
	IsPinned          bool        `gorm:"not null;default:false;index" json:"isPinned"`
	CoverAttachmentID *uint       `json:"coverAttachmentId"`
	PublishedAt       *time.Time  `json:"publishedAt"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	CoverAttachment   *Attachment  `gorm:"foreignKey:CoverAttachmentID" json:"coverAttachment,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`

	// AttachmentCount is populated by the admin listing only.
	AttachmentCount *int64 `gorm:"-" json:"attachmentCount,omitempty"`
	// HTML carries the rendered markdown on public detail responses.
	HTML string `gorm:"-" json:"html,omitempty"`
}
