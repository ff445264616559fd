package models

import "time"

// Attachment is a file owned by exactly one post. The URL always points into
// the local uploads directory; rows are removed together with their post.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"postId"`
	Filename  string    `gorm:"size:512;not null" json:"filename"` // original name, display only
	MimeType  string    `gorm:"size:255" json:"mimeType"`
	Size      int64     `gorm:"not null" json:"size"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
