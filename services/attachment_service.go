package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Yardanz/tutor-site/models"
	"github.com/Yardanz/tutor-site/utils"
)

// MaxUploadBytes is the fixed per-file upload ceiling.
const MaxUploadBytes = 50 * 1024 * 1024

// AttachmentService stores uploaded files and their rows. The file write and
// the row insert are deliberately not one atomic unit; files are a side
// resource of the database rows.
type AttachmentService struct {
	db    *gorm.DB
	files *utils.FileStore
}

// NewAttachmentService creates an AttachmentService backed by db and the local file store.
func NewAttachmentService(db *gorm.DB, files *utils.FileStore) *AttachmentService {
	return &AttachmentService{db: db, files: files}
}

// Attach saves one uploaded file to disk and records it against the post.
func (s *AttachmentService) Attach(postID uint, originalName, mimeType string, data []byte) (*models.Attachment, error) {
	var post models.Post
	if err := s.db.Select("id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(data) == 0 {
		return nil, validation("No file provided.")
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	stored, err := s.files.Save(originalName, data)
	if err != nil {
		return nil, err
	}

	attachment := models.Attachment{
		PostID:   postID,
		Filename: originalName,
		MimeType: mimeType,
		Size:     int64(len(data)),
		URL:      stored.URL,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		// The row is authoritative; without it the stored file is an orphan.
		if delErr := s.files.DeleteByURL(stored.URL); delErr != nil {
			utils.Sugar.Warnf("failed to clean up orphaned upload %s: %v", stored.URL, delErr)
		}
		return nil, err
	}
	return &attachment, nil
}

// Delete best-effort removes the on-disk file, then deletes the row and clears
// the owning post's cover when it pointed at this attachment. The row deletion
// proceeds regardless of the file-deletion outcome.
func (s *AttachmentService) Delete(id uint) error {
	var attachment models.Attachment
	if err := s.db.First(&attachment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.files.DeleteByURL(attachment.URL); err != nil {
		utils.Sugar.Warnf("failed to delete file for attachment %d: %v", attachment.ID, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Post{}).
			Where("id = ? AND cover_attachment_id = ?", attachment.PostID, attachment.ID).
			Update("cover_attachment_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.Attachment{}, attachment.ID).Error
	})
}
