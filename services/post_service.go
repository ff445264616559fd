package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Yardanz/tutor-site/models"
	"github.com/Yardanz/tutor-site/utils"
)

// AdminPageSize is the page size of the admin post listing.
const AdminPageSize = 10

// PostInput is the validated payload shared by create and update.
type PostInput struct {
	Title       string
	Content     string
	RawSlug     string
	Tags        []string
	IsPublished bool
	IsPinned    bool
}

// PostService executes the transactional post mutations. Slug uniqueness and
// the single-pinned invariant are enforced inside each call's transaction;
// concurrency safety is delegated to the database.
type PostService struct {
	db    *gorm.DB
	files *utils.FileStore
}

// NewPostService creates a PostService backed by db and the local file store.
func NewPostService(db *gorm.DB, files *utils.FileStore) *PostService {
	return &PostService{db: db, files: files}
}

// ensureUniqueSlug probes base, base-2, base-3, ... until a slug is free or
// owned by excludedID. Must run inside the caller's write transaction so the
// check-then-insert cannot race another create.
func ensureUniqueSlug(tx *gorm.DB, baseSlug string, excludedID uint) (string, error) {
	initial := baseSlug
	if initial == "" {
		initial = utils.SlugFallback
	}
	slug := initial
	for suffix := 2; ; suffix++ {
		var existing models.Post
		err := tx.Select("id").Where("slug = ?", slug).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		if excludedID != 0 && existing.ID == excludedID {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", initial, suffix)
	}
}

// unpinOthers clears is_pinned on every post except keepID.
func unpinOthers(tx *gorm.DB, keepID uint) error {
	return tx.Model(&models.Post{}).
		Where("id <> ? AND is_pinned = ?", keepID, true).
		Update("is_pinned", false).Error
}

func normalizeInput(in *PostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.RawSlug = strings.TrimSpace(in.RawSlug)
	if in.Title == "" || in.Content == "" || in.RawSlug == "" {
		return validation("Title, slug and content are required.")
	}
	return nil
}

// Create inserts a new post. A published post gets publishedAt = now; pinning
// it unpins every other post in the same transaction.
func (s *PostService) Create(in PostInput) (*models.Post, error) {
	if err := normalizeInput(&in); err != nil {
		return nil, err
	}
	baseSlug := utils.Slugify(in.RawSlug)

	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := ensureUniqueSlug(tx, baseSlug, 0)
		if err != nil {
			return err
		}

		post = models.Post{
			Title:       in.Title,
			Slug:        slug,
			Content:     in.Content,
			Tags:        in.Tags,
			IsPublished: in.IsPublished,
			IsPinned:    in.IsPinned,
		}
		if in.IsPublished {
			now := time.Now()
			post.PublishedAt = &now
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if post.IsPinned {
			return unpinOthers(tx, post.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update rewrites a post. The slug probe excludes the post's own id so it may
// keep its current slug. publishedAt latches on the first publish and is never
// cleared by unpublishing.
func (s *PostService) Update(id uint, in PostInput) (*models.Post, error) {
	if err := normalizeInput(&in); err != nil {
		return nil, err
	}
	baseSlug := utils.Slugify(in.RawSlug)

	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		slug, err := ensureUniqueSlug(tx, baseSlug, id)
		if err != nil {
			return err
		}

		post.Title = in.Title
		post.Slug = slug
		post.Content = in.Content
		post.Tags = in.Tags
		post.IsPublished = in.IsPublished
		post.IsPinned = in.IsPinned
		if in.IsPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		if post.IsPinned {
			return unpinOthers(tx, post.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Publish flips a post to published, setting publishedAt only if unset.
func (s *PostService) Publish(id uint) (*models.Post, error) {
	return s.setPublished(id, true)
}

// Unpublish flips a post back to draft. publishedAt keeps the historical
// first-publish time.
func (s *PostService) Unpublish(id uint) (*models.Post, error) {
	return s.setPublished(id, false)
}

func (s *PostService) setPublished(id uint, published bool) (*models.Post, error) {
	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		post.IsPublished = published
		if published && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SetCover points a post's cover at one of its own attachments, or clears it
// when attachmentID is nil. A foreign attachment is reported as not found.
func (s *PostService) SetCover(id uint, attachmentID *uint) (*models.Post, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if attachmentID == nil {
			return tx.Model(&models.Post{ID: id}).Update("cover_attachment_id", nil).Error
		}

		var attachment models.Attachment
		if err := tx.Select("id, post_id").First(&attachment, *attachmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if attachment.PostID != id {
			return ErrNotFound
		}
		return tx.Model(&models.Post{ID: id}).Update("cover_attachment_id", *attachmentID).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes the post row and its attachment rows in one transaction,
// then best-effort deletes the on-disk files. File errors are logged, never
// surfaced: the committed row deletion is the authoritative outcome.
func (s *PostService) Delete(id uint) error {
	var attachments []models.Attachment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("post_id = ?", id).Find(&attachments).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}

	for _, attachment := range attachments {
		if err := s.files.DeleteByURL(attachment.URL); err != nil {
			utils.Sugar.Warnf("failed to delete file for attachment %d: %v", attachment.ID, err)
		}
	}
	return nil
}

// Get returns a post with its cover and attachments (newest first).
func (s *PostService) Get(id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.
		Preload("CoverAttachment").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// AdminPage is one page of the admin post listing.
type AdminPage struct {
	Items      []models.Post `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"totalPages"`
}

// List pages through all posts for the admin area, optionally filtered by
// publication status ("published" / "draft", anything else means all).
// Pinned posts sort first, then newest created.
func (s *PostService) List(status string, page int) (*AdminPage, error) {
	if page < 1 {
		page = 1
	}

	query := func() *gorm.DB {
		q := s.db.Model(&models.Post{})
		switch status {
		case "published":
			q = q.Where("is_published = ?", true)
		case "draft":
			q = q.Where("is_published = ?", false)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	err := query().
		Order("is_pinned DESC, created_at DESC").
		Offset((page - 1) * AdminPageSize).
		Limit(AdminPageSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	if err := s.fillAttachmentCounts(posts); err != nil {
		return nil, err
	}

	return &AdminPage{
		Items:      posts,
		Page:       page,
		PageSize:   AdminPageSize,
		Total:      total,
		TotalPages: totalPages(total, AdminPageSize),
	}, nil
}

func (s *PostService) fillAttachmentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	type row struct {
		PostID uint
		N      int64
	}
	var rows []row
	err := s.db.Model(&models.Attachment{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.N
	}
	for i := range posts {
		n := counts[posts[i].ID]
		posts[i].AttachmentCount = &n
	}
	return nil
}

func totalPages(total int64, pageSize int) int {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}
