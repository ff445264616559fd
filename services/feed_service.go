package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Yardanz/tutor-site/models"
)

// PublicPageSize is the page size of the public feed.
const PublicPageSize = 10

// FeedPage is one page of the public feed. Pinned is independent of
// pagination and never counted toward total/totalPages.
type FeedPage struct {
	Pinned     *models.Post  `json:"pinned"`
	Items      []models.Post `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"totalPages"`
}

// FeedService assembles the read-only public views of published posts.
type FeedService struct {
	db *gorm.DB
}

// NewFeedService creates a FeedService backed by db.
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// feedOrder is the load-bearing sort key of the public feed: publication
// recency (created time standing in for never-published rows), creation time
// as tiebreak.
const feedOrder = "COALESCE(published_at, created_at) DESC, created_at DESC"

func withAttachments(db *gorm.DB) *gorm.DB {
	return db.
		Preload("CoverAttachment").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

// tagFilter matches against the JSON-encoded tags column; the quoted pattern
// makes it an exact tag match, not a substring one. LIKE wildcards inside the
// tag value are escaped so they match literally. "|" is the escape character
// because a backslash literal is parsed differently by MySQL and sqlite.
func tagFilter(db *gorm.DB, tag string) *gorm.DB {
	if tag == "" {
		return db
	}
	return db.Where("tags LIKE ? ESCAPE '|'", `%"`+escapeLike(tag)+`"%`)
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "|", "||")
	s = strings.ReplaceAll(s, "%", "|%")
	s = strings.ReplaceAll(s, "_", "|_")
	return s
}

// ListPublished returns the pinned post (if any) plus one page of published,
// unpinned posts, optionally filtered by tag.
func (s *FeedService) ListPublished(page int, tag string) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}

	var pinned *models.Post
	{
		var post models.Post
		q := tagFilter(s.db.Where("is_published = ? AND is_pinned = ?", true, true), tag)
		err := withAttachments(q).Order(feedOrder).First(&post).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil {
			pinned = &post
		}
	}

	// Fresh query per finisher; gorm statements are not reusable across finishers.
	normal := func() *gorm.DB {
		return tagFilter(s.db.Model(&models.Post{}).Where("is_published = ? AND is_pinned = ?", true, false), tag)
	}

	var total int64
	if err := normal().Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Post
	err := withAttachments(normal()).
		Order(feedOrder).
		Offset((page - 1) * PublicPageSize).
		Limit(PublicPageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &FeedPage{
		Pinned:     pinned,
		Items:      items,
		Page:       page,
		PageSize:   PublicPageSize,
		Total:      total,
		TotalPages: totalPages(total, PublicPageSize),
	}, nil
}

// GetBySlug returns a published post by slug. Drafts are invisible here
// regardless of slug match.
func (s *FeedService) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := withAttachments(s.db.Where("slug = ? AND is_published = ?", slug, true)).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
