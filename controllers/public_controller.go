package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yardanz/tutor-site/services"
	"github.com/Yardanz/tutor-site/utils"
)

// PublicController serves the read-only feed of published posts.
type PublicController struct {
	feed *services.FeedService
}

// NewPublicController creates a new PublicController instance.
func NewPublicController(feed *services.FeedService) *PublicController {
	return &PublicController{feed: feed}
}

// Feed returns one page of published posts plus the pinned post.
func (p *PublicController) Feed(ctx *gin.Context) {
	page := parsePage(ctx.Query("page"))
	tag := strings.TrimSpace(ctx.Query("tag"))

	cacheKey := fmt.Sprintf("%sposts:page=%d:tag=%s", publicCachePrefix, page, tag)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	result, err := p.feed.ListPublished(page, tag)
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.CacheSetJSON(cacheKey, result, time.Hour)
	ctx.JSON(http.StatusOK, result)
}

// GetBySlug returns one published post with its markdown rendered to HTML.
func (p *PublicController) GetBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")

	cacheKey := publicCachePrefix + "post:" + slug
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	post, err := p.feed.GetBySlug(slug)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	post.HTML = utils.RenderMarkdown(post.Content)

	payload := gin.H{"item": post}
	utils.CacheSetJSON(cacheKey, payload, time.Hour)
	ctx.JSON(http.StatusOK, payload)
}
