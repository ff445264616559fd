package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Yardanz/tutor-site/services"
	"github.com/Yardanz/tutor-site/utils"
)

// publicCachePrefix groups every cached public response; any admin mutation
// invalidates the whole prefix.
const publicCachePrefix = "cache:public:"

// PostController exposes the admin CRUD surface for posts.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// postRequest is the JSON body shared by create and update. Tags arrive as a
// comma separated string; booleans are coerced by JSON decoding.
type postRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	Tags        string `json:"tags"`
	IsPublished bool   `json:"isPublished"`
	IsPinned    bool   `json:"isPinned"`
}

func (r postRequest) toInput() services.PostInput {
	return services.PostInput{
		Title:       r.Title,
		Content:     r.Content,
		RawSlug:     r.Slug,
		Tags:        utils.ParseTags(r.Tags),
		IsPublished: r.IsPublished,
		IsPinned:    r.IsPinned,
	}
}

// List pages through all posts, filtered by ?status=all|published|draft.
func (p *PostController) List(ctx *gin.Context) {
	page := parsePage(ctx.Query("page"))
	result, err := p.posts.List(ctx.Query("status"), page)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Create inserts a new post (draft or published).
func (p *PostController) Create(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	post, err := p.posts.Create(req.toInput())
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(publicCachePrefix)
	ctx.JSON(http.StatusCreated, gin.H{"item": post})
}

// Get returns the full post with cover and attachments for the editor.
func (p *PostController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	post, err := p.posts.Get(id)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"item": post})
}

// Update rewrites a post with the same validation as Create.
func (p *PostController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	post, err := p.posts.Update(id, req.toInput())
	if err != nil {
		serviceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(publicCachePrefix)
	ctx.JSON(http.StatusOK, gin.H{"item": post})
}

// Delete removes a post, its attachment rows, and best-effort their files.
func (p *PostController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := p.posts.Delete(id); err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(publicCachePrefix)
	utils.JSONOK(ctx)
}

// Publish transitions a post into the published state.
func (p *PostController) Publish(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	post, err := p.posts.Publish(id)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(publicCachePrefix)
	ctx.JSON(http.StatusOK, gin.H{"item": post, "message": "Post published."})
}

// Unpublish transitions a post back to draft, mirroring Publish's contract.
func (p *PostController) Unpublish(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	post, err := p.posts.Unpublish(id)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(publicCachePrefix)
	ctx.JSON(http.StatusOK, gin.H{"item": post, "message": "Post unpublished."})
}

// SetCover points the post's cover at one of its attachments, or clears it.
func (p *PostController) SetCover(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req struct {
		AttachmentID interface{} `json:"attachmentId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	attachmentID, valid := coerceAttachmentID(req.AttachmentID)
	if !valid {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid attachment id.")
		return
	}

	post, err := p.posts.SetCover(id, attachmentID)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(publicCachePrefix)
	ctx.JSON(http.StatusOK, gin.H{"item": post})
}

// coerceAttachmentID accepts null, a JSON number, or a numeric string, and
// requires a finite positive integer otherwise.
func coerceAttachmentID(raw interface{}) (*uint, bool) {
	if raw == nil {
		return nil, true
	}
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		n = parsed
	default:
		return nil, false
	}
	if n <= 0 || n != float64(uint(n)) {
		return nil, false
	}
	id := uint(n)
	return &id, true
}

// parseID reads the :id path param as a positive integer, responding 400 otherwise.
func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// serviceError maps service errors onto the API's status taxonomy.
func serviceError(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		utils.JSONError(ctx, http.StatusNotFound, "Not found.")
		return
	}
	if ve, ok := services.AsValidation(err); ok {
		utils.JSONError(ctx, http.StatusBadRequest, ve.Message)
		return
	}
	if errors.Is(err, services.ErrFileTooLarge) {
		utils.JSONError(ctx, http.StatusRequestEntityTooLarge, "File exceeds 50 MB.")
		return
	}
	utils.Sugar.Errorf("unhandled service error: %v", err)
	utils.JSONError(ctx, http.StatusInternalServerError, "Internal server error.")
}
