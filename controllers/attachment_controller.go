package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yardanz/tutor-site/models"
	"github.com/Yardanz/tutor-site/services"
	"github.com/Yardanz/tutor-site/utils"
)

// AttachmentController handles file uploads and attachment deletion.
type AttachmentController struct {
	attachments *services.AttachmentService
}

// NewAttachmentController creates a new AttachmentController instance.
func NewAttachmentController(attachments *services.AttachmentService) *AttachmentController {
	return &AttachmentController{attachments: attachments}
}

// Upload stores every file from the multipart fields "files" and "file"
// against the post. Files are separate subsequent calls to post creation by
// design; a post with zero attachments is a valid state.
func (a *AttachmentController) Upload(ctx *gin.Context) {
	postID, ok := parseID(ctx)
	if !ok {
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "No files provided.")
		return
	}

	var files []*multipart.FileHeader
	for _, header := range append(form.File["files"], form.File["file"]...) {
		if header.Size > 0 {
			files = append(files, header)
		}
	}
	if len(files) == 0 {
		utils.JSONError(ctx, http.StatusBadRequest, "No files provided.")
		return
	}

	// Reject the whole batch before storing anything.
	for _, header := range files {
		if header.Size > services.MaxUploadBytes {
			utils.JSONError(ctx, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File %q exceeds 50 MB.", header.Filename))
			return
		}
	}

	created := make([]*models.Attachment, 0, len(files))
	for _, header := range files {
		data, err := readUpload(header)
		if err != nil {
			if errors.Is(err, services.ErrFileTooLarge) {
				serviceError(ctx, err)
				return
			}
			utils.Sugar.Errorf("reading upload %q failed: %v", header.Filename, err)
			utils.JSONError(ctx, http.StatusInternalServerError, "Failed to read uploaded file.")
			return
		}

		attachment, err := a.attachments.Attach(postID, header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			serviceError(ctx, err)
			return
		}
		created = append(created, attachment)
	}

	utils.InvalidateByPrefix(publicCachePrefix)
	ctx.JSON(http.StatusCreated, gin.H{"items": created})
}

// readUpload buffers one uploaded file, re-enforcing the size ceiling while
// reading since the multipart header size is client-supplied.
func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lr := &io.LimitedReader{R: file, N: services.MaxUploadBytes + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > services.MaxUploadBytes {
		return nil, services.ErrFileTooLarge
	}
	return data, nil
}

// Delete removes one attachment row and best-effort its on-disk file.
func (a *AttachmentController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := a.attachments.Delete(id); err != nil {
		serviceError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(publicCachePrefix)
	utils.JSONOK(ctx)
}
