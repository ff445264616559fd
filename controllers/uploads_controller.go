package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yardanz/tutor-site/utils"
)

// UploadsController serves stored files from the local uploads directory.
type UploadsController struct {
	files *utils.FileStore
}

// NewUploadsController creates a new UploadsController instance.
func NewUploadsController(files *utils.FileStore) *UploadsController {
	return &UploadsController{files: files}
}

// Serve returns the file behind /uploads/*path. Each path segment is stripped
// of separators, the resolved absolute path must stay inside the uploads root,
// and the content type comes from the fixed extension table, never from the
// client. Stored names are immutable, so responses are cacheable forever.
func (u *UploadsController) Serve(ctx *gin.Context) {
	raw := strings.TrimPrefix(ctx.Param("path"), "/")
	var parts []string
	for _, part := range strings.Split(raw, "/") {
		part = strings.ReplaceAll(part, "\\", "")
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		ctx.String(http.StatusNotFound, "Not Found")
		return
	}

	abs, ok := u.files.ResolveWithin(strings.Join(parts, "/"))
	if !ok {
		ctx.String(http.StatusForbidden, "Forbidden")
		return
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		ctx.String(http.StatusNotFound, "Not Found")
		return
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		ctx.String(http.StatusNotFound, "Not Found")
		return
	}

	ctx.Header("Cache-Control", "public, max-age=31536000, immutable")
	ctx.Data(http.StatusOK, utils.ContentTypeByExt(filepath.Ext(abs)), data)
}
