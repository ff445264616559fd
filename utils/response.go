package utils

import "github.com/gin-gonic/gin"

// JSONError writes the stable error body shape shared by every API endpoint.
func JSONError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// JSONOK writes the bare acknowledgement body used by login/logout/deletes.
func JSONOK(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"ok": true})
}
