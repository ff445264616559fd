package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yardanz/tutor-site/utils"
)

// SessionCookieName carries the signed admin session token.
const SessionCookieName = "admin_token"

const (
	// ContextAdminIDKey is the key used to store the authenticated admin ID in Gin context.
	ContextAdminIDKey = "admin_id"
	// ContextAdminEmailKey stores the admin email inside Gin context.
	ContextAdminEmailKey = "admin_email"
)

// AdminRequired gates every admin-prefixed route behind the session cookie.
// API requests get a 401 JSON body; UI page requests are redirected to the
// login page with the original path preserved in ?next=.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(SessionCookieName)
		if err != nil || token == "" {
			reject(ctx)
			return
		}

		claims, err := utils.ParseSessionToken(token)
		if err != nil {
			reject(ctx)
			return
		}

		ctx.Set(ContextAdminIDKey, claims.AdminID)
		ctx.Set(ContextAdminEmailKey, claims.Email)
		ctx.Next()
	}
}

func reject(ctx *gin.Context) {
	path := ctx.Request.URL.Path
	if strings.HasPrefix(path, "/api/") {
		utils.JSONError(ctx, http.StatusUnauthorized, "Authentication required.")
		ctx.Abort()
		return
	}
	ctx.Redirect(http.StatusFound, "/admin/login?next="+url.QueryEscape(path))
	ctx.Abort()
}

// AdminID returns the authenticated admin's id from the request context.
func AdminID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextAdminIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
