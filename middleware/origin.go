package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yardanz/tutor-site/utils"
)

var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// SameOriginRequired rejects state-changing requests whose Origin header does
// not match the request's own scheme+host. The expected origin is derived from
// the Host header and the trusted X-Forwarded-Proto header. Requests without
// an Origin header pass; browsers send one on all cross-site unsafe requests,
// which is the attack this defends a cookie-authenticated panel against.
func SameOriginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if safeMethods[ctx.Request.Method] {
			ctx.Next()
			return
		}

		origin := ctx.GetHeader("Origin")
		if origin == "" {
			ctx.Next()
			return
		}

		host := ctx.Request.Host
		if host == "" {
			utils.JSONError(ctx, http.StatusForbidden, "Invalid request origin.")
			ctx.Abort()
			return
		}

		proto := ctx.GetHeader("X-Forwarded-Proto")
		if proto == "" {
			proto = "http"
		}
		if origin != proto+"://"+host {
			utils.JSONError(ctx, http.StatusForbidden, "Invalid request origin.")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
