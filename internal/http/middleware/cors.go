package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS lets the portal frontend trigger downloads from the browser. Exports
// are GET-only, so only the simple methods are allowed.
func CORS() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type")
		ctx.Header("Access-Control-Expose-Headers", "Content-Disposition, Content-Length")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
