package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicstack/mediavault/internal/server/handlers/api"
)

// BodyLimit rejects request bodies over maxBytes. Declared lengths fail fast;
// chunked bodies are cut off by MaxBytesReader mid-read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > maxBytes {
			api.AbortWithError(ctx, http.StatusRequestEntityTooLarge, api.CodeInvalidRequest,
				fmt.Errorf("request body exceeds %d bytes", maxBytes))
			return
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
		ctx.Next()
	}
}
