package upload

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicstack/mediavault/internal/server/handlers/api"
	"github.com/civicstack/mediavault/internal/server/library"
)

// ListMedia serves the admin media library listing.
func (h *UploadHandler) ListMedia(ctx *gin.Context) {
	var req MediaListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("failed to bind query: %w", err))
		return
	}

	items, err := h.library.List(&library.Filter{
		Prefix:   req.Prefix,
		MimeType: req.Mime,
		Limit:    req.Limit,
	})
	if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeMediaListFailed, err)
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{
		"media": items,
	})
}

// DeleteMedia removes an object from the store and the library.
func (h *UploadHandler) DeleteMedia(ctx *gin.Context) {
	key := ctx.Query("key")
	if key == "" {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("key required"))
		return
	}

	if err := h.store.DeleteObject(ctx.Request.Context(), key); err != nil {
		api.AbortWithError(ctx, http.StatusBadGateway, api.CodeUploadFailed, fmt.Errorf("failed to delete object: %w", err))
		return
	}

	if err := h.library.Remove(key); err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeInternalError, err)
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{
		"deleted": key,
	})
}
