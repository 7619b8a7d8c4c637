package upload

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicstack/mediavault/internal/server/handlers/api"
)

// Complete merges all acknowledged parts into one durable object and returns
// the canonical result tuple. Completion with missing parts fails before any
// store call.
func (h *UploadHandler) Complete(ctx *gin.Context) {
	var req CompleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("failed to bind json: %w", err))
		return
	}

	completed, err := h.sessions.Complete(ctx.Request.Context(), req.SessionID, req.Parts)
	if err != nil {
		abortWithSessionError(ctx, err)
		return
	}

	h.recordUpload(completed)

	ctx.PureJSON(http.StatusOK, &UploadResponse{
		URL:      completed.URL,
		Key:      completed.Key,
		Filename: completed.Filename,
		MimeType: completed.MimeType,
		Size:     completed.Size,
		ETag:     completed.ETag,
	})
}
