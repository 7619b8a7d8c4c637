package upload

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicstack/mediavault/internal/server/handlers/api"
)

// Abort releases a session and its store-side partial data. Aborting an
// unknown or already-terminal session responds OK, so retries and races with
// expiry stay harmless.
func (h *UploadHandler) Abort(ctx *gin.Context) {
	var req AbortRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("failed to bind json: %w", err))
		return
	}

	if err := h.sessions.Abort(ctx.Request.Context(), req.SessionID); err != nil {
		abortWithSessionError(ctx, err)
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{
		"aborted": true,
	})
}
