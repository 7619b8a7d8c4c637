package upload

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicstack/mediavault/internal/server/handlers/api"
	"github.com/civicstack/mediavault/internal/server/session"
	"github.com/civicstack/mediavault/internal/utils"
)

// Initiate opens a multipart session: reserves a session id and destination
// key, computes the part plan and optionally presigns one URL per part.
func (h *UploadHandler) Initiate(ctx *gin.Context) {
	var req InitiateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("failed to bind json: %w", err))
		return
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = utils.DetectContentType(req.Filename)
	}

	result, err := h.sessions.Initiate(ctx.Request.Context(), &session.InitiateParams{
		Filename:  req.Filename,
		MimeType:  mimeType,
		Size:      req.Size,
		PartSize:  req.PartSize,
		KeyPrefix: req.KeyPrefix,
		Presigned: req.Presigned,
	})
	if err != nil {
		abortWithSessionError(ctx, err)
		return
	}

	ctx.PureJSON(http.StatusOK, &InitiateResponse{
		SessionID:  result.SessionID,
		ObjectKey:  result.ObjectKey,
		PartSize:   result.PartSize,
		TotalParts: result.TotalParts,
		PartURLs:   result.PartURLs,
	})
}
