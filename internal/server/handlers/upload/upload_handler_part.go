package upload

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicstack/mediavault/internal/server/handlers/api"
)

// UploadPart accepts one part's raw bytes (proxy variant) and returns the
// store-assigned ETag. The core does not retry a failed part; the caller
// decides between retrying this call and aborting the session.
func (h *UploadHandler) UploadPart(ctx *gin.Context) {
	var req PartRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("failed to bind query: %w", err))
		return
	}

	size := ctx.Request.ContentLength
	if size <= 0 {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("content-length required"))
		return
	}

	receipt, err := h.sessions.AcknowledgePart(ctx.Request.Context(), req.SessionID, req.PartNumber, ctx.Request.Body, size)
	if err != nil {
		abortWithSessionError(ctx, err)
		return
	}

	ctx.PureJSON(http.StatusOK, &PartResponse{
		PartNumber: receipt.PartNumber,
		ETag:       receipt.ETag,
	})
}

// AckPart registers a part uploaded through a presigned URL, so the session
// keeps the same per-part bookkeeping as the proxy variant.
func (h *UploadHandler) AckPart(ctx *gin.Context) {
	var req PartAckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("failed to bind request: %w", err))
		return
	}

	if err := h.sessions.RecordPart(req.SessionID, req.PartNumber, req.ETag, req.Size); err != nil {
		abortWithSessionError(ctx, err)
		return
	}

	ctx.PureJSON(http.StatusOK, &PartResponse{
		PartNumber: req.PartNumber,
		ETag:       req.ETag,
	})
}
