package upload

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicstack/mediavault/internal/server/handlers/api"
	"github.com/civicstack/mediavault/internal/server/session"
	"github.com/civicstack/mediavault/internal/server/store"
	"github.com/civicstack/mediavault/internal/utils"
)

// UploadDirect handles the single-request path: one multipart/form-data body
// carrying the whole file, written to the store synchronously.
func (h *UploadHandler) UploadDirect(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid file: %w", err))
		return
	}

	if file.Size <= 0 {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid file: size is 0"))
		return
	}

	key := store.NewObjectKey(ctx.PostForm("keyPrefix"), file.Filename)

	mimeType := ctx.PostForm("mimeType")
	if mimeType == "" {
		mimeType = file.Header.Get("Content-Type")
	}
	if mimeType == "" {
		mimeType = utils.DetectContentType(file.Filename)
	}

	fd, err := file.Open()
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid file: %w", err))
		return
	}
	defer fd.Close()

	result, err := h.store.PutObject(ctx.Request.Context(), &store.PutObjectParams{
		Key:         key,
		ContentType: mimeType,
		Size:        file.Size,
		Body:        fd,
	})
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadGateway, api.CodeUploadFailed, fmt.Errorf("failed to put object: %w", err))
		return
	}

	completed := &session.CompletedUpload{
		URL:      h.store.ObjectURL(result.Key),
		Key:      result.Key,
		Filename: file.Filename,
		MimeType: mimeType,
		Size:     result.Size,
		ETag:     result.ETag,
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

// recordUpload persists the result tuple into the media library. Failure to
// index never fails the upload itself.
func (h *UploadHandler) recordUpload(completed *session.CompletedUpload) {
	if h.library == nil {
		return
	}
	if err := h.library.Record(completed); err != nil {
		slog.Error("record upload", "key", completed.Key, "error", err)
	}
}
