package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicstack/mediavault/internal/server/handlers/api"
	"github.com/civicstack/mediavault/internal/server/library"
	"github.com/civicstack/mediavault/internal/server/session"
	"github.com/civicstack/mediavault/internal/server/store"
)

type UploadHandler struct {
	sessions *session.Manager
	store    store.ObjectStore
	library  *library.Library
}

func New(sessions *session.Manager, objStore store.ObjectStore, lib *library.Library) *UploadHandler {
	return &UploadHandler{
		sessions: sessions,
		store:    objStore,
		library:  lib,
	}
}

// abortWithSessionError maps session manager errors onto HTTP statuses and
// stable error codes.
func abortWithSessionError(ctx *gin.Context, err error) {
	var partErr *session.PartError

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		api.AbortWithError(ctx, http.StatusNotFound, api.CodeSessionNotFound, err)
	case errors.Is(err, session.ErrSessionClosed):
		api.AbortWithError(ctx, http.StatusConflict, api.CodeSessionClosed, err)
	case errors.Is(err, session.ErrPartOutOfRange), errors.Is(err, session.ErrPartMismatch):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodePartOutOfRange, err)
	case errors.Is(err, session.ErrIncompletePartSet):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeIncompletePartSet, err)
	case errors.Is(err, store.ErrPartTooSmall):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodePartTooSmall, err)
	case errors.Is(err, store.ErrInvalidKey):
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeKeyInvalid, err)
	case errors.Is(err, session.ErrInitiationFailed):
		api.AbortWithError(ctx, http.StatusBadGateway, api.CodeUploadFailed, err)
	case errors.Is(err, session.ErrCompletionFailed):
		api.AbortWithError(ctx, http.StatusBadGateway, api.CodeCompletionFailed, err)
	case errors.As(err, &partErr):
		api.AbortWithError(ctx, http.StatusBadGateway, api.CodePartUploadFailed, err)
	default:
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeInternalError, err)
	}
}
