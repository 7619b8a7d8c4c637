package upload

import "github.com/civicstack/mediavault/internal/server/store"

type InitiateRequest struct {
	Filename  string `json:"filename" binding:"required"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size" binding:"required,min=1"`
	PartSize  int64  `json:"partSize"`
	KeyPrefix string `json:"keyPrefix"`
	Presigned bool   `json:"presigned"`
}

type InitiateResponse struct {
	SessionID  string         `json:"sessionId"`
	ObjectKey  string         `json:"objectKey"`
	PartSize   int64          `json:"partSize"`
	TotalParts int            `json:"totalParts"`
	PartURLs   map[int]string `json:"partUrls,omitempty"`
}

type PartRequest struct {
	SessionID  string `form:"sessionId" binding:"required"`
	PartNumber int    `form:"partNumber" binding:"required,min=1"`
}

// PartAckRequest reports a part that was PUT straight to the store through a
// presigned URL, carrying the ETag the store assigned.
type PartAckRequest struct {
	SessionID  string `json:"sessionId" binding:"required"`
	PartNumber int    `json:"partNumber" binding:"required,min=1"`
	ETag       string `json:"etag" binding:"required"`
	Size       int64  `json:"size" binding:"required,min=1"`
}

type PartResponse struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
}

type CompleteRequest struct {
	SessionID string                 `json:"sessionId" binding:"required"`
	Parts     []*store.CompletedPart `json:"parts" binding:"required,min=1"`
}

type AbortRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// UploadResponse carries the canonical completed-upload tuple back to the
// caller for both the direct and multipart paths.
type UploadResponse struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	ETag     string `json:"etag"`
}

type MediaListRequest struct {
	Prefix string `form:"prefix"`
	Mime   string `form:"mime"`
	Limit  int    `form:"limit"`
}
