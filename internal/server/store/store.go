package store

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the operations the upload orchestrator needs from a
// durable binary object store. It covers the single-request direct path,
// the multipart session lifecycle (create, part upload, complete, abort)
// in both proxy and presigned variants, and object management.
// Implemented by S3Store; fakes implement it in tests.
type ObjectStore interface {
	// PutObject uploads a whole object in one call (direct path)
	PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResult, error)

	// CreateMultipart opens a multipart session and returns the store upload id
	CreateMultipart(ctx context.Context, key string) (string, error)

	// UploadPart uploads one part's bytes through the server (proxy variant)
	UploadPart(ctx context.Context, params *UploadPartParams) (string, error)

	// PresignPart generates a time-bounded URL for a direct-to-store part PUT
	PresignPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error)

	// CompleteMultipart merges acknowledged parts into one durable object
	CompleteMultipart(ctx context.Context, params *CompleteMultipartParams) (*PutObjectResult, error)

	// AbortMultipart releases the session and any already-stored parts
	AbortMultipart(ctx context.Context, key, uploadID string) error

	// DeleteObject removes an object from storage
	DeleteObject(ctx context.Context, key string) error

	// PresignGet generates a presigned URL for downloading an object
	PresignGet(ctx context.Context, key string) (string, error)

	// ObjectURL builds the public URL for a stored object key
	ObjectURL(key string) string
}

// ===================================================================================================

type PutObjectParams struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

type PutObjectResult struct {
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
}

// ===================================================================================================

type UploadPartParams struct {
	Key        string
	UploadID   string
	PartNumber int32
	Size       int64
	Body       io.Reader
}

type CompletedPart struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
}

type CompleteMultipartParams struct {
	Key      string
	UploadID string
	Size     int64
	Parts    []*CompletedPart
}
