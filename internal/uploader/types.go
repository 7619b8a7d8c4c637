package uploader

// UploadParams describes one upload attempt.
type UploadParams struct {
	FilePath string
	// MimeType declared by the caller; detected from the extension when empty
	MimeType string
	Policy   *Policy
	// CurrentFileCount is how many files the surrounding form already holds,
	// checked against Policy.MaxFileCount before any network call
	CurrentFileCount int
	// Concurrency bounds parallel part submission; <=1 keeps the sequential
	// driver
	Concurrency int
	OnProgress  ProgressCallback
}

// CompletedUpload is the canonical result tuple. The core hands it back and
// has no opinion on what downstream row it attaches to.
type CompletedUpload struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	ETag     string `json:"etag"`
}

// ===================================================================================================
// wire types, mirroring the server handlers

type initiateRequest struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
	PartSize  int64  `json:"partSize"`
	KeyPrefix string `json:"keyPrefix"`
	Presigned bool   `json:"presigned"`
}

type initiateResponse struct {
	SessionID  string         `json:"sessionId"`
	ObjectKey  string         `json:"objectKey"`
	PartSize   int64          `json:"partSize"`
	TotalParts int            `json:"totalParts"`
	PartURLs   map[int]string `json:"partUrls,omitempty"`
}

type partResponse struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
}

type partAckRequest struct {
	SessionID  string `json:"sessionId"`
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
	Size       int64  `json:"size"`
}

type completedPart struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
}

type completeRequest struct {
	SessionID string           `json:"sessionId"`
	Parts     []*completedPart `json:"parts"`
}

type abortRequest struct {
	SessionID string `json:"sessionId"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}
