package api

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error

	// Upload errors
	CodeUploadFailed      = "E_UPLOAD_FAILED"       // a failure while writing an object to the store
	CodeSessionNotFound   = "E_SESSION_NOT_FOUND"   // the upload session is unknown or already released
	CodeSessionClosed     = "E_SESSION_CLOSED"      // the session reached a terminal status and accepts no parts
	CodePartOutOfRange    = "E_PART_OUT_OF_RANGE"   // part number outside [1, totalParts]
	CodePartUploadFailed  = "E_PART_UPLOAD_FAILED"  // a single part failed at the store
	CodeIncompletePartSet = "E_INCOMPLETE_PART_SET" // completion attempted with missing or duplicate parts
	CodePartTooSmall      = "E_PART_TOO_SMALL"      // a non-final part is below the store's minimum size
	CodeCompletionFailed  = "E_COMPLETION_FAILED"   // the store rejected the merge
	CodeKeyInvalid        = "E_STORE_KEY_INVALID"   // the object key is malformed

	// Media library errors
	CodeMediaListFailed = "E_MEDIA_LIST_FAILED" // a failure while listing library entries
)
