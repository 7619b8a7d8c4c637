package uploader

import (
	"errors"
	"fmt"
)

// RejectReason classifies a pre-flight validation rejection.
type RejectReason string

const (
	RejectUnsupportedType RejectReason = "UnsupportedType"
	RejectTooLarge        RejectReason = "TooLarge"
	RejectTooManyFiles    RejectReason = "TooManyFiles"
)

// ValidationError is returned before any network call is made.
type ValidationError struct {
	Reason  RejectReason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("upload rejected (%s): %s", e.Reason, e.Message)
}

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerRejectedError carries a non-2xx response with the server's code and
// message.
type ServerRejectedError struct {
	Op      string
	Status  int
	Code    string
	Message string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("server rejected %s: %s - %s", e.Op, e.Code, e.Message)
}

// ProtocolError marks a malformed or unexpected response shape.
type ProtocolError struct {
	Op      string
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s: %s", e.Op, e.Message)
}

// PartUploadError identifies the failing part. The driver does not retry; the
// session is aborted and the caller may re-run the whole upload.
type PartUploadError struct {
	PartNumber int
	Err        error
}

func (e *PartUploadError) Error() string {
	return fmt.Sprintf("part %d upload failed: %v", e.PartNumber, e.Err)
}

func (e *PartUploadError) Unwrap() error {
	return e.Err
}

var ErrFileNotFound = errors.New("uploader: file not found")

// server error codes surfaced as distinct conditions
const (
	codeIncompletePartSet = "E_INCOMPLETE_PART_SET"
	codePartTooSmall      = "E_PART_TOO_SMALL"
	codeCompletionFailed  = "E_COMPLETION_FAILED"
)

// IsPartTooSmall reports whether the server rejected completion because a
// non-final part was below the store's minimum size.
func IsPartTooSmall(err error) bool {
	var srvErr *ServerRejectedError
	return errors.As(err, &srvErr) && srvErr.Code == codePartTooSmall
}

// IsIncompletePartSet reports whether completion was attempted with a missing
// or duplicate part.
func IsIncompletePartSet(err error) bool {
	var srvErr *ServerRejectedError
	return errors.As(err, &srvErr) && srvErr.Code == codeIncompletePartSet
}
