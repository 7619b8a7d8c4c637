package session

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("upload session not found")

	// ErrSessionClosed rejects part submissions after a session has reached a
	// terminal status (completed or aborted).
	ErrSessionClosed = errors.New("upload session closed")

	ErrPartOutOfRange = errors.New("part number out of range")

	// ErrPartMismatch rejects a duplicate part submission whose size differs
	// from the one already acknowledged.
	ErrPartMismatch = errors.New("duplicate part with mismatched size")

	// ErrIncompletePartSet rejects completion when the submitted parts do not
	// cover [1, totalParts] contiguously. The store merge is never called.
	ErrIncompletePartSet = errors.New("incomplete part set")

	ErrInitiationFailed = errors.New("upload initiation failed")

	ErrCompletionFailed = errors.New("upload completion failed")
)

// PartError carries the failing part number so the caller can decide whether
// to retry that one part or abort the whole session.
type PartError struct {
	PartNumber int
	Err        error
}

func (e *PartError) Error() string {
	return fmt.Sprintf("part %d upload failed: %v", e.PartNumber, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}
