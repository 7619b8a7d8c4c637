package session

import (
	"sync"
	"time"
)

// Status tracks the lifecycle of one multipart session.
// initiated -> uploading -> completing -> completed
// initiated|uploading -> aborting -> aborted
type Status string

const (
	StatusInitiated  Status = "initiated"
	StatusUploading  Status = "uploading"
	StatusCompleting Status = "completing"
	StatusCompleted  Status = "completed"
	StatusAborting   Status = "aborting"
	StatusAborted    Status = "aborted"
)

// terminal statuses accept no further part submissions
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted
}

type partRecord struct {
	ETag string
	Size int64
}

// Session is the server-owned state of one multipart upload. It lives from
// Initiate until Complete or Abort; there is no cross-session resumption.
// All mutation goes through the mutex, but a session is only ever driven by
// one logical upload at a time.
type Session struct {
	ID            string
	ObjectKey     string
	Filename      string
	MimeType      string
	Size          int64
	PartSize      int64
	TotalParts    int
	StoreUploadID string
	CreatedAt     time.Time

	mu     sync.Mutex
	status Status
	parts  map[int]partRecord
}

func newSession(id, objectKey, filename, mimeType, storeUploadID string, size, partSize int64) *Session {
	return &Session{
		ID:            id,
		ObjectKey:     objectKey,
		Filename:      filename,
		MimeType:      mimeType,
		Size:          size,
		PartSize:      partSize,
		TotalParts:    TotalParts(size, partSize),
		StoreUploadID: storeUploadID,
		CreatedAt:     time.Now().UTC(),
		status:        StatusInitiated,
		parts:         make(map[int]partRecord),
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// checkPart validates a part submission before any store call is made.
func (s *Session) checkPart(partNumber int, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() || s.status == StatusCompleting || s.status == StatusAborting {
		return ErrSessionClosed
	}
	if partNumber < 1 || partNumber > s.TotalParts {
		return ErrPartOutOfRange
	}
	if prev, ok := s.parts[partNumber]; ok && prev.Size != size {
		return ErrPartMismatch
	}
	return nil
}

// recordPart stores an acknowledged ETag for a part.
func (s *Session) recordPart(partNumber int, etag string, size int64) error {
	if err := s.checkPart(partNumber, size); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts[partNumber] = partRecord{ETag: etag, Size: size}
	if s.status == StatusInitiated {
		s.status = StatusUploading
	}
	return nil
}

// AcknowledgedParts returns how many parts hold a store-assigned ETag.
func (s *Session) AcknowledgedParts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parts)
}

// transition moves the session to next if the current status is one of from.
// Returns false when the session is already past that point.
func (s *Session) transition(next Status, from ...Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range from {
		if s.status == f {
			s.status = next
			return true
		}
	}
	return false
}

// TotalParts computes ceil(size / partSize). A size that is an exact multiple
// of partSize yields exactly size/partSize parts, never a trailing empty one.
func TotalParts(size, partSize int64) int {
	if partSize <= 0 {
		return 0
	}
	n := size / partSize
	if size%partSize != 0 {
		n++
	}
	return int(n)
}
