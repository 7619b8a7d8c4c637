package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/civicstack/mediavault/internal/server/store"
)

const (
	// DefaultPartSize matches the common object store minimum so any non-final
	// part is always accepted by the merge.
	DefaultPartSize = int64(5 * 1024 * 1024)

	DefaultSessionTTL  = time.Hour
	DefaultMaxSessions = 4096

	maxParts = 10000
)

type Config struct {
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	MaxSessions   int           `mapstructure:"max_sessions"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

type InitiateParams struct {
	Filename  string
	MimeType  string
	Size      int64
	PartSize  int64
	KeyPrefix string
	// Presigned requests one time-bounded direct-to-store URL per part instead
	// of proxying part bytes through the server.
	Presigned bool
}

type InitiateResult struct {
	SessionID  string
	ObjectKey  string
	PartSize   int64
	TotalParts int
	PartURLs   map[int]string
}

type PartReceipt struct {
	PartNumber int
	ETag       string
}

// CompletedUpload is the canonical result tuple handed back to the caller.
// Persisting it into any particular form's data row is the caller's concern.
type CompletedUpload struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	ETag     string `json:"etag"`
}

// Manager owns the lifecycle of multipart upload sessions. Sessions live in an
// expiring in-memory registry; an evicted live session gets its store-side
// state aborted in the background so interrupted uploads don't leak parts.
type Manager struct {
	store    store.ObjectStore
	sessions *expirable.LRU[string, *Session]
	cfg      Config
}

func NewManager(objStore store.ObjectStore, cfg Config) *Manager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}

	m := &Manager{
		store: objStore,
		cfg:   cfg,
	}
	m.sessions = expirable.NewLRU(cfg.MaxSessions, m.onEvict, cfg.SessionTTL)
	return m
}

// onEvict reclaims store-side state for sessions that expired mid-upload.
func (m *Manager) onEvict(id string, sess *Session) {
	if sess.Status().Terminal() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sess.transition(StatusAborting, StatusInitiated, StatusUploading, StatusCompleting)
		if err := m.store.AbortMultipart(ctx, sess.ObjectKey, sess.StoreUploadID); err != nil {
			slog.Warn("abort expired session", "sessionId", id, "key", sess.ObjectKey, "error", err)
			return
		}
		sess.transition(StatusAborted, StatusAborting)
		slog.Info("aborted expired session", "sessionId", id, "key", sess.ObjectKey)
	}()
}

// Initiate reserves a session id and destination key, computes the part plan
// and opens a multipart upload with the store.
func (m *Manager) Initiate(ctx context.Context, params *InitiateParams) (*InitiateResult, error) {
	if params.Size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", ErrInitiationFailed)
	}

	partSize := params.PartSize
	if partSize <= 0 {
		partSize = DefaultPartSize
	}

	totalParts := TotalParts(params.Size, partSize)
	if totalParts > maxParts {
		return nil, fmt.Errorf("%w: %s at part size %s exceeds %d parts",
			ErrInitiationFailed, humanize.IBytes(uint64(params.Size)), humanize.IBytes(uint64(partSize)), maxParts)
	}

	objectKey := store.NewObjectKey(params.KeyPrefix, params.Filename)

	uploadID, err := m.store.CreateMultipart(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitiationFailed, err)
	}

	sess := newSession(uuid.NewString(), objectKey, params.Filename, params.MimeType, uploadID, params.Size, partSize)

	result := &InitiateResult{
		SessionID:  sess.ID,
		ObjectKey:  sess.ObjectKey,
		PartSize:   sess.PartSize,
		TotalParts: sess.TotalParts,
	}

	if params.Presigned {
		urls := make(map[int]string, totalParts)
		for part := 1; part <= totalParts; part++ {
			url, err := m.store.PresignPart(ctx, objectKey, uploadID, int32(part), m.cfg.PresignExpiry)
			if err != nil {
				// roll back the store session before surfacing the error
				m.abortStore(ctx, sess)
				return nil, fmt.Errorf("%w: presign part %d: %w", ErrInitiationFailed, part, err)
			}
			urls[part] = url
		}
		result.PartURLs = urls
	}

	m.sessions.Add(sess.ID, sess)

	slog.Info("upload session initiated",
		"sessionId", sess.ID,
		"key", sess.ObjectKey,
		"size", humanize.IBytes(uint64(sess.Size)),
		"parts", sess.TotalParts)

	return result, nil
}

// AcknowledgePart accepts one part's bytes and uploads them to the store
// (proxy variant). The part number is validated before any store call.
func (m *Manager) AcknowledgePart(ctx context.Context, sessionID string, partNumber int, body io.Reader, size int64) (*PartReceipt, error) {
	sess, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := sess.checkPart(partNumber, size); err != nil {
		return nil, err
	}

	etag, err := m.store.UploadPart(ctx, &store.UploadPartParams{
		Key:        sess.ObjectKey,
		UploadID:   sess.StoreUploadID,
		PartNumber: int32(partNumber),
		Size:       size,
		Body:       body,
	})
	if err != nil {
		return nil, &PartError{PartNumber: partNumber, Err: err}
	}

	if err := sess.recordPart(partNumber, etag, size); err != nil {
		return nil, err
	}

	return &PartReceipt{PartNumber: partNumber, ETag: etag}, nil
}

// RecordPart registers an ETag produced by a direct-to-store PUT
// (presigned variant).
func (m *Manager) RecordPart(sessionID string, partNumber int, etag string, size int64) error {
	sess, ok := m.sessions.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	return sess.recordPart(partNumber, etag, size)
}

// Complete validates that parts covers [1, totalParts] contiguously and merges
// them into one durable object. A missing or duplicate part fails before the
// store merge is attempted.
func (m *Manager) Complete(ctx context.Context, sessionID string, parts []*store.CompletedPart) (*CompletedUpload, error) {
	sess, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := validatePartSet(parts, sess.TotalParts); err != nil {
		return nil, err
	}

	if !sess.transition(StatusCompleting, StatusInitiated, StatusUploading) {
		return nil, ErrSessionClosed
	}

	sorted := make([]*store.CompletedPart, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PartNumber < sorted[j].PartNumber })

	result, err := m.store.CompleteMultipart(ctx, &store.CompleteMultipartParams{
		Key:      sess.ObjectKey,
		UploadID: sess.StoreUploadID,
		Size:     sess.Size,
		Parts:    sorted,
	})
	if err != nil {
		// revert so the caller can retry the completion or abort
		sess.transition(StatusUploading, StatusCompleting)
		if errors.Is(err, store.ErrPartTooSmall) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	sess.transition(StatusCompleted, StatusCompleting)
	m.sessions.Remove(sessionID)

	slog.Info("upload session completed", "sessionId", sessionID, "key", sess.ObjectKey, "etag", result.ETag)

	return &CompletedUpload{
		URL:      m.store.ObjectURL(sess.ObjectKey),
		Key:      sess.ObjectKey,
		Filename: sess.Filename,
		MimeType: sess.MimeType,
		Size:     sess.Size,
		ETag:     result.ETag,
	}, nil
}

// Abort releases the session and any store-side partial data. It is
// idempotent: aborting an unknown or already-terminal session is a no-op.
// A store-level abort failure is logged, not escalated, since the
// user-visible operation already failed for another reason.
func (m *Manager) Abort(ctx context.Context, sessionID string) error {
	sess, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil
	}

	if !sess.transition(StatusAborting, StatusInitiated, StatusUploading, StatusCompleting) {
		return nil
	}

	m.abortStore(ctx, sess)
	sess.transition(StatusAborted, StatusAborting)
	m.sessions.Remove(sessionID)

	slog.Info("upload session aborted", "sessionId", sessionID, "key", sess.ObjectKey)
	return nil
}

// Get returns a live session by id.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	return m.sessions.Get(sessionID)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

func (m *Manager) abortStore(ctx context.Context, sess *Session) {
	if err := m.store.AbortMultipart(ctx, sess.ObjectKey, sess.StoreUploadID); err != nil {
		slog.Warn("store abort failed", "sessionId", sess.ID, "key", sess.ObjectKey, "error", err)
	}
}

// validatePartSet checks contiguous coverage of [1, totalParts] with no
// duplicates.
func validatePartSet(parts []*store.CompletedPart, totalParts int) error {
	if len(parts) != totalParts {
		return fmt.Errorf("%w: got %d of %d parts", ErrIncompletePartSet, len(parts), totalParts)
	}

	seen := make(map[int]bool, len(parts))
	for _, part := range parts {
		if part.PartNumber < 1 || part.PartNumber > totalParts {
			return fmt.Errorf("%w: part %d out of range", ErrIncompletePartSet, part.PartNumber)
		}
		if seen[part.PartNumber] {
			return fmt.Errorf("%w: duplicate part %d", ErrIncompletePartSet, part.PartNumber)
		}
		seen[part.PartNumber] = true
	}
	return nil
}
