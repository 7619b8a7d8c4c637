package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicstack/mediavault/internal/server/store"
)

const testMiB = int64(1024 * 1024)

// fakeStore implements store.ObjectStore in memory and counts calls.
type fakeStore struct {
	mu sync.Mutex

	createCalls   int
	partCalls     int
	completeCalls int
	abortCalls    int

	failCreate   bool
	failPart     int32 // part number to fail, 0 = none
	completeErr  error
	abortErr     error
	receivedSize int64
}

func (f *fakeStore) PutObject(ctx context.Context, params *store.PutObjectParams) (*store.PutObjectResult, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	return &store.PutObjectResult{Key: params.Key, ETag: "etag-direct", Size: int64(len(data)), LastModified: time.Now()}, nil
}

func (f *fakeStore) CreateMultipart(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate {
		return "", fmt.Errorf("store unavailable")
	}
	return "upload-" + key, nil
}

func (f *fakeStore) UploadPart(ctx context.Context, params *store.UploadPartParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partCalls++
	if f.failPart != 0 && params.PartNumber == f.failPart {
		return "", fmt.Errorf("simulated network error")
	}
	if _, err := io.Copy(io.Discard, params.Body); err != nil {
		return "", err
	}
	return fmt.Sprintf("etag-%d", params.PartNumber), nil
}

func (f *fakeStore) PresignPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://store.test/%s?partNumber=%d", key, partNumber), nil
}

func (f *fakeStore) CompleteMultipart(ctx context.Context, params *store.CompleteMultipartParams) (*store.PutObjectResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	f.receivedSize = params.Size
	return &store.PutObjectResult{Key: params.Key, ETag: "etag-merged", Size: params.Size, LastModified: time.Now()}, nil
}

func (f *fakeStore) AbortMultipart(ctx context.Context, key, uploadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abortCalls++
	return f.abortErr
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error { return nil }

func (f *fakeStore) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://store.test/" + key, nil
}

func (f *fakeStore) ObjectURL(key string) string { return "https://cdn.test/" + key }

func (f *fakeStore) counts() (create, part, complete, abort int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.partCalls, f.completeCalls, f.abortCalls
}

var _ store.ObjectStore = (*fakeStore)(nil)

func newTestManager(fs *fakeStore) *Manager {
	return NewManager(fs, Config{SessionTTL: time.Minute, MaxSessions: 16})
}

func initiateTestSession(t *testing.T, m *Manager, size int64) *InitiateResult {
	t.Helper()
	res, err := m.Initiate(context.Background(), &InitiateParams{
		Filename: "evidence.mp4",
		MimeType: "video/mp4",
		Size:     size,
		PartSize: 5 * testMiB,
	})
	require.NoError(t, err)
	return res
}

func uploadAllParts(t *testing.T, m *Manager, res *InitiateResult, size int64) []*store.CompletedPart {
	t.Helper()
	parts := make([]*store.CompletedPart, 0, res.TotalParts)
	for n := 1; n <= res.TotalParts; n++ {
		partSize := res.PartSize
		if n == res.TotalParts {
			partSize = size - int64(n-1)*res.PartSize
		}
		receipt, err := m.AcknowledgePart(context.Background(), res.SessionID, n, bytes.NewReader(make([]byte, partSize)), partSize)
		require.NoError(t, err)
		parts = append(parts, &store.CompletedPart{PartNumber: receipt.PartNumber, ETag: receipt.ETag})
	}
	return parts
}

func TestManager_Initiate(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)

	res := initiateTestSession(t, m, 12*testMiB)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, 3, res.TotalParts)
	assert.Equal(t, 5*testMiB, res.PartSize)
	assert.True(t, strings.HasSuffix(res.ObjectKey, ".mp4"))
	assert.Nil(t, res.PartURLs)
	assert.Equal(t, 1, m.Len())
}

func TestManager_InitiatePresigned(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)

	res, err := m.Initiate(context.Background(), &InitiateParams{
		Filename:  "evidence.mp4",
		MimeType:  "video/mp4",
		Size:      12 * testMiB,
		PartSize:  5 * testMiB,
		Presigned: true,
	})
	require.NoError(t, err)
	require.Len(t, res.PartURLs, 3)
	for part := 1; part <= 3; part++ {
		assert.Contains(t, res.PartURLs[part], fmt.Sprintf("partNumber=%d", part))
	}
}

func TestManager_InitiateStoreFailure(t *testing.T) {
	fs := &fakeStore{failCreate: true}
	m := newTestManager(fs)

	_, err := m.Initiate(context.Background(), &InitiateParams{Filename: "f.bin", Size: testMiB})
	assert.ErrorIs(t, err, ErrInitiationFailed)
	assert.Equal(t, 0, m.Len())
}

func TestManager_InitiateRejectsBadSize(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)

	_, err := m.Initiate(context.Background(), &InitiateParams{Filename: "f.bin", Size: 0})
	assert.ErrorIs(t, err, ErrInitiationFailed)

	create, _, _, _ := fs.counts()
	assert.Zero(t, create, "no store call for invalid input")
}

func TestManager_CompleteFullSet(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)
	size := 12 * testMiB

	res := initiateTestSession(t, m, size)
	parts := uploadAllParts(t, m, res, size)

	done, err := m.Complete(context.Background(), res.SessionID, parts)
	require.NoError(t, err)
	assert.Equal(t, size, done.Size)
	assert.Equal(t, res.ObjectKey, done.Key)
	assert.Equal(t, "evidence.mp4", done.Filename)
	assert.Equal(t, "video/mp4", done.MimeType)
	assert.Equal(t, "https://cdn.test/"+res.ObjectKey, done.URL)

	// session is released
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, size, fs.receivedSize)
}

func TestManager_CompleteMissingPart(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)
	size := 12 * testMiB

	res := initiateTestSession(t, m, size)
	parts := uploadAllParts(t, m, res, size)

	_, err := m.Complete(context.Background(), res.SessionID, parts[:2])
	assert.ErrorIs(t, err, ErrIncompletePartSet)

	_, _, complete, _ := fs.counts()
	assert.Zero(t, complete, "store merge must not be called with a missing part")
}

func TestManager_CompleteDuplicatePart(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)
	size := 12 * testMiB

	res := initiateTestSession(t, m, size)
	parts := uploadAllParts(t, m, res, size)
	parts[2] = parts[0]

	_, err := m.Complete(context.Background(), res.SessionID, parts)
	assert.ErrorIs(t, err, ErrIncompletePartSet)

	_, _, complete, _ := fs.counts()
	assert.Zero(t, complete)
}

func TestManager_CompletePartTooSmall(t *testing.T) {
	fs := &fakeStore{completeErr: fmt.Errorf("%w: part 1 is 1KiB", store.ErrPartTooSmall)}
	m := newTestManager(fs)
	size := 12 * testMiB

	res := initiateTestSession(t, m, size)
	parts := uploadAllParts(t, m, res, size)

	_, err := m.Complete(context.Background(), res.SessionID, parts)
	assert.ErrorIs(t, err, store.ErrPartTooSmall)
	assert.NotErrorIs(t, err, ErrCompletionFailed, "part-too-small surfaces as its own condition")
}

func TestManager_PartFailureThenAbort(t *testing.T) {
	fs := &fakeStore{failPart: 2}
	m := newTestManager(fs)
	size := 12 * testMiB

	res := initiateTestSession(t, m, size)

	_, err := m.AcknowledgePart(context.Background(), res.SessionID, 1, bytes.NewReader(make([]byte, 5*testMiB)), 5*testMiB)
	require.NoError(t, err)

	_, err = m.AcknowledgePart(context.Background(), res.SessionID, 2, bytes.NewReader(make([]byte, 5*testMiB)), 5*testMiB)
	var partErr *PartError
	require.ErrorAs(t, err, &partErr)
	assert.Equal(t, 2, partErr.PartNumber)

	require.NoError(t, m.Abort(context.Background(), res.SessionID))

	_, _, complete, abort := fs.counts()
	assert.Zero(t, complete, "no complete after a part failure")
	assert.Equal(t, 1, abort, "exactly one store abort")
	assert.Equal(t, 0, m.Len())
}

func TestManager_AbortIdempotent(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)

	res := initiateTestSession(t, m, 12*testMiB)

	require.NoError(t, m.Abort(context.Background(), res.SessionID))
	require.NoError(t, m.Abort(context.Background(), res.SessionID))
	require.NoError(t, m.Abort(context.Background(), "unknown-session"))

	_, _, _, abort := fs.counts()
	assert.Equal(t, 1, abort)
}

func TestManager_AbortStoreFailureIsSwallowed(t *testing.T) {
	fs := &fakeStore{abortErr: fmt.Errorf("store unavailable")}
	m := newTestManager(fs)

	res := initiateTestSession(t, m, 12*testMiB)
	assert.NoError(t, m.Abort(context.Background(), res.SessionID), "abort is best-effort")
}

func TestManager_PartValidation(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)

	res := initiateTestSession(t, m, 12*testMiB)

	_, err := m.AcknowledgePart(context.Background(), res.SessionID, 0, bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrPartOutOfRange)

	_, err = m.AcknowledgePart(context.Background(), res.SessionID, 4, bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrPartOutOfRange)

	_, err = m.AcknowledgePart(context.Background(), "missing", 1, bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, before, _, _ := fs.counts()
	assert.Zero(t, before, "rejected parts never reach the store")
}

func TestManager_EvictionAbortsLiveSession(t *testing.T) {
	fs := &fakeStore{}
	m := NewManager(fs, Config{SessionTTL: time.Minute, MaxSessions: 1})

	first := initiateTestSession(t, m, 12*testMiB)
	_ = first
	initiateTestSession(t, m, 12*testMiB)

	assert.Eventually(t, func() bool {
		_, _, _, abort := fs.counts()
		return abort == 1
	}, 2*time.Second, 10*time.Millisecond, "evicted live session must be aborted against the store")
}

func TestManager_RecordPartPresigned(t *testing.T) {
	fs := &fakeStore{}
	m := newTestManager(fs)

	res := initiateTestSession(t, m, 12*testMiB)

	require.NoError(t, m.RecordPart(res.SessionID, 1, "etag-a", 5*testMiB))
	assert.ErrorIs(t, m.RecordPart(res.SessionID, 9, "etag-b", 5*testMiB), ErrPartOutOfRange)

	sess, ok := m.Get(res.SessionID)
	require.True(t, ok)
	assert.Equal(t, 1, sess.AcknowledgedParts())

	_, part, _, _ := fs.counts()
	assert.Zero(t, part, "presigned variant records etags without proxying bytes")
}
