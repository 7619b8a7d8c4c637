package uploader

import (
	"io"
	"sync"
	"time"
)

// ProgressCallback receives the rolled-up percentage, 0-100, monotonically
// non-decreasing for the duration of one attempt. 100 is reported only on
// terminal success.
type ProgressCallback func(percent int)

// AggregatePartProgress converts completed-part counts into one overall
// percentage. Every part contributes an equal share regardless of its byte
// length, since only the final part may legitimately be smaller.
func AggregatePartProgress(completedParts, totalParts int) int {
	if totalParts <= 0 {
		return 0
	}
	percent := (completedParts*100 + totalParts/2) / totalParts
	if percent > 100 {
		percent = 100
	}
	return percent
}

// progressTracker guards monotonicity across whatever order updates arrive in.
type progressTracker struct {
	mu       sync.Mutex
	last     int
	callback ProgressCallback
}

func newProgressTracker(callback ProgressCallback) *progressTracker {
	return &progressTracker{callback: callback}
}

func (t *progressTracker) report(percent int) {
	if t.callback == nil {
		return
	}

	t.mu.Lock()
	if percent <= t.last {
		t.mu.Unlock()
		return
	}
	t.last = percent
	t.mu.Unlock()

	t.callback(percent)
}

// progressReader wraps an io.Reader and reports transport-level byte progress.
// Used on the direct path, where progress follows bytes sent rather than part
// boundaries.
type progressReader struct {
	reader           io.Reader
	bytesUploaded    int64
	totalSize        int64
	tracker          *progressTracker
	lastCallbackTime time.Time
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 {
		pr.bytesUploaded += int64(n)
	}

	if pr.tracker != nil && pr.totalSize > 0 {
		now := time.Now()
		if now.Sub(pr.lastCallbackTime) > 200*time.Millisecond || err == io.EOF || pr.bytesUploaded == pr.totalSize {
			percent := int(pr.bytesUploaded * 100 / pr.totalSize)
			// hold 100 back for the server's acknowledgment
			if percent > 99 {
				percent = 99
			}
			pr.tracker.report(percent)
			pr.lastCallbackTime = now
		}
	}

	return n, err
}
