package uploader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// per-part deadline grows with part size, 60s per 5MiB slice
	basePartTimeout = 60 * time.Second
	abortTimeout    = 10 * time.Second
)

const apiUploadPartAck = "/api/v1/upload/part/ack"

// runMultipart drives one upload session end to end: initiate, submit every
// part, complete. The first part failure cancels anything still in flight,
// aborts the session exactly once and surfaces the failing part's error.
func (c *Client) runMultipart(
	ctx context.Context,
	params *UploadParams,
	file *FileInfo,
	policy *Policy,
	tracker *progressTracker,
) (*CompletedUpload, error) {
	plan := NewPartPlan(file.Size, policy.partSize())

	var sess initiateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&initiateRequest{
			Filename:  file.Name,
			MimeType:  file.MimeType,
			Size:      file.Size,
			PartSize:  plan.PartSize,
			KeyPrefix: policy.KeyPrefix,
			Presigned: policy.Presigned,
		}).
		SetSuccessResult(&sess).
		Post(apiUploadInitiate)
	if err := handleAPIError(resp, err, "initiate"); err != nil {
		return nil, err
	}
	if sess.SessionID == "" || sess.TotalParts != plan.TotalParts {
		return nil, &ProtocolError{
			Op:      "initiate",
			Message: fmt.Sprintf("server planned %d parts, expected %d", sess.TotalParts, plan.TotalParts),
		}
	}

	f, err := os.Open(params.FilePath)
	if err != nil {
		c.abortSession(sess.SessionID)
		return nil, err
	}
	defer f.Close()

	parts := make([]*completedPart, plan.TotalParts)
	var done atomic.Int64

	submit := func(ctx context.Context, partNumber int) error {
		etag, err := c.uploadPart(ctx, f, plan, &sess, partNumber)
		if err != nil {
			return &PartUploadError{PartNumber: partNumber, Err: err}
		}
		parts[partNumber-1] = &completedPart{PartNumber: partNumber, ETag: etag}
		percent := AggregatePartProgress(int(done.Add(1)), plan.TotalParts)
		// 100 waits for the merge to land
		if percent > 99 {
			percent = 99
		}
		tracker.report(percent)
		return nil
	}

	var uploadErr error
	if params.Concurrency > 1 {
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(params.Concurrency)
		for partNumber := 1; partNumber <= plan.TotalParts; partNumber++ {
			group.Go(func() error {
				return submit(groupCtx, partNumber)
			})
		}
		uploadErr = group.Wait()
	} else {
		for partNumber := 1; partNumber <= plan.TotalParts; partNumber++ {
			if uploadErr = submit(ctx, partNumber); uploadErr != nil {
				break
			}
		}
	}
	if uploadErr != nil {
		c.abortSession(sess.SessionID)
		return nil, uploadErr
	}

	var result CompletedUpload
	resp, err = c.client.R().
		SetContext(ctx).
		SetBody(&completeRequest{SessionID: sess.SessionID, Parts: parts}).
		SetSuccessResult(&result).
		Post(apiUploadComplete)
	if err := handleAPIError(resp, err, "complete"); err != nil {
		// the driver does not retry completion, so release the session
		c.abortSession(sess.SessionID)
		return nil, err
	}

	tracker.report(100)
	return &result, nil
}

// uploadPart sends one slice of the file under its own deadline and returns
// the store-assigned ETag.
func (c *Client) uploadPart(ctx context.Context, f io.ReaderAt, plan *PartPlan, sess *initiateResponse, partNumber int) (string, error) {
	offset, length := plan.Range(partNumber)

	partCtx, cancel := context.WithTimeout(ctx, partTimeout(length))
	defer cancel()

	section := io.NewSectionReader(f, offset, length)

	if len(sess.PartURLs) > 0 {
		return c.putPresignedPart(partCtx, sess, partNumber, section, length)
	}
	return c.putProxyPart(partCtx, sess.SessionID, partNumber, section, length)
}

// putProxyPart streams the slice through the server. net/http is used
// directly so Content-Length reflects the slice rather than a buffered copy.
func (c *Client) putProxyPart(ctx context.Context, sessionID string, partNumber int, body io.Reader, length int64) (string, error) {
	partURL, err := url.Parse(c.client.BaseURL + apiUploadPart)
	if err != nil {
		return "", err
	}
	query := partURL.Query()
	query.Set("sessionId", sessionID)
	query.Set("partNumber", strconv.Itoa(partNumber))
	partURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, partURL.String(), body)
	if err != nil {
		return "", err
	}
	req.ContentLength = length
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &NetworkError{Op: "upload part", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &NetworkError{Op: "upload part", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var srvErr apiError
		if jsonUnmarshal(raw, &srvErr) == nil && srvErr.Code != "" {
			return "", &ServerRejectedError{
				Op:      "upload part",
				Status:  resp.StatusCode,
				Code:    srvErr.Code,
				Message: srvErr.Message,
			}
		}
		return "", &ProtocolError{Op: "upload part", Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var partResp partResponse
	if err := jsonUnmarshal(raw, &partResp); err != nil || partResp.ETag == "" {
		return "", &ProtocolError{Op: "upload part", Message: "response missing etag"}
	}
	return partResp.ETag, nil
}

// putPresignedPart sends the slice straight to the store, then reports the
// ETag back so the session's bookkeeping stays authoritative.
func (c *Client) putPresignedPart(ctx context.Context, sess *initiateResponse, partNumber int, body io.Reader, length int64) (string, error) {
	target, ok := sess.PartURLs[partNumber]
	if !ok {
		return "", &ProtocolError{Op: "upload part", Message: fmt.Sprintf("no presigned url for part %d", partNumber)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, body)
	if err != nil {
		return "", err
	}
	req.ContentLength = length

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &NetworkError{Op: "upload part", Err: err}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProtocolError{Op: "upload part", Message: fmt.Sprintf("store returned status %d", resp.StatusCode)}
	}

	etag := strings.Trim(resp.Header.Get("ETag"), `"`)
	if etag == "" {
		return "", &ProtocolError{Op: "upload part", Message: "store response missing etag"}
	}

	ackResp, err := c.client.R().
		SetContext(ctx).
		SetBody(&partAckRequest{
			SessionID:  sess.SessionID,
			PartNumber: partNumber,
			ETag:       etag,
			Size:       length,
		}).
		Post(apiUploadPartAck)
	if err := handleAPIError(ackResp, err, "ack part"); err != nil {
		return "", err
	}

	return etag, nil
}

// abortSession releases the session best-effort on a fresh context, since the
// caller's context may already be cancelled by the failure that got us here.
func (c *Client) abortSession(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), abortTimeout)
	defer cancel()

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&abortRequest{SessionID: sessionID}).
		Post(apiUploadAbort)
	if err := handleAPIError(resp, err, "abort"); err != nil {
		slog.Warn("session abort failed", "sessionId", sessionID, "error", err)
	}
}

func partTimeout(length int64) time.Duration {
	slices := (length + DefaultPartSize - 1) / DefaultPartSize
	if slices < 1 {
		slices = 1
	}
	return time.Duration(slices) * basePartTimeout
}
