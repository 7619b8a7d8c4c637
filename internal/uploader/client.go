package uploader

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/imroc/req/v3"

	"github.com/civicstack/mediavault/internal/utils"
	"github.com/civicstack/mediavault/internal/version"
)

const (
	apiUpload         = "/api/v1/upload"
	apiUploadInitiate = "/api/v1/upload/initiate"
	apiUploadPart     = "/api/v1/upload/part"
	apiUploadComplete = "/api/v1/upload/complete"
	apiUploadAbort    = "/api/v1/upload/abort"

	// fallback threshold when the policy does not set one
	defaultMultipartThreshold = 32 * MiB
)

// Client is the single public entry point for all four form call sites. One
// Upload call validates, picks a path and returns the canonical result tuple;
// behavior differences between call sites live entirely in the Policy.
type Client struct {
	client *req.Client
	// part PUTs stream straight through net/http: req buffers bodies and
	// does not honor Content-Length for raw readers
	http *http.Client
}

func New(serverURL string) *Client {
	client := req.C().
		SetBaseURL(serverURL).
		SetUserAgent(version.ShortWithApp()).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal).
		SetCommonErrorResult(&apiError{})

	return &Client{
		client: client,
		http:   &http.Client{},
	}
}

// Upload validates the file against the policy, routes it to the direct or
// multipart path and reports progress 0-100 along the way. Cancelling the
// context aborts any open session before returning.
func (c *Client) Upload(ctx context.Context, params *UploadParams) (*CompletedUpload, error) {
	if !utils.FileExists(params.FilePath) {
		return nil, ErrFileNotFound
	}

	info, err := os.Stat(params.FilePath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	policy := params.Policy
	if policy == nil {
		policy = &Policy{
			PartSize:           DefaultPartSize,
			MultipartThreshold: defaultMultipartThreshold,
		}
	}

	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = utils.DetectContentType(params.FilePath)
	}

	file := &FileInfo{
		Name:     filepath.Base(params.FilePath),
		MimeType: mimeType,
		Size:     info.Size(),
	}

	if err := Validate(file, params.CurrentFileCount, policy); err != nil {
		return nil, err
	}

	tracker := newProgressTracker(params.OnProgress)

	switch SelectStrategy(file.Size, policy.MultipartThreshold) {
	case StrategyMultipart:
		return c.runMultipart(ctx, params, file, policy, tracker)
	default:
		return c.uploadDirect(ctx, params, file, policy, tracker)
	}
}

// handleAPIError folds the req transport error and the server's error
// envelope into the uploader taxonomy.
func handleAPIError(resp *req.Response, requestErr error, op string) error {
	if requestErr != nil {
		return &NetworkError{Op: op, Err: requestErr}
	}

	if resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*apiError); ok && apiErr.Code != "" {
			return &ServerRejectedError{
				Op:      op,
				Status:  resp.StatusCode,
				Code:    apiErr.Code,
				Message: apiErr.Message,
			}
		}
		return &ProtocolError{Op: op, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	return nil
}
