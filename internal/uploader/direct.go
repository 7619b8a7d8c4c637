package uploader

import (
	"context"
	"os"
)

// uploadDirect sends the whole file in a single multipart/form-data request.
// Progress follows bytes on the wire, holding 100 back until the server's
// acknowledgment arrives.
func (c *Client) uploadDirect(
	ctx context.Context,
	params *UploadParams,
	file *FileInfo,
	policy *Policy,
	tracker *progressTracker,
) (*CompletedUpload, error) {
	f, err := os.Open(params.FilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := &progressReader{
		reader:    f,
		totalSize: file.Size,
		tracker:   tracker,
	}

	var result CompletedUpload
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", file.Name, reader).
		SetFormData(map[string]string{
			"mimeType":  file.MimeType,
			"keyPrefix": policy.KeyPrefix,
		}).
		SetSuccessResult(&result).
		Post(apiUpload)

	if err := handleAPIError(resp, err, "upload"); err != nil {
		return nil, err
	}
	if result.Key == "" {
		return nil, &ProtocolError{Op: "upload", Message: "response missing object key"}
	}

	tracker.report(100)
	return &result, nil
}
