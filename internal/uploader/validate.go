package uploader

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FileInfo is what the validation gate inspects: the declared identity of a
// file before any bytes move.
type FileInfo struct {
	Name     string
	MimeType string
	Size     int64
}

// Validate enforces the policy's MIME allow-list, size ceiling and per-form
// attachment cap. It runs entirely before any network call and is
// side-effect-free. currentCount is how many files the form already holds.
func Validate(file *FileInfo, currentCount int, policy *Policy) error {
	if policy.MaxFileCount > 0 && currentCount >= policy.MaxFileCount {
		return &ValidationError{
			Reason:  RejectTooManyFiles,
			Message: fmt.Sprintf("at most %d files per submission", policy.MaxFileCount),
		}
	}

	if !mimeAllowed(file.MimeType, policy.AllowedTypes) {
		return &ValidationError{
			Reason:  RejectUnsupportedType,
			Message: fmt.Sprintf("type %q not allowed", file.MimeType),
		}
	}

	if policy.MaxSize > 0 && file.Size > policy.MaxSize {
		return &ValidationError{
			Reason: RejectTooLarge,
			Message: fmt.Sprintf("%s exceeds the %s limit",
				humanize.Bytes(uint64(file.Size)), humanize.Bytes(uint64(policy.MaxSize))),
		}
	}

	return nil
}

// mimeAllowed matches exact types and family wildcards like "image/*".
func mimeAllowed(mimeType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if family, ok := strings.CutSuffix(a, "/*"); ok {
			if strings.HasPrefix(mimeType, family+"/") {
				return true
			}
			continue
		}
		if strings.EqualFold(mimeType, a) {
			return true
		}
	}
	return false
}
