package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	policy := &Policy{
		AllowedTypes: []string{"image/*", "video/mp4"},
		MaxSize:      10 * MiB,
		MaxFileCount: 3,
	}

	tests := []struct {
		name         string
		file         *FileInfo
		currentCount int
		wantReason   RejectReason
	}{
		{
			name: "allowed image",
			file: &FileInfo{Name: "a.jpg", MimeType: "image/jpeg", Size: MiB},
		},
		{
			name: "allowed exact video type",
			file: &FileInfo{Name: "a.mp4", MimeType: "video/mp4", Size: MiB},
		},
		{
			name:       "disallowed type",
			file:       &FileInfo{Name: "a.pdf", MimeType: "application/pdf", Size: MiB},
			wantReason: RejectUnsupportedType,
		},
		{
			name:       "video outside the exact allowance",
			file:       &FileInfo{Name: "a.mov", MimeType: "video/quicktime", Size: MiB},
			wantReason: RejectUnsupportedType,
		},
		{
			name:       "too large",
			file:       &FileInfo{Name: "a.jpg", MimeType: "image/jpeg", Size: 10*MiB + 1},
			wantReason: RejectTooLarge,
		},
		{
			name:         "form already full",
			file:         &FileInfo{Name: "a.jpg", MimeType: "image/jpeg", Size: MiB},
			currentCount: 3,
			wantReason:   RejectTooManyFiles,
		},
		{
			name: "at size limit exactly",
			file: &FileInfo{Name: "a.jpg", MimeType: "image/jpeg", Size: 10 * MiB},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.file, tt.currentCount, policy)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantReason, valErr.Reason)
		})
	}
}

func TestValidateCountCheckedFirst(t *testing.T) {
	// a file that would fail every check reports the count rejection
	policy := &Policy{
		AllowedTypes: []string{"image/*"},
		MaxSize:      MiB,
		MaxFileCount: 1,
	}

	err := Validate(&FileInfo{Name: "a.bin", MimeType: "application/octet-stream", Size: 5 * MiB}, 1, policy)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, RejectTooManyFiles, valErr.Reason)
}

func TestValidateEmptyAllowListAcceptsAnyType(t *testing.T) {
	err := Validate(&FileInfo{Name: "a.bin", MimeType: "application/octet-stream", Size: MiB}, 0, &Policy{})
	assert.NoError(t, err)
}
