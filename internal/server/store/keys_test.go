package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {

	longValidPath := strings.Repeat("a/", 1024)
	longInvalidPath := strings.Repeat("a\\", 1024)

	tests := []struct {
		name string
		key  string
		want bool
	}{
		// invalid length
		{name: "empty-key", key: "", want: false},
		{name: "key-too-long", key: longValidPath, want: false},
		{name: "key-too-long", key: longInvalidPath, want: false},
		// valid cases
		{name: "valid-key", key: "valid-key", want: true},
		{name: "valid-key-with-slashes", key: "valid/key/with/slashes", want: true},
		{name: "valid-path-to-✅", key: "valid/path/to/✅", want: true},
		// invalid cases
		{name: "invalid-key", key: ".", want: false},
		{name: "invalid-key", key: "..", want: false},
		{name: "invalid-path-with-backslashes", key: "invalid\\path\\with\\backslashes", want: false},
		{name: "invalid-relative-path", key: "invalid/../file", want: false},
		{name: "invalid-relative-path", key: "invalid/file/..", want: false},
		{name: "invalid-relative-path", key: "invalid/file/some..txt", want: false},
		{name: "invalid-path-leading-slash", key: "/invalid/path/file", want: false},
		{name: "invalid-path-leading-slashes", key: "//invalid/path/file", want: false},
		// UTF-8 validity
		{name: "invalid-utf8-sequence", key: "test\xffstring", want: false}, // \xff is an invalid UTF-8 byte
	}

	for _, test := range tests {
		assert.Equal(t, test.want, ValidateKey(test.key), test.name)
	}
}

func TestNewObjectKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		filename string
		wantPre  string
		wantExt  string
	}{
		{name: "plain", prefix: "", filename: "report.pdf", wantPre: "report-", wantExt: ".pdf"},
		{name: "with-prefix", prefix: "complaints", filename: "evidence.mp4", wantPre: "complaints/evidence-", wantExt: ".mp4"},
		{name: "prefix-trimmed", prefix: "/media/", filename: "photo.JPG", wantPre: "media/photo-", wantExt: ".jpg"},
		{name: "unsafe-chars", prefix: "", filename: "মতামত ফর্ম.png", wantPre: "", wantExt: ".png"},
		{name: "no-extension", prefix: "", filename: "README", wantPre: "README-", wantExt: ""},
		{name: "only-unsafe", prefix: "", filename: "???.bin", wantPre: "upload-", wantExt: ".bin"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key := NewObjectKey(test.prefix, test.filename)
			assert.True(t, ValidateKey(key), "generated key must be valid: %s", key)
			if test.wantPre != "" {
				assert.True(t, strings.HasPrefix(key, test.wantPre), "key %q should start with %q", key, test.wantPre)
			}
			assert.True(t, strings.HasSuffix(key, test.wantExt), "key %q should end with %q", key, test.wantExt)
		})
	}
}

func TestNewObjectKey_CollisionSuffix(t *testing.T) {
	a := NewObjectKey("media", "banner.png")
	b := NewObjectKey("media", "banner.png")
	assert.NotEqual(t, a, b, "same filename must not collide")
}

func TestTrimETag(t *testing.T) {
	assert.Equal(t, "abc123", trimETag("\"abc123\""))
	assert.Equal(t, "abc123", trimETag("abc123"))
	assert.Equal(t, "", trimETag(""))
}
