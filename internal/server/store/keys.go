package store

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Match: starts with one or more / OR contains \ OR contains ..
var regexForbiddenPatterns = regexp.MustCompile(`^/+|\\+|\.\.`)

var regexUnsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ValidateKey checks a key for S3 and local file system compatibility
func ValidateKey(key string) bool {
	// S3 keys must be between 1 and 1024 bytes long
	if len(key) == 0 || len(key) > 1024 {
		return false
	} else if key == "." || key == ".." {
		return false
	}

	// Check for forbidden patterns using regex
	if regexForbiddenPatterns.MatchString(key) {
		return false
	}

	// S3 keys must be valid UTF-8 strings
	return utf8.ValidString(key)
}

// NewObjectKey derives a destination key from an uploaded filename, under an
// optional prefix, with a collision-avoiding suffix. The extension is kept so
// downstream content-type detection keeps working.
func NewObjectKey(prefix, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = regexUnsafeKeyChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		base = "upload"
	}

	token := strings.Split(uuid.NewString(), "-")[0]
	key := fmt.Sprintf("%s-%s%s", base, token, strings.ToLower(ext))
	if prefix != "" {
		key = strings.Trim(prefix, "/") + "/" + key
	}
	return key
}
