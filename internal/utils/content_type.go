package utils

import (
	"mime"
	"path/filepath"
)

// DetectContentType resolves a MIME type from a key's file extension.
func DetectContentType(key string) string {
	if mimeType := mime.TypeByExtension(filepath.Ext(key)); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
