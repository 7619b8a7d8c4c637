package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		key    string
		want   string
	}{
		{
			name:   "public base url wins",
			config: Config{BucketName: "civic-media", PublicBaseURL: "https://cdn.example.org/", Endpoint: "http://localhost:9000"},
			key:    "pledges/a.jpg",
			want:   "https://cdn.example.org/pledges/a.jpg",
		},
		{
			name:   "custom endpoint uses path style",
			config: Config{BucketName: "civic-media", Endpoint: "http://localhost:9000"},
			key:    "pledges/a.jpg",
			want:   "http://localhost:9000/civic-media/pledges/a.jpg",
		},
		{
			name:   "aws virtual hosted default",
			config: Config{BucketName: "civic-media", Region: "eu-central-1"},
			key:    "pledges/a.jpg",
			want:   "https://civic-media.s3.eu-central-1.amazonaws.com/pledges/a.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewS3Store(nil, &tt.config)
			assert.Equal(t, tt.want, s.ObjectURL(tt.key))
		})
	}
}
