package uploader

// Policy is the caller-supplied upload configuration. Each form call site
// carries its own allow-list, size ceiling and multipart threshold; the core
// hard-codes none of them.
type Policy struct {
	// AllowedTypes holds exact MIME types or family wildcards ("image/*").
	// Empty means any type.
	AllowedTypes []string
	// MaxSize in bytes, 0 = unlimited
	MaxSize int64
	// MaxFileCount caps attachments per form submission, 0 = unlimited
	MaxFileCount int
	// PartSize is fixed for a session; the final part may be smaller
	PartSize int64
	// MultipartThreshold switches from the direct path to sessions
	MultipartThreshold int64
	// KeyPrefix namespaces the destination keys per call site
	KeyPrefix string
	// Presigned uploads parts straight to the store instead of proxying
	Presigned bool
}

const (
	MiB = int64(1024 * 1024)
	MB  = int64(1000 * 1000)

	// DefaultPartSize matches the object store's minimum part size floor.
	DefaultPartSize = 5 * MiB
)

func (p *Policy) partSize() int64 {
	if p.PartSize > 0 {
		return p.PartSize
	}
	return DefaultPartSize
}

// ComplaintEvidencePolicy covers complaint attachments: photos and videos up
// to 200MB, at most 5 per complaint.
func ComplaintEvidencePolicy() *Policy {
	return &Policy{
		AllowedTypes:       []string{"image/*", "video/*"},
		MaxSize:            200 * MB,
		MaxFileCount:       5,
		PartSize:           DefaultPartSize,
		MultipartThreshold: 10 * MiB,
		KeyPrefix:          "complaints",
	}
}

// TestimonialMediaPolicy covers testimonial photos and videos. Anything that
// would need more than two parts goes multipart.
func TestimonialMediaPolicy() *Policy {
	return &Policy{
		AllowedTypes:       []string{"image/*", "video/*"},
		MaxSize:            200 * MB,
		PartSize:           DefaultPartSize,
		MultipartThreshold: 2 * DefaultPartSize,
		KeyPrefix:          "testimonials",
	}
}

// PledgePhotoPolicy covers election-pledge avatar photos: small images only,
// always the direct path.
func PledgePhotoPolicy() *Policy {
	return &Policy{
		AllowedTypes:       []string{"image/*"},
		MaxSize:            2 * MB,
		MaxFileCount:       1,
		PartSize:           DefaultPartSize,
		MultipartThreshold: 10 * MiB,
		KeyPrefix:          "pledges",
	}
}

// MediaLibraryPolicy covers the admin media library, which prefers sessions
// for anything beyond a megabyte.
func MediaLibraryPolicy() *Policy {
	return &Policy{
		PartSize:           DefaultPartSize,
		MultipartThreshold: 1 * MiB,
		KeyPrefix:          "media",
	}
}
