package uploader

// PartPlan is the deterministic slicing of one file into ordered byte ranges.
// Parts are 1-based and contiguous; only the final part may be shorter than
// PartSize.
type PartPlan struct {
	Size       int64
	PartSize   int64
	TotalParts int
}

// NewPartPlan computes ceil(size / partSize) parts. A size that is an exact
// multiple of partSize yields exactly size/partSize parts and no trailing
// zero-length part.
func NewPartPlan(size, partSize int64) *PartPlan {
	if partSize <= 0 || size <= 0 {
		return &PartPlan{Size: size, PartSize: partSize}
	}

	n := size / partSize
	if size%partSize != 0 {
		n++
	}

	return &PartPlan{
		Size:       size,
		PartSize:   partSize,
		TotalParts: int(n),
	}
}

// Range returns the byte range [offset, offset+length) for a part. The final
// part's end is clamped to the file size.
func (p *PartPlan) Range(partNumber int) (offset, length int64) {
	if partNumber < 1 || partNumber > p.TotalParts {
		return 0, 0
	}

	offset = int64(partNumber-1) * p.PartSize
	length = p.PartSize
	if offset+length > p.Size {
		length = p.Size - offset
	}
	return offset, length
}
