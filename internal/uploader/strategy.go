package uploader

// Strategy names the upload path picked for one file.
type Strategy int

const (
	// StrategyDirect carries the whole file in one request
	StrategyDirect Strategy = iota
	// StrategyMultipart splits the file into a tracked part session
	StrategyMultipart
)

func (s Strategy) String() string {
	if s == StrategyMultipart {
		return "multipart"
	}
	return "direct"
}

// SelectStrategy routes by size: below the threshold the direct path wins,
// at or above it the session path does. Both converge on the same result
// shape.
func SelectStrategy(size, multipartThreshold int64) Strategy {
	if multipartThreshold > 0 && size >= multipartThreshold {
		return StrategyMultipart
	}
	return StrategyDirect
}
