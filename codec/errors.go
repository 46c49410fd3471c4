package codec

import "errors"

var (
	// ErrUnsupportedFormat is returned when no registered codec claims
	// a format tag or a byte stream's magic number.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrInvalidQuality indicates a quality parameter outside [1,100].
	ErrInvalidQuality = errors.New("codec: invalid quality (must be 1-100)")
)
