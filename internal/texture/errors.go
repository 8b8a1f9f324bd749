package texture

import "errors"

var (
	// ErrMalformedInput means a buffer or header doesn't match the size or
	// layout it claims to have.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnsupportedFormat means the data is well formed but names a format
	// this package can't handle.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrOutOfRange means a pixel or block coordinate is outside the texture.
	ErrOutOfRange = errors.New("out of range")
)
