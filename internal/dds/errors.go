package dds

import (
	"fmt"

	"github.com/erinpentecost/bcpack/internal/texture"
)

var (
	// ErrBadMagic means the stream doesn't start with "DDS ".
	ErrBadMagic = fmt.Errorf("%w: missing DDS magic", texture.ErrMalformedInput)
	// ErrBadHeaderSize means the header or pixel format size field is wrong.
	ErrBadHeaderSize = fmt.Errorf("%w: bad DDS header size", texture.ErrMalformedInput)
	// ErrDX10 means the file uses the DX10 extended header.
	ErrDX10 = fmt.Errorf("%w: DX10 extended header", texture.ErrUnsupportedFormat)
)
