package dds

import (
	"fmt"

	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc1"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc3"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc4"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc5"
	"github.com/erinpentecost/bcpack/internal/texture"
)

// Format is a block compression format known by its FourCC.
type Format struct {
	FourCC    string
	BlockSize int
	// newDecoder builds a decoder, rounding BC1 colors like ip and writing
	// single-channel data to channels.
	newDecoder func(ip bc1.Interpolator, channels []int) (s3tc.TextureDecoder, error)
}

// Supported formats. BC1 and BC3 go by their DXT names.
var (
	BC1 = Format{FourCC: "DXT1", BlockSize: bc1.BlockSize, newDecoder: func(ip bc1.Interpolator, _ []int) (s3tc.TextureDecoder, error) {
		return bc1.NewDecoder(ip)
	}}
	BC3 = Format{FourCC: "DXT5", BlockSize: bc3.BlockSize, newDecoder: func(ip bc1.Interpolator, _ []int) (s3tc.TextureDecoder, error) {
		return bc3.NewDecoder(ip)
	}}
	BC4 = Format{FourCC: "ATI1", BlockSize: bc4.BlockSize, newDecoder: func(_ bc1.Interpolator, channels []int) (s3tc.TextureDecoder, error) {
		if len(channels) == 0 {
			return bc4.NewDecoder(0)
		}
		return bc4.NewDecoder(channels[0])
	}}
	BC5 = Format{FourCC: "ATI2", BlockSize: bc5.BlockSize, newDecoder: func(_ bc1.Interpolator, channels []int) (s3tc.TextureDecoder, error) {
		if len(channels) == 0 {
			return bc5.Codec{}, nil
		}
		if len(channels) != 2 {
			return nil, fmt.Errorf("%w: bc5 needs 2 channels, got %d", texture.ErrOutOfRange, len(channels))
		}
		return bc5.NewCodec(channels[0], channels[1])
	}}
)

var formats = map[string]Format{
	BC1.FourCC: BC1,
	BC3.FourCC: BC3,
	BC4.FourCC: BC4,
	BC5.FourCC: BC5,
	// DXGI-era aliases some tools write instead of the ATI tags
	"BC4U": BC4,
	"BC5U": BC5,
}

// LookupFormat maps a FourCC tag to its format.
func LookupFormat(fourCC string) (Format, error) {
	if fourCC == "DX10" {
		return Format{}, ErrDX10
	}
	f, ok := formats[fourCC]
	if !ok {
		return Format{}, fmt.Errorf("%w: FourCC %q", texture.ErrUnsupportedFormat, fourCC)
	}
	return f, nil
}

// Decoder returns a decoder for the format. BC4 writes to channels[0] and
// BC5 to channels[0] and channels[1]; without channels they use red and
// green.
func (f Format) Decoder(ip bc1.Interpolator, channels ...int) (s3tc.TextureDecoder, error) {
	if f.newDecoder == nil {
		return nil, fmt.Errorf("%w: format %q", texture.ErrUnsupportedFormat, f.FourCC)
	}
	return f.newDecoder(ip, channels)
}

func (f Format) fourCCBytes() [4]byte {
	var b [4]byte
	copy(b[:], f.FourCC)
	return b
}
