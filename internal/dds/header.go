package dds

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	magic = "DDS "

	headerSize      = 124
	pixelFormatSize = 32

	// offset of the pixel format inside the header
	pfOffset   = 72
	capsOffset = pfOffset + pixelFormatSize
)

// Header flags.
const (
	FlagCaps        = 0x1
	FlagHeight      = 0x2
	FlagWidth       = 0x4
	FlagPitch       = 0x8
	FlagPixelFormat = 0x1000
	FlagMipMapCount = 0x20000
	FlagLinearSize  = 0x80000
	FlagDepth       = 0x800000
)

// Pixel format flags.
const (
	PixelAlphaPixels = 0x1
	PixelFourCC      = 0x4
	PixelRGB         = 0x40
	PixelLuminance   = 0x20000
)

// Capability bits, Caps[0] and Caps[1].
const (
	CapsComplex = 0x8
	CapsTexture = 0x1000
	CapsMipMap  = 0x400000

	Caps2Cubemap = 0x200
	Caps2Volume  = 0x200000
)

// PixelFormat is the 32-byte pixel format block of the header.
type PixelFormat struct {
	Flags       uint32
	FourCC      [4]byte
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// FourCCString returns the FourCC tag, or "NONE" when the FourCC flag is
// not set.
func (p PixelFormat) FourCCString() string {
	if p.Flags&PixelFourCC == 0 {
		return "NONE"
	}
	return string(p.FourCC[:])
}

// Header is the 124-byte DDS header that follows the magic.
type Header struct {
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	PixelFormat       PixelFormat
	Caps              [4]uint32
}

// Mips is the number of stored mip levels. Without the mip count flag
// there is exactly one.
func (h *Header) Mips() int {
	if h.Flags&FlagMipMapCount == 0 || h.MipMapCount == 0 {
		return 1
	}
	return int(h.MipMapCount)
}

// Layers is the depth of a volume texture, 1 for plain 2D textures.
func (h *Header) Layers() int {
	if h.Flags&FlagDepth == 0 || h.Depth == 0 {
		return 1
	}
	return int(h.Depth)
}

func readHeader(r io.Reader) (*Header, error) {
	var buf [len(magic) + headerSize]byte
	if _, err := io.ReadFull(r, buf[:len(magic)]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if string(buf[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: got %q", ErrBadMagic, buf[:len(magic)])
	}
	hdr := buf[len(magic):]
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadHeaderSize, err)
	}

	get := func(off int) uint32 { return binary.LittleEndian.Uint32(hdr[off:]) }
	if size := get(0); size != headerSize {
		return nil, fmt.Errorf("%w: header says %d, want %d", ErrBadHeaderSize, size, headerSize)
	}
	if size := get(pfOffset); size != pixelFormatSize {
		return nil, fmt.Errorf("%w: pixel format says %d, want %d", ErrBadHeaderSize, size, pixelFormatSize)
	}

	h := &Header{
		Flags:             get(4),
		Height:            get(8),
		Width:             get(12),
		PitchOrLinearSize: get(16),
		Depth:             get(20),
		MipMapCount:       get(24),
		PixelFormat: PixelFormat{
			Flags:       get(pfOffset + 4),
			RGBBitCount: get(pfOffset + 12),
			RBitMask:    get(pfOffset + 16),
			GBitMask:    get(pfOffset + 20),
			BBitMask:    get(pfOffset + 24),
			ABitMask:    get(pfOffset + 28),
		},
	}
	copy(h.PixelFormat.FourCC[:], hdr[pfOffset+8:pfOffset+12])
	for i := range h.Caps {
		h.Caps[i] = get(capsOffset + 4*i)
	}
	return h, nil
}

func (h *Header) write(w io.Writer) error {
	var buf [len(magic) + headerSize]byte
	copy(buf[:], magic)
	hdr := buf[len(magic):]
	put := func(off int, v uint32) { binary.LittleEndian.PutUint32(hdr[off:], v) }

	put(0, headerSize)
	put(4, h.Flags)
	put(8, h.Height)
	put(12, h.Width)
	put(16, h.PitchOrLinearSize)
	put(20, h.Depth)
	put(24, h.MipMapCount)

	pf := h.PixelFormat
	put(pfOffset, pixelFormatSize)
	put(pfOffset+4, pf.Flags)
	copy(hdr[pfOffset+8:pfOffset+12], pf.FourCC[:])
	put(pfOffset+12, pf.RGBBitCount)
	put(pfOffset+16, pf.RBitMask)
	put(pfOffset+20, pf.GBitMask)
	put(pfOffset+24, pf.BBitMask)
	put(pfOffset+28, pf.ABitMask)

	for i, c := range h.Caps {
		put(capsOffset+4*i, c)
	}
	_, err := w.Write(buf[:])
	return err
}
