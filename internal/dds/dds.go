// Package dds reads and writes block-compressed textures in the DDS
// container, optionally wrapped in an LZ4 frame.
package dds

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"

	"github.com/erinpentecost/bcpack/internal/mip"
	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc1"
	"github.com/erinpentecost/bcpack/internal/texture"
)

// lz4Magic is the little-endian LZ4 frame magic number.
var lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}

// File is a parsed DDS texture: its header and one block texture per mip
// level, largest first.
type File struct {
	Header Header
	Format Format
	Mips   []*texture.BlockTexture
	// Interpolator is used when decoding BC1 and BC3 colors.
	Interpolator bc1.Interpolator
	// Channels receive BC4 and BC5 values on decode, see Format.Decoder.
	Channels []int
}

// Read parses a DDS stream. LZ4-framed streams are detected and unwrapped.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(lz4Magic)); err == nil && bytes.Equal(head, lz4Magic) {
		return read(lz4.NewReader(br))
	}
	return read(br)
}

func read(r io.Reader) (*File, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	format, err := LookupFormat(h.PixelFormat.FourCCString())
	if err != nil {
		return nil, err
	}
	if h.Layers() != 1 || h.Caps[1]&(Caps2Cubemap|Caps2Volume) != 0 {
		return nil, fmt.Errorf("%w: volume and cubemap textures", texture.ErrUnsupportedFormat)
	}

	sizes, err := mip.Sizes(int(h.Width), int(h.Height), h.Mips())
	if err != nil {
		return nil, err
	}
	if len(sizes) != h.Mips() {
		return nil, fmt.Errorf("%w: %d mips for %dx%d", texture.ErrMalformedInput, h.Mips(), h.Width, h.Height)
	}

	f := &File{Header: *h, Format: format}
	var buf bytes.Buffer
	for i, s := range sizes {
		n, err := texture.BlockTextureSize(s.X, s.Y, format.BlockSize)
		if err != nil {
			return nil, fmt.Errorf("mip %d: %w", i, err)
		}
		// grows with the bytes actually read, not with the header's claim
		buf.Reset()
		if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: mip %d truncated at %d of %d bytes",
					texture.ErrMalformedInput, i, buf.Len(), n)
			}
			return nil, fmt.Errorf("read mip %d: %w", i, err)
		}
		level, err := texture.BlockTextureFromBytes(buf.Bytes(), s.X, s.Y, format.BlockSize)
		if err != nil {
			return nil, err
		}
		f.Mips = append(f.Mips, level)
	}
	return f, nil
}

// ReadFile reads a .dds or LZ4-framed .dds file.
func ReadFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer in.Close()
	f, err := Read(in)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return f, nil
}

// Write serializes the header followed by every mip level.
func (f *File) Write(w io.Writer) error {
	if err := f.Header.write(w); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, m := range f.Mips {
		if _, err := w.Write(m.Bytes()); err != nil {
			return fmt.Errorf("write mip %d: %w", i, err)
		}
	}
	return nil
}

// WriteFile writes f to path, inside an LZ4 frame when compress is set.
func (f *File) WriteFile(path string, compress bool) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(out)
	if compress {
		zw := lz4.NewWriter(bw)
		if err := f.Write(zw); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compress %q: %w", path, err)
		}
	} else if err := f.Write(bw); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// Encode builds a DDS file from img. The encoder must produce blocks of the
// size fourCC implies. A mipCount of zero or less builds the full chain.
// Partial edge blocks are filled by repeating the last row and column.
func Encode(img image.Image, enc s3tc.TextureEncoder, fourCC string, mipCount int) (*File, error) {
	format, err := LookupFormat(fourCC)
	if err != nil {
		return nil, err
	}
	if enc.BlockSize() != format.BlockSize {
		return nil, fmt.Errorf("%w: %d byte blocks can't be stored as %s",
			texture.ErrUnsupportedFormat, enc.BlockSize(), fourCC)
	}

	levels, err := mip.Chain(img, mipCount)
	if err != nil {
		return nil, err
	}
	f := &File{Format: format}
	for i, level := range levels {
		w, h := level.Bounds().Dx(), level.Bounds().Dy()
		raw, err := texture.FromImage(mip.Pad(level, texture.BlockWidth))
		if err != nil {
			return nil, err
		}
		padded, err := enc.EncodeTexture(raw)
		if err != nil {
			return nil, fmt.Errorf("encode mip %d: %w", i, err)
		}
		// same block grid, original pixel size
		blocks, err := texture.BlockTextureFromBytes(padded.Bytes(), w, h, format.BlockSize)
		if err != nil {
			return nil, err
		}
		f.Mips = append(f.Mips, blocks)
	}

	base := f.Mips[0]
	f.Header = Header{
		Flags:             FlagCaps | FlagHeight | FlagWidth | FlagPixelFormat | FlagLinearSize,
		Height:            uint32(base.Height()),
		Width:             uint32(base.Width()),
		PitchOrLinearSize: uint32(base.NBytes()),
		Depth:             1,
		MipMapCount:       uint32(len(f.Mips)),
		PixelFormat: PixelFormat{
			Flags:  PixelFourCC,
			FourCC: format.fourCCBytes(),
		},
		Caps: [4]uint32{CapsTexture},
	}
	if len(f.Mips) > 1 {
		f.Header.Flags |= FlagMipMapCount
		f.Header.Caps[0] |= CapsComplex | CapsMipMap
	}
	return f, nil
}

// Decode expands mip level i to an image.
func (f *File) Decode(i int) (*image.NRGBA, error) {
	if i < 0 || i >= len(f.Mips) {
		return nil, fmt.Errorf("%w: mip %d of %d", texture.ErrOutOfRange, i, len(f.Mips))
	}
	dec, err := f.Format.Decoder(f.Interpolator, f.Channels...)
	if err != nil {
		return nil, err
	}
	raw, err := dec.DecodeTexture(f.Mips[i])
	if err != nil {
		return nil, fmt.Errorf("decode mip %d: %w", i, err)
	}
	return raw.NRGBA(), nil
}

// DecodeAll expands every mip level.
func (f *File) DecodeAll() ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, len(f.Mips))
	for i := range f.Mips {
		img, err := f.Decode(i)
		if err != nil {
			return nil, err
		}
		out[i] = img
	}
	return out, nil
}
