package dds

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/bcpack/internal/s3tc/bc1"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc4"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc5"
	"github.com/erinpentecost/bcpack/internal/texture"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return img
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		copy(img.Pix[i*4:], []byte{c.R, c.G, c.B, c.A})
	}
	return img
}

func bc1Encoder(t *testing.T) *bc1.Encoder {
	t.Helper()
	enc, err := bc1.NewEncoder(bc1.DefaultOptions())
	require.NoError(t, err)
	return enc
}

// encoded returns a serialized single-mip 8x8 DXT1 file.
func encoded(t *testing.T) []byte {
	t.Helper()
	f, err := Encode(gradient(8, 8), bc1Encoder(t), "DXT1", 1)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestEncodeFullChain(t *testing.T) {
	f, err := Encode(gradient(16, 8), bc1Encoder(t), "DXT1", 0)
	require.NoError(t, err)
	require.Len(t, f.Mips, 5)
	require.Equal(t, uint32(5), f.Header.MipMapCount)
	require.Equal(t, uint32(64), f.Header.PitchOrLinearSize)
	require.NotZero(t, f.Header.Flags&FlagMipMapCount)
	require.Equal(t, uint32(CapsTexture|CapsComplex|CapsMipMap), f.Header.Caps[0])

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	// 128 header bytes, then 64 + 16 + 8 + 8 + 8 block bytes
	require.Equal(t, 232, buf.Len())

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, f.Header, got.Header)
	require.Equal(t, BC1.FourCC, got.Format.FourCC)
	require.Len(t, got.Mips, len(f.Mips))
	for i := range f.Mips {
		require.Equal(t, f.Mips[i].Width(), got.Mips[i].Width())
		require.Equal(t, f.Mips[i].Height(), got.Mips[i].Height())
		require.Equal(t, f.Mips[i].Bytes(), got.Mips[i].Bytes(), "mip %d", i)
	}
}

func TestEncodeSingleMipFlags(t *testing.T) {
	f, err := Encode(gradient(8, 8), bc1Encoder(t), "DXT1", 1)
	require.NoError(t, err)
	require.Len(t, f.Mips, 1)
	require.Equal(t, uint32(FlagCaps|FlagHeight|FlagWidth|FlagPixelFormat|FlagLinearSize), f.Header.Flags)
	require.Equal(t, uint32(CapsTexture), f.Header.Caps[0])
	require.Equal(t, "DXT1", f.Header.PixelFormat.FourCCString())
	require.Equal(t, 1, f.Header.Mips())
}

func TestReadRejects(t *testing.T) {
	for _, tc := range []struct {
		name  string
		patch func(b []byte) []byte
		want  error
	}{
		{"magic", func(b []byte) []byte { copy(b, "XDS "); return b }, ErrBadMagic},
		{"short", func(b []byte) []byte { return b[:2] }, ErrBadMagic},
		{"header size", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[4:], 100)
			return b
		}, ErrBadHeaderSize},
		{"pixel format size", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[4+pfOffset:], 16)
			return b
		}, ErrBadHeaderSize},
		{"dx10", func(b []byte) []byte { copy(b[4+pfOffset+8:], "DX10"); return b }, ErrDX10},
		{"dxt3", func(b []byte) []byte { copy(b[4+pfOffset+8:], "DXT3"); return b }, texture.ErrUnsupportedFormat},
		{"no fourcc", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[4+pfOffset+4:], PixelRGB)
			return b
		}, texture.ErrUnsupportedFormat},
		{"volume", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[4+capsOffset+4:], Caps2Volume)
			return b
		}, texture.ErrUnsupportedFormat},
		{"truncated", func(b []byte) []byte { return b[:len(b)-1] }, texture.ErrMalformedInput},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tc.patch(encoded(t))))
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := Read(bytes.NewReader([]byte("XDS ")))
	require.ErrorIs(t, err, texture.ErrMalformedInput)
}

func TestReadHugeDimensions(t *testing.T) {
	for _, tc := range []struct {
		name   string
		fourCC string
		size   uint32
	}{
		{"overflow dxt5", "DXT5", 0xFFFFFFFF},
		{"overflow dxt1", "DXT1", 0xFFFFFFFF},
		{"no payload", "DXT5", 65536},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := encoded(t)
			copy(b[4+pfOffset+8:], tc.fourCC)
			binary.LittleEndian.PutUint32(b[4+8:], tc.size)
			binary.LittleEndian.PutUint32(b[4+12:], tc.size)

			f, err := Read(bytes.NewReader(b[:len(magic)+headerSize]))
			require.ErrorIs(t, err, texture.ErrMalformedInput)
			require.Nil(t, f)
		})
	}
}

func TestLZ4RoundTrip(t *testing.T) {
	f, err := Encode(gradient(12, 12), bc1Encoder(t), "DXT1", 0)
	require.NoError(t, err)

	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.dds")
	packed := filepath.Join(dir, "packed.dds")
	require.NoError(t, f.WriteFile(plain, false))
	require.NoError(t, f.WriteFile(packed, true))

	raw, err := os.ReadFile(packed)
	require.NoError(t, err)
	require.Equal(t, lz4Magic, raw[:4])
	raw, err = os.ReadFile(plain)
	require.NoError(t, err)
	require.Equal(t, []byte(magic), raw[:4])

	for _, path := range []string{plain, packed} {
		got, err := ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, f.Header, got.Header)
		require.Len(t, got.Mips, len(f.Mips))
		for i := range f.Mips {
			require.Equal(t, f.Mips[i].Bytes(), got.Mips[i].Bytes())
		}
	}

	_, err = ReadFile(filepath.Join(dir, "missing.dds"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeBC4(t *testing.T) {
	enc, err := bc4.NewEncoder(0)
	require.NoError(t, err)
	f, err := Encode(solid(6, 5, color.NRGBA{100, 30, 30, 255}), enc, "ATI1", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, BC4.FourCC, got.Format.FourCC)

	img, err := got.Decode(0)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 6, 5), img.Bounds())
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			require.Equal(t, color.NRGBA{100, 0, 0, 255}, img.NRGBAAt(x, y))
		}
	}

	_, err = got.Decode(1)
	require.ErrorIs(t, err, texture.ErrOutOfRange)

	got.Channels = []int{2}
	img, err = got.Decode(0)
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{0, 0, 100, 255}, img.NRGBAAt(5, 4))

	got.Channels = []int{4}
	_, err = got.Decode(0)
	require.ErrorIs(t, err, texture.ErrOutOfRange)
}

func TestDecodeBC5Channels(t *testing.T) {
	enc, err := bc5.NewCodec(2, 0)
	require.NoError(t, err)
	f, err := Encode(solid(4, 4, color.NRGBA{90, 0, 30, 255}), enc, "ATI2", 1)
	require.NoError(t, err)

	img, err := f.Decode(0)
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{30, 90, 0, 255}, img.NRGBAAt(0, 0))

	f.Channels = []int{2, 0}
	img, err = f.Decode(0)
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{90, 0, 30, 255}, img.NRGBAAt(3, 3))

	f.Channels = []int{1}
	_, err = f.Decode(0)
	require.ErrorIs(t, err, texture.ErrOutOfRange)
}

func TestEncodeFormatMismatch(t *testing.T) {
	enc, err := bc4.NewEncoder(0)
	require.NoError(t, err)
	_, err = Encode(gradient(4, 4), enc, "DXT5", 1)
	require.ErrorIs(t, err, texture.ErrUnsupportedFormat)
	_, err = Encode(gradient(4, 4), enc, "DX10", 1)
	require.ErrorIs(t, err, ErrDX10)
}

func TestDecodeAll(t *testing.T) {
	want := color.NRGBA{200, 40, 80, 255}
	f, err := Encode(solid(16, 8, want), bc1Encoder(t), "DXT1", 0)
	require.NoError(t, err)

	levels, err := f.DecodeAll()
	require.NoError(t, err)
	require.Len(t, levels, 5)
	for i, img := range levels {
		w, h := f.Mips[i].Size()
		require.Equal(t, image.Rect(0, 0, w, h), img.Bounds())
		for p := 0; p < w*h; p++ {
			got := img.Pix[p*4 : p*4+4]
			require.InDelta(t, want.R, got[0], 8, "mip %d", i)
			require.InDelta(t, want.G, got[1], 8, "mip %d", i)
			require.InDelta(t, want.B, got[2], 8, "mip %d", i)
			require.Equal(t, uint8(255), got[3])
		}
	}
}

func TestLookupFormat(t *testing.T) {
	for fourCC, want := range map[string]Format{
		"DXT1": BC1, "DXT5": BC3, "ATI1": BC4, "BC4U": BC4, "ATI2": BC5, "BC5U": BC5,
	} {
		got, err := LookupFormat(fourCC)
		require.NoError(t, err)
		require.Equal(t, want.FourCC, got.FourCC)
		require.Equal(t, want.BlockSize, got.BlockSize)
	}
}
