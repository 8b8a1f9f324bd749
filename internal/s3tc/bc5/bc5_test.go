package bc5

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/woozymasta/bcn"

	"github.com/erinpentecost/bcpack/internal/texture"
)

func TestBlockBytesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 50; i++ {
		data := make([]byte, BlockSize)
		rng.Read(data)
		b, err := FromBytes(data)
		require.NoError(t, err)
		require.Equal(t, data, b.Bytes())
	}
	_, err := FromBytes(nil)
	require.ErrorIs(t, err, texture.ErrMalformedInput)
}

func TestEncodeDecodeNormals(t *testing.T) {
	raw, err := texture.NewRawTexture(8, 8)
	require.NoError(t, err)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			require.NoError(t, raw.SetPixel(x, y, color.RGBA{uint8(128 + x), uint8(128 - y), 255, 255}))
		}
	}

	var c Codec
	tex, err := c.Encode(raw)
	require.NoError(t, err)
	out, err := c.Decode(tex)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			got, err := out.Pixel(x, y)
			require.NoError(t, err)
			require.InDelta(t, 128+x, int(got.R), 1)
			require.InDelta(t, 128-y, int(got.G), 1)
			require.Equal(t, uint8(0), got.B)
			require.Equal(t, uint8(255), got.A)
		}
	}
}

func TestDecodeMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	data := make([]byte, 4*BlockSize)
	rng.Read(data)
	tex, err := TextureFromBytes(data, 8, 8)
	require.NoError(t, err)

	ours, err := Codec{}.Decode(tex)
	require.NoError(t, err)
	img, err := bcn.DecodeImageWithOptions(tex.Bytes(), 8, 8, bcn.FormatBC5, nil)
	require.NoError(t, err)
	ref, err := texture.FromImage(img)
	require.NoError(t, err)

	for i := 0; i < ours.NBytes(); i += 4 {
		require.InDelta(t, ours.Bytes()[i], ref.Bytes()[i], 1, "red %d", i/4)
		require.InDelta(t, ours.Bytes()[i+1], ref.Bytes()[i+1], 1, "green %d", i/4)
	}
}

func TestChannelSelection(t *testing.T) {
	r, g := Codec{}.Channels()
	require.Equal(t, 0, r)
	require.Equal(t, 1, g)

	c, err := NewCodec(2, 3)
	require.NoError(t, err)
	ch0, ch1 := c.Channels()
	require.Equal(t, 2, ch0)
	require.Equal(t, 3, ch1)

	raw, err := texture.NewRawTexture(8, 4)
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			require.NoError(t, raw.SetPixel(x, y, color.RGBA{200, 100, uint8(x % 2 * 210), uint8(70 + y/2*70)}))
		}
	}
	tex, err := c.Encode(raw)
	require.NoError(t, err)

	// the red and green BC5 halves hold blue and alpha
	rg, err := Codec{}.Decode(tex)
	require.NoError(t, err)
	out, err := c.Decode(tex)
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			got, err := out.Pixel(x, y)
			require.NoError(t, err)
			// two values per block land exactly on the endpoints
			require.Equal(t, uint8(x%2*210), got.B)
			require.Equal(t, uint8(70+y/2*70), got.A)
			require.Equal(t, uint8(0), got.R)
			require.Equal(t, uint8(0), got.G)

			swapped, err := rg.Pixel(x, y)
			require.NoError(t, err)
			require.Equal(t, got.B, swapped.R)
			require.Equal(t, got.A, swapped.G)
		}
	}

	for _, pair := range [][2]int{{0, 4}, {-1, 1}, {2, 2}} {
		_, err := NewCodec(pair[0], pair[1])
		require.ErrorIs(t, err, texture.ErrOutOfRange, "%v", pair)
	}
}
