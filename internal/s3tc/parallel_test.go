package s3tc

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/bcpack/internal/texture"
)

func TestEncodeBlocksVisitsEveryTile(t *testing.T) {
	raw, err := texture.NewRawTexture(10, 6)
	require.NoError(t, err)
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			require.NoError(t, raw.SetPixel(x, y, color.RGBA{uint8(x), uint8(y), 7, 255}))
		}
	}

	blocks, err := EncodeBlocks(raw, 2, func(tile *texture.Tile, dst []byte) {
		dst[0], dst[1] = tile[0].R, tile[0].G
	})
	require.NoError(t, err)
	require.Equal(t, 3, blocks.BlocksWide())
	require.Equal(t, 2, blocks.BlocksHigh())
	require.Equal(t, []byte{0, 0, 4, 0, 8, 0, 0, 4, 4, 4, 8, 4}, blocks.Bytes())
}

func TestDecodeBlocks(t *testing.T) {
	blocks, err := texture.BlockTextureFromBytes([]byte{10, 20, 30, 40}, 5, 3, 2)
	require.NoError(t, err)

	raw, err := DecodeBlocks(blocks, 2, func(src []byte, tile *texture.Tile) {
		for i := range tile {
			tile[i] = color.RGBA{src[0], src[1], 0, 255}
		}
	})
	require.NoError(t, err)
	w, h := raw.Size()
	require.Equal(t, 5, w)
	require.Equal(t, 3, h)

	c, err := raw.Pixel(4, 2)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{30, 40, 0, 255}, c)
	c, err = raw.Pixel(3, 0)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{10, 20, 0, 255}, c)

	_, err = DecodeBlocks(blocks, 8, func([]byte, *texture.Tile) {})
	require.ErrorIs(t, err, texture.ErrMalformedInput)
}
