package bc4

import (
	"fmt"
	"image/color"

	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/texture"
)

// Decoder expands BC4 blocks into one channel of an otherwise opaque black
// texture.
type Decoder struct {
	channel int
}

var _ s3tc.TextureDecoder = (*Decoder)(nil)

// NewDecoder writes the decoded values to channel 0 (red) through 3 (alpha).
func NewDecoder(channel int) (*Decoder, error) {
	if err := CheckChannel(channel); err != nil {
		return nil, err
	}
	return &Decoder{channel: channel}, nil
}

// BlockSize implements s3tc.TextureDecoder.
func (d *Decoder) BlockSize() int { return BlockSize }

// DecodeBlock overwrites tile with opaque black and then fills the decoder's
// channel.
func (d *Decoder) DecodeBlock(b Block, tile *texture.Tile) {
	for i := range tile {
		tile[i] = color.RGBA{A: 255}
	}
	DecodeInto(b, tile, d.channel)
}

// DecodeInto writes only the given channel of tile, leaving the rest as is.
// The composite formats use it to layer blocks.
func DecodeInto(b Block, tile *texture.Tile, channel int) {
	table := b.Values()
	for i := range tile {
		*channelPtr(&tile[i], channel) = table[uint8(b.Bits>>(3*uint(i)))&7]
	}
}

// Decode expands a whole texture.
func (d *Decoder) Decode(t *Texture) (*texture.RawTexture, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil bc4 texture", texture.ErrMalformedInput)
	}
	return d.DecodeTexture(t.BlockTexture)
}

// DecodeTexture implements s3tc.TextureDecoder.
func (d *Decoder) DecodeTexture(blocks *texture.BlockTexture) (*texture.RawTexture, error) {
	raw, err := s3tc.DecodeBlocks(blocks, BlockSize, func(src []byte, tile *texture.Tile) {
		d.DecodeBlock(Parse(src), tile)
	})
	if err != nil {
		return nil, fmt.Errorf("bc4 decode: %w", err)
	}
	return raw, nil
}

// CheckChannel accepts channel indices 0 (red) through 3 (alpha).
func CheckChannel(channel int) error {
	if channel < 0 || channel > 3 {
		return fmt.Errorf("%w: channel %d", texture.ErrOutOfRange, channel)
	}
	return nil
}

func channelPtr(c *color.RGBA, channel int) *uint8 {
	switch channel {
	case 0:
		return &c.R
	case 1:
		return &c.G
	case 2:
		return &c.B
	default:
		return &c.A
	}
}

func channelOf(c *color.RGBA, channel int) uint8 { return *channelPtr(c, channel) }
