package bc1

import (
	"fmt"

	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/texture"
)

// Decoder expands BC1 blocks to RGBA. 3-color blocks decode selector 3 as
// transparent black.
type Decoder struct {
	ip Interpolator
}

var _ s3tc.TextureDecoder = (*Decoder)(nil)

// NewDecoder returns a decoder that rounds the implied colors like ip.
func NewDecoder(ip Interpolator) (*Decoder, error) {
	if !ip.valid() {
		return nil, fmt.Errorf("bc1: unknown interpolator %d", int(ip))
	}
	return &Decoder{ip: ip}, nil
}

// BlockSize implements s3tc.TextureDecoder.
func (d *Decoder) BlockSize() int { return BlockSize }

// DecodeBlock overwrites all 16 pixels of tile.
func (d *Decoder) DecodeBlock(b Block, tile *texture.Tile) {
	pal := d.ip.BlockPalette(b, false)
	for i := range tile {
		tile[i] = pal[b.Selector(i%4, i/4)]
	}
}

// DecodeColor writes only the RGB channels of tile, always reading the block
// as 4-color. This is how the color half of a BC3 block is read.
func (d *Decoder) DecodeColor(b Block, tile *texture.Tile) {
	pal := d.ip.BlockPalette(b, true)
	for i := range tile {
		c := pal[b.Selector(i%4, i/4)]
		tile[i].R, tile[i].G, tile[i].B = c.R, c.G, c.B
	}
}

// Decode expands a whole texture.
func (d *Decoder) Decode(t *Texture) (*texture.RawTexture, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil bc1 texture", texture.ErrMalformedInput)
	}
	return d.DecodeTexture(t.BlockTexture)
}

// DecodeTexture implements s3tc.TextureDecoder.
func (d *Decoder) DecodeTexture(blocks *texture.BlockTexture) (*texture.RawTexture, error) {
	raw, err := s3tc.DecodeBlocks(blocks, BlockSize, func(src []byte, tile *texture.Tile) {
		d.DecodeBlock(Parse(src), tile)
	})
	if err != nil {
		return nil, fmt.Errorf("bc1 decode: %w", err)
	}
	return raw, nil
}
