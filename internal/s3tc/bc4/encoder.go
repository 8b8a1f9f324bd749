package bc4

import (
	"fmt"

	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/texture"
)

// Encoder compresses one channel of each pixel into BC4 blocks.
type Encoder struct {
	channel int
}

var _ s3tc.TextureEncoder = (*Encoder)(nil)

// NewEncoder reads channel 0 (red) through 3 (alpha).
func NewEncoder(channel int) (*Encoder, error) {
	if err := CheckChannel(channel); err != nil {
		return nil, err
	}
	return &Encoder{channel: channel}, nil
}

// BlockSize implements s3tc.TextureEncoder.
func (e *Encoder) BlockSize() int { return BlockSize }

// EncodeBlock compresses the encoder's channel of tile.
func (e *Encoder) EncodeBlock(tile *texture.Tile) Block {
	return EncodeChannel(tile, e.channel)
}

// EncodeChannel compresses one channel of tile. Both layouts are tried and
// the 8-value one wins ties.
func EncodeChannel(tile *texture.Tile, channel int) Block {
	var px [16]uint8
	lo, hi := uint8(255), uint8(0)
	for i := range tile {
		px[i] = channelOf(&tile[i], channel)
		lo, hi = min(lo, px[i]), max(hi, px[i])
	}
	if lo == hi {
		return Block{Endpoint0: lo, Endpoint1: lo}
	}

	best, bestErr := fit(&px, hi, lo)

	// 6-value mode can spend its ramp on the interior values when the
	// extremes are exactly 0 or 255.
	ilo, ihi := uint8(255), uint8(0)
	for _, v := range px {
		if v != 0 && v != 255 {
			ilo, ihi = min(ilo, v), max(ihi, v)
		}
	}
	if ilo <= ihi && (lo == 0 || hi == 255) {
		if b, err := fit(&px, ilo, ihi); err < bestErr {
			best = b
		}
	}
	return best
}

// fit assigns each value its nearest table entry, ties going to the lower
// index, and returns the block with its squared error.
func fit(px *[16]uint8, e0, e1 uint8) (Block, int) {
	table := values(e0, e1)
	b := Block{Endpoint0: e0, Endpoint1: e1}
	total := 0
	for i, v := range px {
		best, bestErr := 0, 1<<30
		for j, t := range table {
			d := int(v) - int(t)
			if d*d < bestErr {
				best, bestErr = j, d*d
			}
		}
		b.Bits |= uint64(best) << (3 * uint(i))
		total += bestErr
	}
	return b, total
}

// Encode compresses a whole texture.
func (e *Encoder) Encode(raw *texture.RawTexture) (*Texture, error) {
	blocks, err := s3tc.EncodeBlocks(raw, BlockSize, func(tile *texture.Tile, dst []byte) {
		e.EncodeBlock(tile).Put(dst)
	})
	if err != nil {
		return nil, fmt.Errorf("bc4 encode: %w", err)
	}
	return &Texture{BlockTexture: blocks}, nil
}

// EncodeTexture implements s3tc.TextureEncoder.
func (e *Encoder) EncodeTexture(raw *texture.RawTexture) (*texture.BlockTexture, error) {
	t, err := e.Encode(raw)
	if err != nil {
		return nil, err
	}
	return t.BlockTexture, nil
}
