// Package bc5 implements BC5 (ATI2): two independent BC4 blocks per tile,
// by default carrying the red and green channels of a tangent-space normal
// map.
package bc5

import (
	"fmt"
	"image/color"

	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc4"
	"github.com/erinpentecost/bcpack/internal/texture"
)

// BlockSize is the encoded size of one BC5 block in bytes.
const BlockSize = 2 * bc4.BlockSize

// Block holds the first channel's block followed by the second's.
type Block struct {
	First  bc4.Block
	Second bc4.Block
}

// FromBytes reads a block from its 16-byte encoding.
func FromBytes(data []byte) (Block, error) {
	if len(data) != BlockSize {
		return Block{}, fmt.Errorf("%w: bc5 block needs %d bytes, got %d", texture.ErrMalformedInput, BlockSize, len(data))
	}
	return Parse(data), nil
}

// Parse reads a block from the first BlockSize bytes of data.
func Parse(data []byte) Block {
	return Block{
		First:  bc4.Parse(data[:bc4.BlockSize]),
		Second: bc4.Parse(data[bc4.BlockSize:BlockSize]),
	}
}

// Bytes returns the 16-byte encoding.
func (b Block) Bytes() []byte {
	out := make([]byte, BlockSize)
	b.Put(out)
	return out
}

// Put writes the encoding into dst.
func (b Block) Put(dst []byte) {
	b.First.Put(dst[:bc4.BlockSize])
	b.Second.Put(dst[bc4.BlockSize:BlockSize])
}

// Codec encodes and decodes BC5 for a pair of channels. The zero value
// uses red and green.
type Codec struct {
	// second is stored minus one so the zero value means (0, 1)
	first, second int
}

var (
	_ s3tc.TextureEncoder = Codec{}
	_ s3tc.TextureDecoder = Codec{}
)

// NewCodec stores channel ch0 in the first block and ch1 in the second,
// each 0 (red) through 3 (alpha).
func NewCodec(ch0, ch1 int) (Codec, error) {
	for _, ch := range []int{ch0, ch1} {
		if err := bc4.CheckChannel(ch); err != nil {
			return Codec{}, err
		}
	}
	if ch0 == ch1 {
		return Codec{}, fmt.Errorf("%w: both bc5 channels are %d", texture.ErrOutOfRange, ch0)
	}
	return Codec{first: ch0, second: ch1 - 1}, nil
}

// Channels returns the channels stored in the first and second block.
func (c Codec) Channels() (int, int) { return c.first, c.second + 1 }

// BlockSize implements s3tc.TextureEncoder and s3tc.TextureDecoder.
func (Codec) BlockSize() int { return BlockSize }

// EncodeBlock compresses the codec's two channels of tile.
func (c Codec) EncodeBlock(tile *texture.Tile) Block {
	ch0, ch1 := c.Channels()
	return Block{
		First:  bc4.EncodeChannel(tile, ch0),
		Second: bc4.EncodeChannel(tile, ch1),
	}
}

// DecodeBlock overwrites tile with opaque black, then fills the codec's
// two channels.
func (c Codec) DecodeBlock(b Block, tile *texture.Tile) {
	for i := range tile {
		tile[i] = color.RGBA{A: 255}
	}
	ch0, ch1 := c.Channels()
	bc4.DecodeInto(b.First, tile, ch0)
	bc4.DecodeInto(b.Second, tile, ch1)
}

// Encode compresses a whole texture.
func (c Codec) Encode(raw *texture.RawTexture) (*Texture, error) {
	blocks, err := s3tc.EncodeBlocks(raw, BlockSize, func(tile *texture.Tile, dst []byte) {
		c.EncodeBlock(tile).Put(dst)
	})
	if err != nil {
		return nil, fmt.Errorf("bc5 encode: %w", err)
	}
	return &Texture{BlockTexture: blocks}, nil
}

// EncodeTexture implements s3tc.TextureEncoder.
func (c Codec) EncodeTexture(raw *texture.RawTexture) (*texture.BlockTexture, error) {
	t, err := c.Encode(raw)
	if err != nil {
		return nil, err
	}
	return t.BlockTexture, nil
}

// Decode expands a whole texture.
func (c Codec) Decode(t *Texture) (*texture.RawTexture, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil bc5 texture", texture.ErrMalformedInput)
	}
	return c.DecodeTexture(t.BlockTexture)
}

// DecodeTexture implements s3tc.TextureDecoder.
func (c Codec) DecodeTexture(blocks *texture.BlockTexture) (*texture.RawTexture, error) {
	raw, err := s3tc.DecodeBlocks(blocks, BlockSize, func(src []byte, tile *texture.Tile) {
		c.DecodeBlock(Parse(src), tile)
	})
	if err != nil {
		return nil, fmt.Errorf("bc5 decode: %w", err)
	}
	return raw, nil
}

// Texture is a grid of BC5 blocks.
type Texture struct {
	*texture.BlockTexture
}

// NewTexture allocates a zeroed BC5 texture.
func NewTexture(width, height int) (*Texture, error) {
	bt, err := texture.NewBlockTexture(width, height, BlockSize)
	if err != nil {
		return nil, err
	}
	return &Texture{BlockTexture: bt}, nil
}

// TextureFromBytes wraps a copy of already encoded BC5 data.
func TextureFromBytes(data []byte, width, height int) (*Texture, error) {
	bt, err := texture.BlockTextureFromBytes(data, width, height, BlockSize)
	if err != nil {
		return nil, fmt.Errorf("bc5: %w", err)
	}
	return &Texture{BlockTexture: bt}, nil
}

// Block returns block (bx, by).
func (t *Texture) Block(bx, by int) (Block, error) {
	b, err := t.BlockBytes(bx, by)
	if err != nil {
		return Block{}, err
	}
	return Parse(b), nil
}

// SetBlock stores b at (bx, by).
func (t *Texture) SetBlock(bx, by int, b Block) error {
	dst, err := t.BlockBytes(bx, by)
	if err != nil {
		return err
	}
	b.Put(dst)
	return nil
}
