// Package bc3 implements BC3 (DXT5): a BC4 alpha block followed by a
// 4-color BC1 color block for each 4x4 tile.
package bc3

import (
	"fmt"

	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc1"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc4"
	"github.com/erinpentecost/bcpack/internal/texture"
)

// BlockSize is the encoded size of one BC3 block in bytes.
const BlockSize = bc4.BlockSize + bc1.BlockSize

// Block pairs the alpha and color halves of a tile.
type Block struct {
	Alpha bc4.Block
	Color bc1.Block
}

// FromBytes reads a block from its 16-byte encoding.
func FromBytes(data []byte) (Block, error) {
	if len(data) != BlockSize {
		return Block{}, fmt.Errorf("%w: bc3 block needs %d bytes, got %d", texture.ErrMalformedInput, BlockSize, len(data))
	}
	return Parse(data), nil
}

// Parse reads a block from the first BlockSize bytes of data.
func Parse(data []byte) Block {
	return Block{
		Alpha: bc4.Parse(data[:bc4.BlockSize]),
		Color: bc1.Parse(data[bc4.BlockSize:BlockSize]),
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
	b.Alpha.Put(dst[:bc4.BlockSize])
	b.Color.Put(dst[bc4.BlockSize:BlockSize])
}

// Encoder compresses RGBA pixels into BC3 blocks.
type Encoder struct {
	color *bc1.Encoder
}

var _ s3tc.TextureEncoder = (*Encoder)(nil)

// NewEncoder builds the color encoder from opts. Decoders always read BC3
// color blocks as 4-color, so opts.ColorMode is replaced with FourColor.
func NewEncoder(opts bc1.Options) (*Encoder, error) {
	opts.ColorMode = bc1.FourColor
	c, err := bc1.NewEncoder(opts)
	if err != nil {
		return nil, err
	}
	return &Encoder{color: c}, nil
}

// BlockSize implements s3tc.TextureEncoder.
func (e *Encoder) BlockSize() int { return BlockSize }

// EncodeBlock compresses one tile.
func (e *Encoder) EncodeBlock(tile *texture.Tile) Block {
	return Block{
		Alpha: bc4.EncodeChannel(tile, 3),
		Color: e.color.EncodeBlock(tile),
	}
}

// Encode compresses a whole texture.
func (e *Encoder) Encode(raw *texture.RawTexture) (*Texture, error) {
	blocks, err := s3tc.EncodeBlocks(raw, BlockSize, func(tile *texture.Tile, dst []byte) {
		e.EncodeBlock(tile).Put(dst)
	})
	if err != nil {
		return nil, fmt.Errorf("bc3 encode: %w", err)
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

// Decoder expands BC3 blocks to RGBA.
type Decoder struct {
	color *bc1.Decoder
}

var _ s3tc.TextureDecoder = (*Decoder)(nil)

// NewDecoder rounds the implied colors like ip.
func NewDecoder(ip bc1.Interpolator) (*Decoder, error) {
	c, err := bc1.NewDecoder(ip)
	if err != nil {
		return nil, err
	}
	return &Decoder{color: c}, nil
}

// BlockSize implements s3tc.TextureDecoder.
func (d *Decoder) BlockSize() int { return BlockSize }

// DecodeBlock overwrites all 16 pixels of tile.
func (d *Decoder) DecodeBlock(b Block, tile *texture.Tile) {
	d.color.DecodeColor(b.Color, tile)
	bc4.DecodeInto(b.Alpha, tile, 3)
}

// Decode expands a whole texture.
func (d *Decoder) Decode(t *Texture) (*texture.RawTexture, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil bc3 texture", texture.ErrMalformedInput)
	}
	return d.DecodeTexture(t.BlockTexture)
}

// DecodeTexture implements s3tc.TextureDecoder.
func (d *Decoder) DecodeTexture(blocks *texture.BlockTexture) (*texture.RawTexture, error) {
	raw, err := s3tc.DecodeBlocks(blocks, BlockSize, func(src []byte, tile *texture.Tile) {
		d.DecodeBlock(Parse(src), tile)
	})
	if err != nil {
		return nil, fmt.Errorf("bc3 decode: %w", err)
	}
	return raw, nil
}

// Texture is a grid of BC3 blocks.
type Texture struct {
	*texture.BlockTexture
}

// NewTexture allocates a zeroed BC3 texture.
func NewTexture(width, height int) (*Texture, error) {
	bt, err := texture.NewBlockTexture(width, height, BlockSize)
	if err != nil {
		return nil, err
	}
	return &Texture{BlockTexture: bt}, nil
}

// TextureFromBytes wraps a copy of already encoded BC3 data.
func TextureFromBytes(data []byte, width, height int) (*Texture, error) {
	bt, err := texture.BlockTextureFromBytes(data, width, height, BlockSize)
	if err != nil {
		return nil, fmt.Errorf("bc3: %w", err)
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
