package bc1

import (
	"fmt"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// Texture is a grid of BC1 blocks.
type Texture struct {
	*texture.BlockTexture
}

// NewTexture allocates a zeroed BC1 texture.
func NewTexture(width, height int) (*Texture, error) {
	bt, err := texture.NewBlockTexture(width, height, BlockSize)
	if err != nil {
		return nil, err
	}
	return &Texture{BlockTexture: bt}, nil
}

// TextureFromBytes wraps a copy of already encoded BC1 data.
func TextureFromBytes(data []byte, width, height int) (*Texture, error) {
	bt, err := texture.BlockTextureFromBytes(data, width, height, BlockSize)
	if err != nil {
		return nil, fmt.Errorf("bc1: %w", err)
	}
	return &Texture{BlockTexture: bt}, nil
}

// Block returns block (bx, by). Negative coordinates count from the end.
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
