package texture

import "fmt"

// BlockTexture is a grid of fixed-size compressed blocks covering an image.
// The pixel size need not be a multiple of 4; the grid is rounded up.
type BlockTexture struct {
	width     int
	height    int
	blockSize int
	bw, bh    int
	data      []byte
}

// BlockTextureSize is the byte length of the block grid covering a
// width x height image. It fails for non-positive sizes and sizes that
// overflow an int.
func BlockTextureSize(width, height, blockSize int) (int, error) {
	if err := checkDimensions(width, height); err != nil {
		return 0, err
	}
	if blockSize <= 0 {
		return 0, fmt.Errorf("%w: block size %d", ErrMalformedInput, blockSize)
	}
	return byteSize(blocksFor(width, BlockWidth), blocksFor(height, BlockHeight), blockSize)
}

func blocksFor(n, size int) int { return n/size + min(n%size, 1) }

// NewBlockTexture allocates a zeroed block grid for a width x height image
// where every block takes blockSize bytes.
func NewBlockTexture(width, height, blockSize int) (*BlockTexture, error) {
	n, err := BlockTextureSize(width, height, blockSize)
	if err != nil {
		return nil, err
	}
	return &BlockTexture{
		width:     width,
		height:    height,
		blockSize: blockSize,
		bw:        blocksFor(width, BlockWidth),
		bh:        blocksFor(height, BlockHeight),
		data:      make([]byte, n),
	}, nil
}

// BlockTextureFromBytes copies data into a new block texture. The length must
// match the block grid exactly.
func BlockTextureFromBytes(data []byte, width, height, blockSize int) (*BlockTexture, error) {
	t, err := NewBlockTexture(width, height, blockSize)
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("%w: block texture %dx%d needs %d bytes, got %d",
			ErrMalformedInput, width, height, len(t.data), len(data))
	}
	copy(t.data, data)
	return t, nil
}

// Width in pixels.
func (t *BlockTexture) Width() int { return t.width }

// Height in pixels.
func (t *BlockTexture) Height() int { return t.height }

// Size returns width and height in pixels.
func (t *BlockTexture) Size() (int, int) { return t.width, t.height }

// BlocksWide is the number of block columns.
func (t *BlockTexture) BlocksWide() int { return t.bw }

// BlocksHigh is the number of block rows.
func (t *BlockTexture) BlocksHigh() int { return t.bh }

// SizeBlocks returns the block grid dimensions.
func (t *BlockTexture) SizeBlocks() (int, int) { return t.bw, t.bh }

// BlockSize is the byte size of one block.
func (t *BlockTexture) BlockSize() int { return t.blockSize }

// NBytes is the total byte length of all blocks.
func (t *BlockTexture) NBytes() int { return len(t.data) }

// Bytes exposes the block data in row-major order.
func (t *BlockTexture) Bytes() []byte { return t.data }

// Offset returns the byte offset of block (bx, by). Negative coordinates
// count back from the far edge.
func (t *BlockTexture) Offset(bx, by int) (int, error) {
	x, y, err := normalize2(bx, by, t.bw, t.bh)
	if err != nil {
		return 0, fmt.Errorf("block (%d, %d): %w", bx, by, err)
	}
	return (y*t.bw + x) * t.blockSize, nil
}

// BlockBytes returns the bytes of block (bx, by). The slice aliases the
// texture storage.
func (t *BlockTexture) BlockBytes(bx, by int) ([]byte, error) {
	off, err := t.Offset(bx, by)
	if err != nil {
		return nil, err
	}
	return t.data[off : off+t.blockSize : off+t.blockSize], nil
}

// SetBlockBytes overwrites block (bx, by) with b, which must be exactly one
// block long.
func (t *BlockTexture) SetBlockBytes(bx, by int, b []byte) error {
	if len(b) != t.blockSize {
		return fmt.Errorf("%w: block needs %d bytes, got %d", ErrMalformedInput, t.blockSize, len(b))
	}
	off, err := t.Offset(bx, by)
	if err != nil {
		return err
	}
	copy(t.data[off:off+t.blockSize], b)
	return nil
}

// Validate checks the length invariant. Textures built through this package
// always pass; it guards values assembled by hand.
func (t *BlockTexture) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil block texture", ErrMalformedInput)
	}
	if want := t.bw * t.bh * t.blockSize; len(t.data) != want {
		return fmt.Errorf("%w: block texture %dx%d has %d bytes, want %d",
			ErrMalformedInput, t.width, t.height, len(t.data), want)
	}
	return nil
}

// Validate checks the length invariant of a raw texture.
func (t *RawTexture) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil raw texture", ErrMalformedInput)
	}
	if want := t.width * t.height * 4; len(t.pix) != want {
		return fmt.Errorf("%w: raw texture %dx%d has %d bytes, want %d",
			ErrMalformedInput, t.width, t.height, len(t.pix), want)
	}
	return nil
}
