package bc1

import (
	"encoding/binary"
	"fmt"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// BlockSize is the encoded size of one BC1 block in bytes.
const BlockSize = 8

// SelectorMax is the largest valid 2-bit selector.
const SelectorMax = 3

// Selectors is a 4x4 grid of per-pixel palette indices, indexed [y][x].
type Selectors [4][4]uint8

// Block is one BC1 (DXT1) block: two 565 endpoints and 16 2-bit selectors.
// The zero value is a valid all-black 3-color block.
type Block struct {
	Color0 uint16
	Color1 uint16
	// Rows holds one byte per pixel row; the leftmost pixel is in the low bits.
	Rows [4]uint8
}

// NewBlock builds a block from packed endpoints and a selector grid.
func NewBlock(color0, color1 uint16, sel Selectors) (Block, error) {
	b := Block{Color0: color0, Color1: color1}
	if err := b.SetSelectors(sel); err != nil {
		return Block{}, err
	}
	return b, nil
}

// FromBytes reads a block from its 8-byte little-endian encoding.
func FromBytes(data []byte) (Block, error) {
	if len(data) != BlockSize {
		return Block{}, fmt.Errorf("%w: bc1 block needs %d bytes, got %d", texture.ErrMalformedInput, BlockSize, len(data))
	}
	return Parse(data), nil
}

// Parse reads a block from the first BlockSize bytes of data without
// checking the length.
func Parse(data []byte) Block {
	return Block{
		Color0: binary.LittleEndian.Uint16(data[0:2]),
		Color1: binary.LittleEndian.Uint16(data[2:4]),
		Rows:   [4]uint8{data[4], data[5], data[6], data[7]},
	}
}

// Bytes returns the 8-byte encoding.
func (b Block) Bytes() []byte {
	out := make([]byte, BlockSize)
	b.Put(out)
	return out
}

// Put writes the encoding into dst, which must hold at least BlockSize bytes.
func (b Block) Put(dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], b.Color0)
	binary.LittleEndian.PutUint16(dst[2:4], b.Color1)
	copy(dst[4:8], b.Rows[:])
}

// Is3Color reports whether decoders treat this block as 3-color plus
// transparent black.
func (b Block) Is3Color() bool { return b.Color0 <= b.Color1 }

// Endpoints returns the two unpacked endpoint colors.
func (b Block) Endpoints() (Color565, Color565) {
	return Unpack565(b.Color0), Unpack565(b.Color1)
}

// Selector returns the palette index of pixel (x, y).
func (b Block) Selector(x, y int) uint8 {
	return (b.Rows[y] >> (2 * uint(x))) & 3
}

// Selectors unpacks all 16 palette indices.
func (b Block) Selectors() Selectors {
	var s Selectors
	for y := range s {
		for x := range s[y] {
			s[y][x] = b.Selector(x, y)
		}
	}
	return s
}

// SetSelectors packs sel into the block. Values above 3 are rejected.
func (b *Block) SetSelectors(sel Selectors) error {
	var rows [4]uint8
	for y := range sel {
		for x, v := range sel[y] {
			if v > SelectorMax {
				return fmt.Errorf("%w: bc1 selector %d at (%d, %d)", texture.ErrMalformedInput, v, x, y)
			}
			rows[y] |= v << (2 * uint(x))
		}
	}
	b.Rows = rows
	return nil
}

// fillRows packs the same selector into all 16 pixels.
func fillRows(v uint8) [4]uint8 {
	row := v | v<<2 | v<<4 | v<<6
	return [4]uint8{row, row, row, row}
}
