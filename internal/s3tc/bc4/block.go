package bc4

import (
	"fmt"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// BlockSize is the encoded size of one BC4 block in bytes.
const BlockSize = 8

// SelectorMax is the largest valid 3-bit selector.
const SelectorMax = 7

// Selectors is a 4x4 grid of per-pixel value indices, indexed [y][x].
type Selectors [4][4]uint8

// Block is one BC4 block: two 8-bit endpoints and 16 3-bit selectors packed
// into 48 bits, pixel 0 in the low bits.
type Block struct {
	Endpoint0 uint8
	Endpoint1 uint8
	Bits      uint64
}

// NewBlock builds a block from endpoints and a selector grid.
func NewBlock(e0, e1 uint8, sel Selectors) (Block, error) {
	b := Block{Endpoint0: e0, Endpoint1: e1}
	if err := b.SetSelectors(sel); err != nil {
		return Block{}, err
	}
	return b, nil
}

// FromBytes reads a block from its 8-byte encoding.
func FromBytes(data []byte) (Block, error) {
	if len(data) != BlockSize {
		return Block{}, fmt.Errorf("%w: bc4 block needs %d bytes, got %d", texture.ErrMalformedInput, BlockSize, len(data))
	}
	return Parse(data), nil
}

// Parse reads a block from the first BlockSize bytes of data without
// checking the length.
func Parse(data []byte) Block {
	b := Block{Endpoint0: data[0], Endpoint1: data[1]}
	// two little-endian 24-bit groups read back to back are one 48-bit value
	for i := 7; i >= 2; i-- {
		b.Bits = b.Bits<<8 | uint64(data[i])
	}
	return b
}

// Bytes returns the 8-byte encoding.
func (b Block) Bytes() []byte {
	out := make([]byte, BlockSize)
	b.Put(out)
	return out
}

// Put writes the encoding into dst, which must hold at least BlockSize bytes.
func (b Block) Put(dst []byte) {
	dst[0], dst[1] = b.Endpoint0, b.Endpoint1
	for i := 2; i < BlockSize; i++ {
		dst[i] = byte(b.Bits >> (8 * uint(i-2)))
	}
}

// Is6Value reports whether the block uses 6 interpolated values plus the
// constants 0 and 255.
func (b Block) Is6Value() bool { return b.Endpoint0 <= b.Endpoint1 }

// Values returns the value table selected by the endpoints.
func (b Block) Values() [8]uint8 { return values(b.Endpoint0, b.Endpoint1) }

func values(a0, a1 uint8) [8]uint8 {
	v := [8]uint8{a0, a1}
	x, y := int(a0), int(a1)
	if a0 > a1 {
		for k := 1; k <= 6; k++ {
			v[k+1] = uint8((x*(7-k) + y*k + 3) / 7)
		}
		return v
	}
	for k := 1; k <= 4; k++ {
		v[k+1] = uint8((x*(5-k) + y*k + 2) / 5)
	}
	v[6], v[7] = 0, 255
	return v
}

// Selector returns the value index of pixel (x, y).
func (b Block) Selector(x, y int) uint8 {
	return uint8(b.Bits>>(3*uint(y*4+x))) & 7
}

// Selectors unpacks all 16 indices.
func (b Block) Selectors() Selectors {
	var s Selectors
	for y := range s {
		for x := range s[y] {
			s[y][x] = b.Selector(x, y)
		}
	}
	return s
}

// SetSelectors packs sel into the block. Values above 7 are rejected.
func (b *Block) SetSelectors(sel Selectors) error {
	var bits uint64
	for y := range sel {
		for x, v := range sel[y] {
			if v > SelectorMax {
				return fmt.Errorf("%w: bc4 selector %d at (%d, %d)", texture.ErrMalformedInput, v, x, y)
			}
			bits |= uint64(v) << (3 * uint(y*4+x))
		}
	}
	b.Bits = bits
	return nil
}
