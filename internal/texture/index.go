package texture

import (
	"fmt"
	"math"
	"math/bits"
)

// normalize resolves a possibly negative index against length n, so that
// -1 means n-1. The result is checked against [0,n).
func normalize(i, n int) (int, error) {
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, fmt.Errorf("%w: index %d with length %d", ErrOutOfRange, i, n)
	}
	return j, nil
}

func normalize2(x, y, w, h int) (int, int, error) {
	nx, err := normalize(x, w)
	if err != nil {
		return 0, 0, fmt.Errorf("x: %w", err)
	}
	ny, err := normalize(y, h)
	if err != nil {
		return 0, 0, fmt.Errorf("y: %w", err)
	}
	return nx, ny, nil
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedInput, w, h)
	}
	return nil
}

// byteSize returns a*b*c for positive factors, failing when the product
// doesn't fit in an int.
func byteSize(a, b, c int) (int, error) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi == 0 {
		hi, lo = bits.Mul64(lo, uint64(c))
	}
	if hi != 0 || lo > math.MaxInt {
		return 0, fmt.Errorf("%w: %d x %d x %d bytes overflows", ErrMalformedInput, a, b, c)
	}
	return int(lo), nil
}
