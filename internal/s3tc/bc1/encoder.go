package bc1

import (
	"fmt"
	"math"

	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/texture"
)

// result is an encoding candidate. Selectors are linear: 0 is low, the
// largest index is high, and 3 is black in 3-color mode.
type result struct {
	low, high Color565
	sel       [16]uint8
	err       int
	mode      ColorMode
}

func newResult() result { return result{err: math.MaxInt} }

// Encoder compresses RGB pixels into BC1 blocks. It is safe for concurrent
// use.
type Encoder struct {
	opts Options
	s    settings
}

var _ s3tc.TextureEncoder = (*Encoder)(nil)

// NewEncoder validates opts and expands its level.
func NewEncoder(opts Options) (*Encoder, error) {
	s, err := levelSettings(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("bc1: %w", err)
	}
	if _, ok := colorModeNames[opts.ColorMode]; !ok {
		return nil, fmt.Errorf("bc1: unknown color mode %d", int(opts.ColorMode))
	}
	if !opts.Interpolator.valid() {
		return nil, fmt.Errorf("bc1: unknown interpolator %d", int(opts.Interpolator))
	}
	return &Encoder{opts: opts, s: s}, nil
}

// Options returns the options the encoder was built with.
func (e *Encoder) Options() Options { return e.opts }

// BlockSize implements s3tc.TextureEncoder.
func (e *Encoder) BlockSize() int { return BlockSize }

// EncodeBlock compresses one tile. Alpha is ignored.
func (e *Encoder) EncodeBlock(tile *texture.Tile) Block {
	if c, ok := singleRGB(tile); ok {
		return e.solidBlock(c)
	}

	m := blockMetrics(tile, false)
	best := newResult()
	var seed result

	passes := 1
	if e.s.twoEP {
		passes = 2
	}
	for pass := 0; pass < passes; pass++ {
		mode := e.s.endpoints
		if pass == 1 {
			mode = endpointsBoundingBox
		}
		trial := newResult()
		e.findEndpoints(&trial, tile, &m, mode, false)
		if pass == 0 {
			seed = trial
		}
		e.findSelectors(&trial, tile, FourColor, e.s.errors)
		e.refineLeastSquares(&trial, tile, &m, FourColor, e.s.errors)
		if trial.err < best.err {
			best = trial
		}
	}

	if best.err > 0 {
		e.refineClusterFit(&best, tile, &m, FourColor, e.s.errors)
	}

	if best.err > 0 && e.opts.ColorMode != FourColor {
		trial := seed
		trial.err = math.MaxInt
		e.findSelectors(&trial, tile, ThreeColor, errorFull)
		e.refineLeastSquares(&trial, tile, &m, ThreeColor, errorFull)
		if trial.err > 0 {
			e.refineClusterFit(&trial, tile, &m, ThreeColor, errorFull)
		}
		if trial.err < best.err {
			best = trial
		}
	}

	if best.err > 0 && e.opts.ColorMode == ThreeColorBlack && m.hasBlack && !isBlack(m.max) {
		mb := blockMetrics(tile, true)
		trial := newResult()
		e.findEndpoints(&trial, tile, &mb, endpointsPCA, true)
		e.findSelectors(&trial, tile, ThreeColorBlack, errorFull)
		e.refineLeastSquares(&trial, tile, &mb, ThreeColorBlack, errorFull)
		if trial.err < best.err {
			best = trial
		}
	}

	if best.err > 0 && e.s.searchRounds > 0 {
		e.endpointSearch(&best, tile)
	}
	return best.block()
}

// Encode compresses a whole texture, one block row per worker.
func (e *Encoder) Encode(raw *texture.RawTexture) (*Texture, error) {
	blocks, err := s3tc.EncodeBlocks(raw, BlockSize, func(tile *texture.Tile, dst []byte) {
		e.EncodeBlock(tile).Put(dst)
	})
	if err != nil {
		return nil, fmt.Errorf("bc1 encode: %w", err)
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
