package bc1

import (
	"math"
	"sort"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// solveEndpoints solves the least-squares system for the endpoint pair given
// the sums of the per-pixel weights: a is the weight of the low endpoint and
// b of the high one, with a+b = d.
func solveEndpoints(aa, ab, bb float64, sa, sb vec3, d float64) (Color565, Color565, bool) {
	det := aa*bb - ab*ab
	if math.Abs(det) < 1e-8 {
		return Color565{}, Color565{}, false
	}
	k := d / det
	low := sa.scale(bb).sub(sb.scale(ab)).scale(k)
	high := sb.scale(aa).sub(sa.scale(ab)).scale(k)
	return preciseRound565(clampVec(low)), preciseRound565(clampVec(high)), true
}

// fitLeastSquares refits the endpoints to the current selectors. Pixels on
// the black selector don't constrain the fit.
func fitLeastSquares(tile *texture.Tile, sel *[16]uint8, mode ColorMode) (Color565, Color565, bool) {
	d := 3.0
	if mode != FourColor {
		d = 2
	}
	var aa, ab, bb float64
	var sa, sb vec3
	for i, p := range tile {
		s := sel[i]
		if mode != FourColor && s == 3 {
			continue
		}
		b := float64(s)
		a := d - b
		v := vecFrom(p)
		aa += a * a
		ab += a * b
		bb += b * b
		sa = sa.add(v.scale(a))
		sb = sb.add(v.scale(b))
	}
	return solveEndpoints(aa, ab, bb, sa, sb, d)
}

// fitSingleColor sets r to the endpoint pair whose interpolated color best
// matches c, with every pixel on that interpolated selector.
func (e *Encoder) fitSingleColor(r *result, tile *texture.Tile, c [3]uint8, threeColor bool) {
	tabs := singleColorFor(e.opts.Interpolator)
	rt, gt := &tabs.r4, &tabs.g4
	idx := uint8(2)
	r.mode = FourColor
	if threeColor {
		rt, gt = &tabs.r3, &tabs.g3
		idx = 1
		r.mode = ThreeColor
	}
	r.low = Color565{R: rt[c[0]].low, G: gt[c[1]].low, B: rt[c[2]].low}
	r.high = Color565{R: rt[c[0]].high, G: gt[c[1]].high, B: rt[c[2]].high}

	pal := linearPalette(e.opts.Interpolator, r.low, r.high, threeColor)
	r.err = 0
	for i, p := range tile {
		r.sel[i] = idx
		r.err += sqDistRGB(p, pal[idx])
	}
}

// refineLeastSquares alternates endpoint fitting and selector assignment
// until the endpoints settle or the error stops improving.
func (e *Encoder) refineLeastSquares(r *result, tile *texture.Tile, m *metrics, mode ColorMode, em errorMode) {
	passes := 1
	if e.s.twoLS {
		passes = 2
	}
	for pass := 0; pass < passes; pass++ {
		trial := *r
		if low, high, ok := fitLeastSquares(tile, &r.sel, mode); ok {
			trial.low, trial.high = low, high
			e.findSelectors(&trial, tile, mode, em)
		} else {
			e.fitSingleColor(&trial, tile, rgbOf(m.avg), mode != FourColor)
		}
		if trial.low == r.low && trial.high == r.high {
			return
		}
		if trial.err >= r.err {
			return
		}
		*r = trial
	}
}

// refineClusterFit sorts the pixels along the endpoint axis and tries
// alternative splits of that order into selector bins, solving the endpoints
// for each split directly.
func (e *Encoder) refineClusterFit(r *result, tile *texture.Tile, m *metrics, mode ColorMode, em errorMode) {
	bins, count, d := 4, e.s.orderings4, 3.0
	if mode != FourColor {
		bins, count, d = 3, e.s.orderings3, 2
	}
	table := orderTableFor(bins)
	passes := 1
	if e.s.twoCF {
		passes = 2
	}

	for pass := 0; pass < passes; pass++ {
		orig := *r
		var h histogram
		for _, s := range orig.sel {
			if int(s) >= bins {
				return
			}
			h[s]++
		}

		axis := vecFrom(orig.high.Expand()).sub(vecFrom(orig.low.Expand()))
		var sorted [16]vec3
		for i, p := range tile {
			sorted[i] = vecFrom(p)
		}
		sort.SliceStable(sorted[:], func(a, b int) bool {
			return sorted[a].dot(axis) < sorted[b].dot(axis)
		})

		improved := false
		for _, c := range table.candidates(h, count, e.s.exhaustive) {
			trial := orig
			if c.singleBin() {
				e.fitSingleColor(&trial, tile, rgbOf(m.avg), mode != FourColor)
			} else {
				var aa, ab, bb float64
				var sa, sb vec3
				pos := 0
				for s := 0; s < bins; s++ {
					n := int(c[s])
					var sum vec3
					for _, v := range sorted[pos : pos+n] {
						sum = sum.add(v)
					}
					pos += n
					b := float64(s)
					a := d - b
					aa += float64(n) * a * a
					ab += float64(n) * a * b
					bb += float64(n) * b * b
					sa = sa.add(sum.scale(a))
					sb = sb.add(sum.scale(b))
				}
				low, high, ok := solveEndpoints(aa, ab, bb, sa, sb, d)
				if !ok {
					continue
				}
				trial.low, trial.high = low, high
				e.findSelectors(&trial, tile, mode, em)
			}
			if trial.err < r.err {
				*r = trial
				improved = true
				if r.err == 0 {
					return
				}
			}
		}
		if !improved {
			return
		}
	}
}

// searchVoxels are unit steps in 565 space. The last element is the index of
// the step in the opposite direction.
var searchVoxels = [16][4]int{
	{1, 0, 0, 3}, {0, 1, 0, 4}, {0, 0, 1, 5},
	{-1, 0, 0, 0}, {0, -1, 0, 1}, {0, 0, -1, 2},
	{1, 1, 0, 9}, {1, 0, 1, 10}, {0, 1, 1, 11},
	{-1, -1, 0, 6}, {-1, 0, -1, 7}, {0, -1, -1, 8},
	{-1, 1, 0, 13}, {1, -1, 0, 12},
	{0, -1, 1, 15}, {0, 1, -1, 14},
}

// endpointSearch nudges one endpoint at a time by a single step, keeping any
// move that lowers the error. Undoing the last accepted move is skipped.
func (e *Encoder) endpointSearch(r *result, tile *texture.Tile) {
	forbidden := -1
	lastImproved := 0
	for i := 0; i < e.s.searchRounds; i++ {
		key := i & 31
		if key == forbidden {
			continue
		}
		v := searchVoxels[i&15]
		trial := *r
		target := &trial.low
		if i&16 != 0 {
			target = &trial.high
		}
		moved, ok := step565(*target, v)
		if !ok {
			continue
		}
		*target = moved

		em := e.s.errors
		if trial.mode != FourColor {
			em = errorFull
		}
		e.findSelectors(&trial, tile, trial.mode, em)
		if trial.err < r.err {
			*r = trial
			forbidden = v[3] | (i & 16)
			lastImproved = i
			if r.err == 0 {
				return
			}
		}
		if i-lastImproved > 32 {
			return
		}
	}
}

func step565(c Color565, v [4]int) (Color565, bool) {
	r, g, b := int(c.R)+v[0], int(c.G)+v[1], int(c.B)+v[2]
	if r < 0 || r > 31 || g < 0 || g > 63 || b < 0 || b > 31 {
		return c, false
	}
	return Color565{uint8(r), uint8(g), uint8(b)}, true
}
