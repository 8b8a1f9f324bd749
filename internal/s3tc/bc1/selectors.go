package bc1

import (
	"image/color"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// linearPalette orders the palette from low to high: in 4-color mode
// {low, 1/3, 2/3, high}, in 3-color mode {low, mid, high, black}. The midpoint
// is computed in the endpoint order the block will be written in, since some
// decoders round it asymmetrically.
func linearPalette(ip Interpolator, low, high Color565, threeColor bool) [4]color.RGBA {
	l, h := low.Expand(), high.Expand()
	if !threeColor {
		return [4]color.RGBA{l, ip.thirdColor(low, high), ip.thirdColor(high, low), h}
	}
	c0, c1 := high, low
	if low.Pack() < high.Pack() {
		c0, c1 = low, high
	}
	return [4]color.RGBA{l, ip.halfColor(c0, c1), h, {}}
}

// findSelectors assigns each pixel a linear palette index for r's endpoints
// and sets r.err to the total squared error. It gives up as soon as the
// running error reaches the error r had on entry, leaving r.err no better
// than before so callers drop the trial.
func (e *Encoder) findSelectors(r *result, tile *texture.Tile, mode ColorMode, em errorMode) {
	pal := linearPalette(e.opts.Interpolator, r.low, r.high, mode != FourColor)
	limit := r.err
	total := 0

	switch {
	case mode == FourColor && em == errorFaster:
		ax := int(pal[3].R) - int(pal[0].R)
		ay := int(pal[3].G) - int(pal[0].G)
		az := int(pal[3].B) - int(pal[0].B)
		dot := func(c color.RGBA) int { return ax*int(c.R) + ay*int(c.G) + az*int(c.B) }
		d0, d1, d2, d3 := dot(pal[0]), dot(pal[1]), dot(pal[2]), dot(pal[3])
		t0, t1, t2 := d0+d1, d1+d2, d2+d3
		for i, p := range tile {
			dp := 2 * dot(p)
			level := b2i(dp <= t0) + b2i(dp < t1) + b2i(dp < t2)
			s := uint8(3 - level)
			r.sel[i] = s
			total += sqDistRGB(p, pal[s])
			if i%4 == 3 && total >= limit {
				break
			}
		}

	case mode == FourColor && em == errorCheck2:
		base := vecFrom(pal[0])
		axis := vecFrom(pal[3]).sub(base)
		f := 4 / (axis.dot(axis) + 1.25e-6)
		for i, p := range tile {
			s := int(vecFrom(p).sub(base).dot(axis)*f + 0.5)
			s = min(max(s, 1), 3)
			e0 := sqDistRGB(p, pal[s-1])
			e1 := sqDistRGB(p, pal[s])
			if e0 <= e1 {
				s, e1 = s-1, e0
			}
			r.sel[i] = uint8(s)
			total += e1
			if total >= limit {
				break
			}
		}

	default:
		n := 4
		if mode == ThreeColor {
			n = 3
		}
		preferBlack := mode == ThreeColorBlack
		for i, p := range tile {
			best, bestErr := 0, sqDistRGB(p, pal[0])
			for j := 1; j < n; j++ {
				d := sqDistRGB(p, pal[j])
				// in 3-color-black mode index 3 is black, which costs the
				// other colors nothing
				if d < bestErr || (preferBlack && d == bestErr && j == 3) {
					best, bestErr = j, d
				}
			}
			r.sel[i] = uint8(best)
			total += bestErr
			if total >= limit {
				break
			}
		}
	}

	r.err = total
	r.mode = mode
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
