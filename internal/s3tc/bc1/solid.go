package bc1

import (
	"image/color"

	"github.com/erinpentecost/bcpack/internal/texture"
)

func rgbOf(c color.RGBA) [3]uint8 { return [3]uint8{c.R, c.G, c.B} }

// singleRGB reports whether all pixels share one RGB value. Alpha is not
// stored in BC1 color data and is ignored.
func singleRGB(tile *texture.Tile) ([3]uint8, bool) {
	c := rgbOf(tile[0])
	for _, p := range tile[1:] {
		if rgbOf(p) != c {
			return c, false
		}
	}
	return c, true
}

// solidBlock encodes a tile of one color straight from the lookup tables.
func (e *Encoder) solidBlock(c [3]uint8) Block {
	if c == [3]uint8{} {
		return Block{Color0: 1, Color1: 0, Rows: fillRows(1)}
	}

	tabs := singleColorFor(e.opts.Interpolator)
	lookup := func(rt, gt *matchTable) (Color565, Color565, int) {
		r, g, b := rt[c[0]], gt[c[1]], rt[c[2]]
		high := Color565{R: r.high, G: g.high, B: b.high}
		low := Color565{R: r.low, G: g.low, B: b.low}
		return high, low, int(r.err) + int(g.err) + int(b.err)
	}

	high, low, err4 := lookup(&tabs.r4, &tabs.g4)
	if e.opts.ColorMode != FourColor {
		high3, low3, err3 := lookup(&tabs.r3, &tabs.g3)
		if err3 < err4 {
			max16, min16 := high3.Pack(), low3.Pack()
			if max16 > min16 {
				max16, min16 = min16, max16
			}
			return Block{Color0: max16, Color1: min16, Rows: fillRows(2)}
		}
	}

	max16, min16 := high.Pack(), low.Pack()
	sel := uint8(2)
	switch {
	case max16 == min16 && max16 == 0:
		max16, sel = 1, 1
	case max16 == min16:
		min16--
		sel = 0
	case max16 < min16:
		max16, min16 = min16, max16
		sel = 3
	}
	return Block{Color0: max16, Color1: min16, Rows: fillRows(sel)}
}

// block writes the result in BC1 form, choosing the endpoint order that
// encodes r.mode and remapping the linear selectors to match.
func (r *result) block() Block {
	ep0, ep1 := r.high.Pack(), r.low.Pack()
	var lut [4]uint8
	if r.mode == FourColor {
		lut = [4]uint8{1, 3, 2, 0}
		switch {
		case ep1 > ep0:
			ep0, ep1 = ep1, ep0
			lut = [4]uint8{0, 2, 3, 1}
		case ep0 == ep1 && ep0 > 0:
			ep1--
			lut = [4]uint8{0, 0, 0, 0}
		case ep0 == ep1:
			ep0 = 1
			lut = [4]uint8{1, 1, 1, 1}
		}
	} else {
		lut = [4]uint8{1, 2, 0, 3}
		if ep1 < ep0 {
			ep0, ep1 = ep1, ep0
			lut = [4]uint8{0, 2, 1, 3}
		}
	}

	b := Block{Color0: ep0, Color1: ep1}
	for i, s := range r.sel {
		b.Rows[i/4] |= lut[s] << (2 * uint(i%4))
	}
	return b
}
