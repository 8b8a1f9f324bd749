package bc1

import (
	"image/color"
	"math"
)

// Color565 is an RGB color quantized to 5:6:5 bits. Each field holds the
// quantized channel value, not the 8-bit expansion.
type Color565 struct {
	R, G, B uint8
}

// Unpack565 splits a packed 16-bit 565 value.
func Unpack565(v uint16) Color565 {
	return Color565{
		R: uint8(v>>11) & 0x1f,
		G: uint8(v>>5) & 0x3f,
		B: uint8(v) & 0x1f,
	}
}

// Pack returns the packed 16-bit representation.
func (c Color565) Pack() uint16 {
	return uint16(c.R&0x1f)<<11 | uint16(c.G&0x3f)<<5 | uint16(c.B&0x1f)
}

// Expand scales the color back to 8 bits per channel, fully opaque.
func (c Color565) Expand() color.RGBA {
	return color.RGBA{R: scale5To8(c.R), G: scale6To8(c.G), B: scale5To8(c.B), A: 255}
}

// To565 quantizes an 8-bit color with round-to-nearest.
func To565(c color.RGBA) Color565 {
	return Color565{R: scale8To5(c.R), G: scale8To6(c.G), B: scale8To5(c.B)}
}

func scale8To5(v uint8) uint8 {
	v2 := int(v)*31 + 128
	return uint8((v2 + v2>>8) >> 8)
}

func scale8To6(v uint8) uint8 {
	v2 := int(v)*63 + 128
	return uint8((v2 + v2>>8) >> 8)
}

func scale5To8(v uint8) uint8 { return v<<3 | v>>2 }

func scale6To8(v uint8) uint8 { return v<<2 | v>>4 }

// roundChannel picks the quantized value whose 8-bit expansion lands
// closest to v, where v is on the 0..255 scale.
func roundChannel(v float64, bits uint) uint8 {
	maxv := float64(int(1)<<bits - 1)
	expand := scale5To8
	if bits == 6 {
		expand = scale6To8
	}
	q := math.Floor(v * maxv / 255)
	q = math.Max(0, math.Min(maxv, q))
	lo := uint8(q)
	if float64(lo) >= maxv {
		return lo
	}
	hi := lo + 1
	if math.Abs(float64(expand(hi))-v) < math.Abs(float64(expand(lo))-v) {
		return hi
	}
	return lo
}

// preciseRound565 quantizes a color given as floats on the 0..255 scale,
// choosing per channel the code that expands nearest to the input.
func preciseRound565(v vec3) Color565 {
	return Color565{
		R: roundChannel(v[0], 5),
		G: roundChannel(v[1], 6),
		B: roundChannel(v[2], 5),
	}
}

// vec3 is a float RGB triple used by the endpoint fitting code.
type vec3 [3]float64

func vecFrom(c color.RGBA) vec3 { return vec3{float64(c.R), float64(c.G), float64(c.B)} }

func (a vec3) add(b vec3) vec3 { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func (a vec3) sub(b vec3) vec3 { return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func (a vec3) scale(s float64) vec3 { return vec3{a[0] * s, a[1] * s, a[2] * s} }

func (a vec3) dot(b vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a vec3) maxAbs() float64 {
	return math.Max(math.Abs(a[0]), math.Max(math.Abs(a[1]), math.Abs(a[2])))
}

// sqDistRGB is the squared RGB distance between two colors; alpha is ignored.
func sqDistRGB(a, b color.RGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// isBlack reports near-black pixels, the ones 3-color black mode may map to
// the transparent-black selector.
func isBlack(c color.RGBA) bool { return c.R|c.G|c.B < 4 }

func isGreyscale(c color.RGBA) bool { return c.R == c.G && c.G == c.B }
