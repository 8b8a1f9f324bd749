package bc1

import (
	"fmt"
	"image/color"
	"strings"
)

// Interpolator selects how the two implied palette colors are derived from
// the endpoints. Hardware vendors round differently; encoding for the
// decoder that will read the texture reduces error slightly.
type Interpolator int

const (
	// Ideal uses exact thirds and halves of the 8-bit endpoints, truncating.
	Ideal Interpolator = iota
	// IdealRound is Ideal with rounding on the thirds.
	IdealRound
	// Nvidia matches the fixed-point math of Nvidia GPUs.
	Nvidia
	// AMD matches the fixed-point math of AMD GPUs.
	AMD

	interpolatorCount = int(AMD) + 1
)

var interpolatorNames = map[Interpolator]string{
	Ideal:      "ideal",
	IdealRound: "ideal-round",
	Nvidia:     "nvidia",
	AMD:        "amd",
}

func (i Interpolator) String() string {
	if n, ok := interpolatorNames[i]; ok {
		return n
	}
	return fmt.Sprintf("Interpolator(%d)", int(i))
}

// ParseInterpolator accepts the names printed by String, case-insensitively.
func ParseInterpolator(s string) (Interpolator, error) {
	for k, v := range interpolatorNames {
		if strings.EqualFold(s, v) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown interpolator %q", s)
}

func (i Interpolator) valid() bool {
	_, ok := interpolatorNames[i]
	return ok
}

func (i Interpolator) third8(v0, v1 uint8) uint8 {
	a, b := int(v0), int(v1)
	switch i {
	case IdealRound:
		return uint8((2*a + b + 1) / 3)
	case AMD:
		return uint8((43*a + 21*b + 32) >> 6)
	default:
		return uint8((2*a + b) / 3)
	}
}

func (i Interpolator) half8(v0, v1 uint8) uint8 {
	a, b := int(v0), int(v1)
	if i == AMD {
		return uint8((a + b + 1) >> 1)
	}
	return uint8((a + b) / 2)
}

// third5 returns the color two thirds of the way from v1 to v0, given 5-bit
// inputs and producing an 8-bit result.
func (i Interpolator) third5(v0, v1 uint8) uint8 {
	if i == Nvidia {
		return uint8(((2*int(v0) + int(v1)) * 22) / 8)
	}
	return i.third8(scale5To8(v0), scale5To8(v1))
}

func (i Interpolator) third6(v0, v1 uint8) uint8 {
	if i == Nvidia {
		// green is interpolated on the expanded 8-bit values
		a, b := int(scale6To8(v0)), int(scale6To8(v1))
		gdiff := b - a
		return uint8((256*a + gdiff/4 + 128 + gdiff*80) >> 8)
	}
	return i.third8(scale6To8(v0), scale6To8(v1))
}

func (i Interpolator) half5(v0, v1 uint8) uint8 {
	if i == Nvidia {
		return uint8(((int(v0) + int(v1)) * 33) / 8)
	}
	return i.half8(scale5To8(v0), scale5To8(v1))
}

func (i Interpolator) half6(v0, v1 uint8) uint8 {
	if i == Nvidia {
		a, b := int(scale6To8(v0)), int(scale6To8(v1))
		gdiff := b - a
		return uint8((256*a + gdiff/4 + 128 + gdiff*128) >> 8)
	}
	return i.half8(scale6To8(v0), scale6To8(v1))
}

func (i Interpolator) thirdColor(c0, c1 Color565) color.RGBA {
	return color.RGBA{R: i.third5(c0.R, c1.R), G: i.third6(c0.G, c1.G), B: i.third5(c0.B, c1.B), A: 255}
}

func (i Interpolator) halfColor(c0, c1 Color565) color.RGBA {
	return color.RGBA{R: i.half5(c0.R, c1.R), G: i.half6(c0.G, c1.G), B: i.half5(c0.B, c1.B), A: 255}
}

// Palette returns the four colors a decoder derives from endpoints c0 and
// c1, in stored selector order. With threeColor set, index 2 is the midpoint
// and index 3 is transparent black.
func (i Interpolator) Palette(c0, c1 Color565, threeColor bool) [4]color.RGBA {
	p := [4]color.RGBA{c0.Expand(), c1.Expand()}
	if threeColor {
		p[2] = i.halfColor(c0, c1)
		p[3] = color.RGBA{}
	} else {
		p[2] = i.thirdColor(c0, c1)
		p[3] = i.thirdColor(c1, c0)
	}
	return p
}

// BlockPalette returns the palette for a block, honoring its color mode
// unless force4 is set. BC3 color blocks are always read as 4-color.
func (i Interpolator) BlockPalette(b Block, force4 bool) [4]color.RGBA {
	c0, c1 := b.Endpoints()
	return i.Palette(c0, c1, !force4 && b.Is3Color())
}
