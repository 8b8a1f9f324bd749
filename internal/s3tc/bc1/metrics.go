package bc1

import (
	"image/color"

	"github.com/erinpentecost/bcpack/internal/texture"
)

type metrics struct {
	min, max, avg color.RGBA
	count         int
	greyscale     bool
	hasBlack      bool
}

// blockMetrics summarizes the RGB channels of a tile. With ignoreBlack set,
// near-black pixels are left out of everything except hasBlack.
func blockMetrics(tile *texture.Tile, ignoreBlack bool) metrics {
	m := metrics{
		min:       color.RGBA{255, 255, 255, 255},
		greyscale: true,
	}
	var sr, sg, sb int
	for _, p := range tile {
		black := isBlack(p)
		m.hasBlack = m.hasBlack || black
		if ignoreBlack && black {
			continue
		}
		m.greyscale = m.greyscale && isGreyscale(p)
		m.min.R, m.max.R = min(m.min.R, p.R), max(m.max.R, p.R)
		m.min.G, m.max.G = min(m.min.G, p.G), max(m.max.G, p.G)
		m.min.B, m.max.B = min(m.min.B, p.B), max(m.max.B, p.B)
		sr += int(p.R)
		sg += int(p.G)
		sb += int(p.B)
		m.count++
	}
	if m.count > 0 {
		half := m.count / 2
		m.avg = color.RGBA{
			R: uint8((sr + half) / m.count),
			G: uint8((sg + half) / m.count),
			B: uint8((sb + half) / m.count),
			A: 255,
		}
	}
	m.max.A = 255
	return m
}
