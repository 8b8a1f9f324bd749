package bc1

import (
	"image/color"
	"math"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// lumaAxis is the fallback fit direction when the pixels have no dominant
// direction of their own.
var lumaAxis = vec3{306, 601, 117}

// findEndpoints seeds r.low and r.high from the tile. Selectors are left for
// findSelectors.
func (e *Encoder) findEndpoints(r *result, tile *texture.Tile, m *metrics, mode endpointMode, ignoreBlack bool) {
	if m.greyscale {
		if int(m.max.R)-int(m.min.R) < 2 {
			c := To565(grey(m.min.R))
			r.low, r.high = c, c
			return
		}
		r.low, r.high = To565(grey(m.min.R)), To565(grey(m.max.R))
		return
	}

	switch mode {
	case endpointsLeastSquares:
		r.low, r.high = leastSquaresEndpoints(tile, m)
	case endpointsBoundingBox:
		r.low, r.high = boundingBoxEndpoints(tile, m)
	case endpointsBoundingBoxInt:
		r.low, r.high = boundingBoxIntEndpoints(tile, m)
	default:
		r.low, r.high = e.pcaEndpoints(tile, m, ignoreBlack)
	}
}

func grey(v uint8) color.RGBA { return color.RGBA{v, v, v, 255} }

// leastSquaresEndpoints fits a line through the channel with the widest range
// and regresses the other two channels against it.
func leastSquaresEndpoints(tile *texture.Tile, m *metrics) (Color565, Color565) {
	lo, hi := vecFrom(m.min), vecFrom(m.max)
	primary := 0
	for c := 1; c < 3; c++ {
		if hi[c]-lo[c] > hi[primary]-lo[primary] {
			primary = c
		}
	}
	if hi[primary] == lo[primary] {
		avg := vecFrom(m.avg)
		return preciseRound565(avg), preciseRound565(avg)
	}

	n := float64(len(tile))
	var sx, sxx float64
	var sy, sxy vec3
	for _, p := range tile {
		v := vecFrom(p)
		x := v[primary]
		sx += x
		sxx += x * x
		sy = sy.add(v)
		sxy = sxy.add(v.scale(x))
	}
	low, high := lo, hi
	den := n*sxx - sx*sx
	for c := 0; c < 3; c++ {
		if c == primary {
			continue
		}
		slope := 0.0
		if den != 0 {
			slope = (n*sxy[c] - sx*sy[c]) / den
		}
		icept := (sy[c] - slope*sx) / n
		low[c] = icept + slope*lo[primary]
		high[c] = icept + slope*hi[primary]
	}
	inset := high.sub(low).scale(1.0 / 16)
	return preciseRound565(clampVec(low.add(inset))), preciseRound565(clampVec(high.sub(inset)))
}

// boundingBoxEndpoints insets the RGB bounding box slightly and flips its
// diagonal to follow the sign of the red-blue and green-blue covariance.
func boundingBoxEndpoints(tile *texture.Tile, m *metrics) (Color565, Color565) {
	const bias = 8.0
	lo, hi := vecFrom(m.min), vecFrom(m.max)
	inset := hi.sub(lo).sub(vec3{bias, bias, bias}).scale(1.0 / 16)
	lo = clampVec(lo.add(inset))
	hi = clampVec(hi.sub(inset))

	avg := vecFrom(m.avg)
	var covRB, covGB float64
	for _, p := range tile {
		d := vecFrom(p).sub(avg)
		covRB += d[2] * d[0]
		covGB += d[2] * d[1]
	}
	if covRB < 0 {
		lo[0], hi[0] = hi[0], lo[0]
	}
	if covGB < 0 {
		lo[1], hi[1] = hi[1], lo[1]
	}
	return preciseRound565(lo), preciseRound565(hi)
}

// boundingBoxIntEndpoints is the integer-only version of boundingBoxEndpoints
// used at the fastest level.
func boundingBoxIntEndpoints(tile *texture.Tile, m *metrics) (Color565, Color565) {
	lo := [3]int{int(m.min.R), int(m.min.G), int(m.min.B)}
	hi := [3]int{int(m.max.R), int(m.max.G), int(m.max.B)}
	for c := range lo {
		inset := ((hi[c] - lo[c]) - 8) >> 4
		lo[c] = min(max(lo[c]+inset, 0), 255)
		hi[c] = min(max(hi[c]-inset, 0), 255)
	}

	avg := [3]int{int(m.avg.R), int(m.avg.G), int(m.avg.B)}
	var covRB, covGB int
	for _, p := range tile {
		db := int(p.B) - avg[2]
		covRB += db * (int(p.R) - avg[0])
		covGB += db * (int(p.G) - avg[1])
	}
	if covRB < 0 {
		lo[0], hi[0] = hi[0], lo[0]
	}
	if covGB < 0 {
		lo[1], hi[1] = hi[1], lo[1]
	}
	toRGBA := func(v [3]int) color.RGBA { return color.RGBA{uint8(v[0]), uint8(v[1]), uint8(v[2]), 255} }
	return To565(toRGBA(lo)), To565(toRGBA(hi))
}

// pcaEndpoints finds the principal axis of the pixel cloud by power
// iteration and returns the two pixels furthest apart along it.
func (e *Encoder) pcaEndpoints(tile *texture.Tile, m *metrics, ignoreBlack bool) (Color565, Color565) {
	avg := vecFrom(m.avg)
	// rr rg rb gg gb bb, seeded with the identity
	cov := [6]float64{1, 0, 0, 1, 0, 1}
	for _, p := range tile {
		if ignoreBlack && isBlack(p) {
			continue
		}
		d := vecFrom(p).sub(avg)
		cov[0] += d[0] * d[0]
		cov[1] += d[0] * d[1]
		cov[2] += d[0] * d[2]
		cov[3] += d[1] * d[1]
		cov[4] += d[1] * d[2]
		cov[5] += d[2] * d[2]
	}
	for i := range cov {
		cov[i] /= 255
	}

	delta := vecFrom(m.max).sub(vecFrom(m.min))
	if cov[2] < 0 {
		delta[0] = -delta[0]
	}
	if cov[4] < 0 {
		delta[1] = -delta[1]
	}
	for i := 0; i < e.s.powerIterations; i++ {
		delta = vec3{
			cov[0]*delta[0] + cov[1]*delta[1] + cov[2]*delta[2],
			cov[1]*delta[0] + cov[3]*delta[1] + cov[4]*delta[2],
			cov[2]*delta[0] + cov[4]*delta[1] + cov[5]*delta[2],
		}
	}
	axis := lumaAxis
	if k := delta.maxAbs(); k >= 2 {
		axis = delta.scale(1 / k)
	}

	minDot, maxDot := math.Inf(1), math.Inf(-1)
	var lo, hi color.RGBA
	for _, p := range tile {
		if ignoreBlack && isBlack(p) {
			continue
		}
		d := vecFrom(p).dot(axis)
		if d < minDot {
			minDot, lo = d, p
		}
		if d > maxDot {
			maxDot, hi = d, p
		}
	}
	return To565(lo), To565(hi)
}

func clampVec(v vec3) vec3 {
	for i := range v {
		v[i] = math.Max(0, math.Min(255, v[i]))
	}
	return v
}
