package bc1

import "sync"

type match struct {
	high, low uint8
	err       uint8
}

// matchTable maps an 8-bit channel value to the endpoint pair whose implied
// color reproduces it best.
type matchTable [256]match

type singleColorTables struct {
	r4, g4 matchTable // 4-color, third point
	r3, g3 matchTable // 3-color, midpoint
}

var (
	singleColorOnce   [interpolatorCount]sync.Once
	singleColorByKind [interpolatorCount]*singleColorTables
)

// singleColorFor returns the lookup tables for an interpolator, building
// them on first use.
func singleColorFor(ip Interpolator) *singleColorTables {
	singleColorOnce[ip].Do(func() {
		t := &singleColorTables{}
		buildMatchTable(&t.r4, ip, 5, false)
		buildMatchTable(&t.g4, ip, 6, false)
		buildMatchTable(&t.r3, ip, 5, true)
		buildMatchTable(&t.g3, ip, 6, true)
		singleColorByKind[ip] = t
	})
	return singleColorByKind[ip]
}

func buildMatchTable(t *matchTable, ip Interpolator, bits uint, half bool) {
	size := 1 << bits
	expand := scale5To8
	interp := ip.third5
	if bits == 6 {
		expand = scale6To8
		interp = ip.third6
	}
	if half {
		interp = ip.half5
		if bits == 6 {
			interp = ip.half6
		}
	}

	for i := 0; i < 256; i++ {
		best := 256
		for low := 0; low < size; low++ {
			low8 := int(expand(uint8(low)))
			for high := 0; high < size; high++ {
				high8 := int(expand(uint8(high)))
				e := absInt(int(interp(uint8(high), uint8(low))) - i)
				// a wide endpoint spread is less stable across decoders
				if ip == Ideal {
					e += absInt(high8-low8) * 3 / 100
				}
				if e < best || (e == best && low == high) {
					t[i] = match{high: uint8(high), low: uint8(low), err: uint8(e)}
					best = e
				}
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
