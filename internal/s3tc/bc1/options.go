package bc1

import (
	"fmt"
	"strings"
)

// ColorMode limits which BC1 block layouts the encoder may emit.
type ColorMode int

const (
	// FourColor only emits 4-color blocks. Required for BC3 color data.
	FourColor ColorMode = iota
	// ThreeColor also tries 3-color blocks, never using the black selector.
	ThreeColor
	// ThreeColorBlack is ThreeColor, and may map near-black pixels to the
	// transparent-black selector. Only safe when alpha is ignored on read.
	ThreeColorBlack
)

var colorModeNames = map[ColorMode]string{
	FourColor:       "four",
	ThreeColor:      "three",
	ThreeColorBlack: "three-black",
}

func (m ColorMode) String() string {
	if n, ok := colorModeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode accepts the names printed by String, case-insensitively.
func ParseColorMode(s string) (ColorMode, error) {
	for k, v := range colorModeNames {
		if strings.EqualFold(s, v) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown color mode %q", s)
}

type endpointMode int

const (
	endpointsLeastSquares endpointMode = iota
	endpointsBoundingBox
	endpointsBoundingBoxInt
	endpointsPCA
)

type errorMode int

const (
	errorFaster errorMode = iota
	errorCheck2
	errorFull
)

const (
	// DefaultLevel balances speed and quality.
	DefaultLevel = 5
	// MaxLevel is the slowest level that still uses a bounded search.
	MaxLevel = 18
	// ExhaustiveLevel tries every selector ordering. It is very slow.
	ExhaustiveLevel = 19
)

// Options configures an Encoder.
type Options struct {
	// Level trades speed for quality, 0 through ExhaustiveLevel.
	Level        int
	ColorMode    ColorMode
	Interpolator Interpolator
}

// DefaultOptions encodes 4-color blocks at DefaultLevel with ideal rounding.
func DefaultOptions() Options {
	return Options{Level: DefaultLevel, ColorMode: FourColor, Interpolator: Ideal}
}

// settings is the expanded form of a quality level.
type settings struct {
	endpoints       endpointMode
	errors          errorMode
	twoLS           bool // two least-squares passes
	twoEP           bool // second endpoint pass from the bounding box
	twoCF           bool // two cluster-fit passes
	exhaustive      bool
	powerIterations int
	searchRounds    int
	orderings4      int
	orderings3      int
}

func levelSettings(level int) (settings, error) {
	s := settings{
		endpoints:       endpointsPCA,
		errors:          errorCheck2,
		powerIterations: 4,
	}
	switch level {
	case 0:
		s.endpoints = endpointsBoundingBoxInt
	case 1:
		s.endpoints = endpointsLeastSquares
	case 2:
	case 3:
		s.twoLS = true
	case 4:
		s.twoLS = true
		s.errors = errorFull
		s.powerIterations = 6
	case 5:
		s.twoLS = true
		s.errors = errorFaster
	case 6, 7, 8:
		s.twoLS = true
		s.errors = errorFaster
		s.orderings4 = [...]int{1, 4, 8}[level-6]
		s.orderings3 = 1
	case 9, 10, 11, 12:
		s.twoLS = true
		s.orderings4 = [...]int{11, 20, 28, 32}[level-9]
		s.orderings3 = [...]int{3, 8, 16, 32}[level-9]
	case 13, 14:
		s.twoLS = true
		s.twoEP = true
		s.errors = errorFull
		s.orderings4 = 32
		s.orderings3 = 32
		s.searchRounds = 20
		if level == 14 {
			s.searchRounds = 32
		}
		s.powerIterations = 6
	case 15, 16, 17, 18:
		s.twoLS = true
		s.twoEP = true
		s.errors = errorFull
		s.orderings4 = [...]int{56, 80, 128, 128}[level-15]
		s.orderings3 = 32
		s.searchRounds = [...]int{32, 256, 256, 256}[level-15]
		s.powerIterations = 6
		if level == 17 {
			s.powerIterations = 4
		}
		s.twoCF = level == 18
	case ExhaustiveLevel:
		s.twoLS = true
		s.twoEP = true
		s.twoCF = true
		s.errors = errorFull
		s.exhaustive = true
		s.orderings4 = maxOrderings4
		s.orderings3 = maxOrderings3
		s.searchRounds = 256
		s.powerIterations = 6
	default:
		return s, fmt.Errorf("level %d outside 0..%d", level, ExhaustiveLevel)
	}
	s.orderings4 = min(max(s.orderings4, 1), maxOrderings4)
	s.orderings3 = min(max(s.orderings3, 1), maxOrderings3)
	return s, nil
}
