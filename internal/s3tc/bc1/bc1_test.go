package bc1

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/mauserzjeh/dxt"
	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/bcpack/internal/texture"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	mid   = color.RGBA{127, 127, 0, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func rowsTile(row [4]color.RGBA) *texture.Tile {
	var t texture.Tile
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			t.Set(x, y, row[x])
		}
	}
	return &t
}

func greyTile() *texture.Tile {
	return rowsTile([4]color.RGBA{grey(0xff), grey(0xaa), grey(0x55), grey(0x00)})
}

func noiseTexture(t *testing.T, seed int64, w, h int) *texture.RawTexture {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, w*h*4)
	rng.Read(data)
	raw, err := texture.RawTextureFromBytes(data, w, h)
	require.NoError(t, err)
	return raw
}

func gradientTexture(t *testing.T, w, h int) *texture.RawTexture {
	t.Helper()
	raw, err := texture.NewRawTexture(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), uint8((x + y) * 127 / (w + h)), 255}
			require.NoError(t, raw.SetPixel(x, y, c))
		}
	}
	return raw
}

func mustEncoder(t *testing.T, level int, mode ColorMode) *Encoder {
	t.Helper()
	enc, err := NewEncoder(Options{Level: level, ColorMode: mode, Interpolator: Ideal})
	require.NoError(t, err)
	return enc
}

func mustDecoder(t *testing.T) *Decoder {
	t.Helper()
	dec, err := NewDecoder(Ideal)
	require.NoError(t, err)
	return dec
}

func TestBlockBytesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		data := make([]byte, BlockSize)
		rng.Read(data)
		b, err := FromBytes(data)
		require.NoError(t, err)
		require.Equal(t, data, b.Bytes())
		require.Equal(t, b.Color0 <= b.Color1, b.Is3Color())
	}

	_, err := FromBytes(make([]byte, 7))
	require.ErrorIs(t, err, texture.ErrMalformedInput)
}

func TestBlockSelectors(t *testing.T) {
	sel := Selectors{{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 1, 1, 1}, {2, 0, 3, 1}}
	b, err := NewBlock(0xffff, 0, sel)
	require.NoError(t, err)
	require.Equal(t, sel, b.Selectors())
	require.Equal(t, uint8(3), b.Selector(0, 1))
	require.Equal(t, uint8(0b11100100), b.Rows[0])

	sel[2][2] = 4
	_, err = NewBlock(0xffff, 0, sel)
	require.ErrorIs(t, err, texture.ErrMalformedInput)
}

func TestColor565(t *testing.T) {
	require.Equal(t, Color565{31, 63, 31}, Unpack565(0xffff))
	require.Equal(t, uint16(0xf800), Color565{R: 31}.Pack())
	require.Equal(t, color.RGBA{255, 255, 255, 255}, Color565{31, 63, 31}.Expand())
	require.Equal(t, Color565{31, 63, 31}, To565(color.RGBA{255, 255, 255, 255}))

	for v := 0; v < 256; v++ {
		q := roundChannel(float64(v), 5)
		got := int(scale5To8(q))
		for c := uint8(0); c < 32; c++ {
			require.LessOrEqual(t, math.Abs(float64(got-v)), math.Abs(float64(int(scale5To8(c))-v)))
		}
	}
}

func TestPalette(t *testing.T) {
	white, blk := Color565{31, 63, 31}, Color565{}
	p := Ideal.Palette(white, blk, false)
	require.Equal(t, [4]color.RGBA{grey(255), grey(0), grey(170), grey(85)}, p)

	p = Ideal.Palette(blk, white, true)
	require.Equal(t, grey(127), p[2])
	require.Equal(t, color.RGBA{}, p[3])

	p = IdealRound.Palette(white, blk, false)
	require.Equal(t, grey(85), p[3])

	p = AMD.Palette(blk, white, true)
	require.Equal(t, grey(128), p[2])

	p = Nvidia.Palette(white, white, false)
	require.Equal(t, color.RGBA{255, 255, 255, 255}, p[2])
}

func TestParseNames(t *testing.T) {
	for ip := range interpolatorNames {
		got, err := ParseInterpolator(ip.String())
		require.NoError(t, err)
		require.Equal(t, ip, got)
	}
	_, err := ParseInterpolator("nope")
	require.Error(t, err)

	for m := range colorModeNames {
		got, err := ParseColorMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err = ParseColorMode("five")
	require.Error(t, err)
}

func TestNewEncoderRejectsBadOptions(t *testing.T) {
	for _, level := range []int{-1, ExhaustiveLevel + 1} {
		_, err := NewEncoder(Options{Level: level})
		require.Error(t, err)
	}
	_, err := NewEncoder(Options{Level: DefaultLevel, ColorMode: ColorMode(9)})
	require.Error(t, err)
	_, err = NewEncoder(Options{Level: DefaultLevel, Interpolator: Interpolator(9)})
	require.Error(t, err)
	_, err = NewDecoder(Interpolator(-1))
	require.Error(t, err)
}

func TestSingleColorTables(t *testing.T) {
	tabs := singleColorFor(Ideal)
	for i := 0; i < 256; i++ {
		m := tabs.r4[i]
		v := Ideal.third5(m.high, m.low)
		require.LessOrEqual(t, absInt(int(v)-i), 4, "r4[%d]", i)

		m = tabs.g4[i]
		v = Ideal.third6(m.high, m.low)
		require.LessOrEqual(t, absInt(int(v)-i), 2, "g4[%d]", i)
	}
	require.Equal(t, match{31, 31, 0}, tabs.r4[255])
	require.Equal(t, match{0, 0, 0}, tabs.g3[0])
}

func TestEncodeGreyscaleRamp(t *testing.T) {
	want := Selectors{{0, 2, 3, 1}, {0, 2, 3, 1}, {0, 2, 3, 1}, {0, 2, 3, 1}}
	dec := mustDecoder(t)
	for level := 0; level <= ExhaustiveLevel; level++ {
		for mode := range colorModeNames {
			b := mustEncoder(t, level, mode).EncodeBlock(greyTile())
			require.False(t, b.Is3Color(), "level %d mode %s", level, mode)
			require.Equal(t, want, b.Selectors(), "level %d mode %s", level, mode)

			var out texture.Tile
			dec.DecodeBlock(b, &out)
			require.Equal(t, *greyTile(), out)
		}
	}
}

func TestEncodeThreeColorMidpoint(t *testing.T) {
	tile := rowsTile([4]color.RGBA{red, mid, mid, green})
	dec := mustDecoder(t)
	for _, level := range []int{2, DefaultLevel, 10, MaxLevel} {
		b := mustEncoder(t, level, ThreeColor).EncodeBlock(tile)
		require.True(t, b.Is3Color(), "level %d", level)

		var out texture.Tile
		dec.DecodeBlock(b, &out)
		require.Equal(t, *tile, out, "level %d", level)

		b = mustEncoder(t, level, FourColor).EncodeBlock(tile)
		require.False(t, b.Is3Color())
	}
}

func TestEncodeThreeColorBlack(t *testing.T) {
	tile := rowsTile([4]color.RGBA{black, red, mid, green})

	b := mustEncoder(t, DefaultLevel, ThreeColorBlack).EncodeBlock(tile)
	require.True(t, b.Is3Color())
	for y := 0; y < 4; y++ {
		require.Equal(t, uint8(3), b.Selector(0, y))
	}
	var out texture.Tile
	mustDecoder(t).DecodeBlock(b, &out)
	require.Equal(t, color.RGBA{}, out.Get(0, 0))
	require.Equal(t, red, out.Get(1, 0))
	require.Equal(t, mid, out.Get(2, 0))
	require.Equal(t, green, out.Get(3, 0))
}

func TestFullSelectorTies(t *testing.T) {
	opts := DefaultOptions()
	opts.Level = 4
	e, err := NewEncoder(opts)
	require.NoError(t, err)

	// 199 sits exactly between the 2/3 point (159) and the high endpoint (239)
	var tile texture.Tile
	for i := range tile {
		tile[i] = color.RGBA{199, 0, 0, 255}
	}
	r := result{low: Color565{}, high: Color565{R: 29}, err: math.MaxInt}
	e.findSelectors(&r, &tile, FourColor, errorFull)
	for _, s := range r.sel {
		require.Equal(t, uint8(2), s, "four-color ties keep the lower index")
	}

	// 8 is as far from the endpoints (16) as from black
	for i := range tile {
		tile[i] = color.RGBA{8, 0, 0, 255}
	}
	r = result{low: Color565{R: 2}, high: Color565{R: 2}, err: math.MaxInt}
	e.findSelectors(&r, &tile, ThreeColorBlack, errorFull)
	for _, s := range r.sel {
		require.Equal(t, uint8(3), s, "black wins ties in 3-color-black mode")
	}
}

func TestEncodeModeInvariants(t *testing.T) {
	raw := noiseTexture(t, 3, 16, 8)
	for level := 0; level <= MaxLevel; level++ {
		four, err := mustEncoder(t, level, FourColor).Encode(raw)
		require.NoError(t, err)
		three, err := mustEncoder(t, level, ThreeColor).Encode(raw)
		require.NoError(t, err)

		for by := 0; by < four.BlocksHigh(); by++ {
			for bx := 0; bx < four.BlocksWide(); bx++ {
				b, err := four.Block(bx, by)
				require.NoError(t, err)
				require.False(t, b.Is3Color(), "level %d block (%d, %d)", level, bx, by)

				b, err = three.Block(bx, by)
				require.NoError(t, err)
				if b.Is3Color() {
					for y := 0; y < 4; y++ {
						for x := 0; x < 4; x++ {
							require.NotEqual(t, uint8(3), b.Selector(x, y), "level %d", level)
						}
					}
				}
			}
		}
	}
}

func TestEncodeSolid(t *testing.T) {
	dec := mustDecoder(t)
	for _, c := range []color.RGBA{{10, 200, 30, 255}, {255, 255, 255, 255}, {1, 1, 1, 255}, {128, 64, 32, 17}} {
		var tile texture.Tile
		for i := range tile {
			tile[i] = c
		}
		for mode := range colorModeNames {
			b := mustEncoder(t, DefaultLevel, mode).EncodeBlock(&tile)
			if mode == FourColor {
				require.False(t, b.Is3Color())
			}
			var out texture.Tile
			dec.DecodeBlock(b, &out)
			for _, p := range out {
				require.InDelta(t, c.R, p.R, 4, "%v", c)
				require.InDelta(t, c.G, p.G, 2, "%v", c)
				require.InDelta(t, c.B, p.B, 4, "%v", c)
				require.Equal(t, uint8(255), p.A)
			}
		}
	}

	var zero texture.Tile
	for i := range zero {
		zero[i] = black
	}
	b := mustEncoder(t, DefaultLevel, FourColor).EncodeBlock(&zero)
	require.Equal(t, Block{Color0: 1, Color1: 0, Rows: fillRows(1)}, b)
}

func TestEncodeOddSize(t *testing.T) {
	raw := gradientTexture(t, 9, 9)
	enc := mustEncoder(t, DefaultLevel, FourColor)
	tex, err := enc.Encode(raw)
	require.NoError(t, err)
	require.Equal(t, 72, tex.NBytes())

	out, err := mustDecoder(t).Decode(tex)
	require.NoError(t, err)
	w, h := out.Size()
	require.Equal(t, 9, w)
	require.Equal(t, 9, h)
}

func rmse(a, b *texture.RawTexture) float64 {
	pa, pb := a.Bytes(), b.Bytes()
	var sum float64
	n := 0
	for i := 0; i < len(pa); i += 4 {
		for c := 0; c < 3; c++ {
			d := float64(pa[i+c]) - float64(pb[i+c])
			sum += d * d
			n++
		}
	}
	return math.Sqrt(sum / float64(n))
}

func TestEncodeLevelsQuality(t *testing.T) {
	raw := gradientTexture(t, 32, 32)
	dec := mustDecoder(t)
	for level := 0; level <= MaxLevel; level++ {
		tex, err := mustEncoder(t, level, FourColor).Encode(raw)
		require.NoError(t, err)
		out, err := dec.Decode(tex)
		require.NoError(t, err)
		require.Less(t, rmse(raw, out), 20.0, "level %d", level)
	}
}

func TestTextureBlocks(t *testing.T) {
	tex, err := NewTexture(8, 8)
	require.NoError(t, err)
	b := Block{Color0: 0x1234, Color1: 0x0042, Rows: [4]uint8{1, 2, 3, 4}}
	require.NoError(t, tex.SetBlock(-1, -1, b))
	got, err := tex.Block(1, 1)
	require.NoError(t, err)
	require.Equal(t, b, got)
	require.Equal(t, b.Bytes(), tex.Bytes()[24:32])

	_, err = tex.Block(2, 0)
	require.ErrorIs(t, err, texture.ErrOutOfRange)

	_, err = TextureFromBytes(make([]byte, 31), 8, 8)
	require.ErrorIs(t, err, texture.ErrMalformedInput)
}

func TestDecodeMatchesReference(t *testing.T) {
	raw := gradientTexture(t, 16, 16)
	tex, err := mustEncoder(t, DefaultLevel, FourColor).Encode(raw)
	require.NoError(t, err)

	ours, err := mustDecoder(t).Decode(tex)
	require.NoError(t, err)
	ref, err := dxt.DecodeDXT1(tex.Bytes(), 16, 16)
	require.NoError(t, err)
	require.Len(t, ref, ours.NBytes())

	for i, v := range ours.Bytes() {
		require.InDelta(t, v, ref[i], 4, "byte %d", i)
	}
}
