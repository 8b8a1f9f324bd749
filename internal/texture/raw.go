package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

const (
	// BlockWidth is the width in pixels of one compressed block.
	BlockWidth = 4
	// BlockHeight is the height in pixels of one compressed block.
	BlockHeight = 4
)

// Tile is one 4x4 block worth of pixels in row-major order.
type Tile [BlockWidth * BlockHeight]color.RGBA

// Get returns the pixel at (x, y) within the tile.
func (t *Tile) Get(x, y int) color.RGBA { return t[y*BlockWidth+x] }

// Set stores the pixel at (x, y) within the tile.
func (t *Tile) Set(x, y int, c color.RGBA) { t[y*BlockWidth+x] = c }

// IsSingleColor is true when all 16 pixels are identical.
func (t *Tile) IsSingleColor() bool {
	for i := 1; i < len(t); i++ {
		if t[i] != t[0] {
			return false
		}
	}
	return true
}

// RawTexture is an uncompressed RGBA8 image stored in one contiguous buffer.
// It is the natural input of the block encoders and output of the decoders.
type RawTexture struct {
	width  int
	height int
	pix    []byte
}

var _ image.Image = (*RawTexture)(nil)

// RawTextureSize is the byte length of a width x height RGBA8 texture. It
// fails for non-positive sizes and sizes that overflow an int.
func RawTextureSize(width, height int) (int, error) {
	if err := checkDimensions(width, height); err != nil {
		return 0, err
	}
	return byteSize(width, height, 4)
}

// NewRawTexture allocates a zeroed texture of the given size.
func NewRawTexture(width, height int) (*RawTexture, error) {
	n, err := RawTextureSize(width, height)
	if err != nil {
		return nil, err
	}
	return &RawTexture{
		width:  width,
		height: height,
		pix:    make([]byte, n),
	}, nil
}

// RawTextureFromBytes copies data into a new texture. The data must hold
// exactly width*height RGBA8 pixels.
func RawTextureFromBytes(data []byte, width, height int) (*RawTexture, error) {
	want, err := RawTextureSize(width, height)
	if err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, fmt.Errorf("%w: raw texture %dx%d needs %d bytes, got %d",
			ErrMalformedInput, width, height, want, len(data))
	}
	t := &RawTexture{width: width, height: height, pix: make([]byte, len(data))}
	copy(t.pix, data)
	return t, nil
}

// FromImage converts any image into a RawTexture with straight (not
// premultiplied) alpha.
func FromImage(m image.Image) (*RawTexture, error) {
	b := m.Bounds()
	t, err := NewRawTexture(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	if n, ok := m.(*image.NRGBA); ok {
		for y := 0; y < t.height; y++ {
			src := n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(t.pix[y*t.Stride():(y+1)*t.Stride()], src[:t.Stride()])
		}
		return t, nil
	}
	dst := &image.NRGBA{Pix: t.pix, Stride: t.Stride(), Rect: image.Rect(0, 0, t.width, t.height)}
	draw.Draw(dst, dst.Rect, m, b.Min, draw.Src)
	return t, nil
}

// Width in pixels.
func (t *RawTexture) Width() int { return t.width }

// Height in pixels.
func (t *RawTexture) Height() int { return t.height }

// Size returns width and height.
func (t *RawTexture) Size() (int, int) { return t.width, t.height }

// Stride is the number of bytes in one row.
func (t *RawTexture) Stride() int { return t.width * 4 }

// NBytes is the length of the pixel buffer.
func (t *RawTexture) NBytes() int { return len(t.pix) }

// Bytes exposes the underlying pixel buffer. Callers must not change its length.
func (t *RawTexture) Bytes() []byte { return t.pix }

// Pixel returns the pixel at (x, y). Negative coordinates count back from
// the far edge.
func (t *RawTexture) Pixel(x, y int) (color.RGBA, error) {
	nx, ny, err := normalize2(x, y, t.width, t.height)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
	}
	return t.at(nx, ny), nil
}

// SetPixel stores c at (x, y) using the same addressing as Pixel.
func (t *RawTexture) SetPixel(x, y int, c color.RGBA) error {
	nx, ny, err := normalize2(x, y, t.width, t.height)
	if err != nil {
		return fmt.Errorf("pixel (%d, %d): %w", x, y, err)
	}
	t.set(nx, ny, c)
	return nil
}

func (t *RawTexture) at(x, y int) color.RGBA {
	i := y*t.Stride() + x*4
	p := t.pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (t *RawTexture) set(x, y int, c color.RGBA) {
	i := y*t.Stride() + x*4
	p := t.pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// BlocksWide is the number of 4x4 blocks needed to cover the width.
func (t *RawTexture) BlocksWide() int { return blocksFor(t.width, BlockWidth) }

// BlocksHigh is the number of 4x4 blocks needed to cover the height.
func (t *RawTexture) BlocksHigh() int { return blocksFor(t.height, BlockHeight) }

// Block reads the 4x4 tile at block coordinates (bx, by). Tiles hanging off
// the right or bottom edge wrap around to the start of the row or column.
func (t *RawTexture) Block(bx, by int) (Tile, error) {
	var tile Tile
	if bx < 0 || by < 0 || bx >= t.BlocksWide() || by >= t.BlocksHigh() {
		return tile, fmt.Errorf("%w: block (%d, %d)", ErrOutOfRange, bx, by)
	}
	px, py := bx*BlockWidth, by*BlockHeight
	for y := 0; y < BlockHeight; y++ {
		for x := 0; x < BlockWidth; x++ {
			tile.Set(x, y, t.at((px+x)%t.width, (py+y)%t.height))
		}
	}
	return tile, nil
}

// SetBlock writes the 4x4 tile at block coordinates (bx, by). Pixels of the
// tile beyond the texture edge are dropped.
func (t *RawTexture) SetBlock(bx, by int, tile *Tile) error {
	if bx < 0 || by < 0 || bx >= t.BlocksWide() || by >= t.BlocksHigh() {
		return fmt.Errorf("%w: block (%d, %d)", ErrOutOfRange, bx, by)
	}
	px, py := bx*BlockWidth, by*BlockHeight
	for y := 0; y < BlockHeight && py+y < t.height; y++ {
		for x := 0; x < BlockWidth && px+x < t.width; x++ {
			t.set(px+x, py+y, tile.Get(x, y))
		}
	}
	return nil
}

// ColorModel implements image.Image.
func (t *RawTexture) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (t *RawTexture) Bounds() image.Rectangle { return image.Rect(0, 0, t.width, t.height) }

// At implements image.Image. Pixels are stored with straight alpha.
func (t *RawTexture) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(t.Bounds()) {
		return color.NRGBA{}
	}
	c := t.at(x, y)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// NRGBA returns a copy of the texture as an *image.NRGBA.
func (t *RawTexture) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(t.Bounds())
	copy(img.Pix, t.pix)
	return img
}

// ToNRGBA returns img as an *image.NRGBA anchored at the origin, copying it
// only when needed.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
