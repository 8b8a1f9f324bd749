// Package mip builds mipmap chains for block compression. Resizing keeps
// color and alpha apart so fully transparent pixels don't darken their
// neighbours.
package mip

import (
	"fmt"
	"image"
	"image/color"
	"math/bits"

	"golang.org/x/image/draw"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// Sizes lists the dimensions of each mip level, largest first. A count of
// zero or less means the full chain down to 1x1. The list never continues
// past 1x1.
func Sizes(width, height, count int) ([]image.Point, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: mip chain for %dx%d", texture.ErrMalformedInput, width, height)
	}
	if count <= 0 {
		count = FullCount(width, height)
	}
	out := make([]image.Point, 0, min(count, FullCount(width, height)))
	w, h := width, height
	for len(out) < count {
		out = append(out, image.Pt(w, h))
		if w == 1 && h == 1 {
			break
		}
		w, h = max(1, w/2), max(1, h/2)
	}
	return out, nil
}

// FullCount is the number of levels in a complete chain: ceil(log2(max)) + 1.
func FullCount(width, height int) int {
	m := max(width, height)
	if m <= 1 {
		return 1
	}
	return bits.Len(uint(m-1)) + 1
}

// Pad grows img to a multiple of size in each direction by repeating the
// last row and column. An image that is already aligned, or a size below
// 1, returns img itself.
func Pad(img *image.NRGBA, size int) *image.NRGBA {
	if size < 1 {
		return img
	}
	b := img.Bounds()
	w := (b.Dx() + size - 1) / size * size
	h := (b.Dy() + size - 1) / size * size
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := b.Min.Y + min(y, b.Dy()-1)
		for x := 0; x < w; x++ {
			sx := b.Min.X + min(x, b.Dx()-1)
			out.SetNRGBA(x, y, img.NRGBAAt(sx, sy))
		}
	}
	return out
}

// Resize scales img to width x height with bilinear filtering. RGB is
// filtered as if every pixel were opaque and alpha is filtered on its own.
func Resize(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	rgb := image.NewNRGBA(b)
	alpha := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			rgb.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
			alpha.SetGray(x, y, color.Gray{Y: c.A})
		}
	}

	dst := image.Rect(0, 0, width, height)
	rgbOut := image.NewNRGBA(dst)
	alphaOut := image.NewGray(dst)
	draw.BiLinear.Scale(rgbOut, dst, rgb, b, draw.Src, nil)
	draw.BiLinear.Scale(alphaOut, dst, alpha, b, draw.Src, nil)

	for i := 0; i < width*height; i++ {
		rgbOut.Pix[i*4+3] = alphaOut.Pix[i]
	}
	return rgbOut
}

// Chain converts img and builds count mip levels from it, each resized from
// the one before. A count of zero or less builds the full chain.
func Chain(img image.Image, count int) ([]*image.NRGBA, error) {
	base := texture.ToNRGBA(img)
	sizes, err := Sizes(base.Bounds().Dx(), base.Bounds().Dy(), count)
	if err != nil {
		return nil, err
	}
	out := make([]*image.NRGBA, len(sizes))
	out[0] = base
	for i := 1; i < len(sizes); i++ {
		out[i] = Resize(out[i-1], sizes[i].X, sizes[i].Y)
	}
	return out, nil
}
