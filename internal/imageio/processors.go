package imageio

import (
	"image"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// Processor transforms an image between loading and encoding, or between
// decoding and saving.
type Processor interface {
	Process(src *image.NRGBA) (*image.NRGBA, error)
}

// FlipProcessor mirrors an image top to bottom.
type FlipProcessor struct{}

func (FlipProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		from := src.PixOffset(b.Min.X, b.Max.Y-1-y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], src.Pix[from:from+rowLen])
	}
	return out, nil
}

// OpaqueProcessor returns a copy of an image with every alpha set to 255.
type OpaqueProcessor struct{}

func (OpaqueProcessor) Process(src *image.NRGBA) (*image.NRGBA, error) {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+rowLen]
		copy(row, src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		for x := 3; x < rowLen; x += 4 {
			row[x] = 0xff
		}
	}
	return out, nil
}

// Apply converts img to NRGBA and runs each processor over it in order.
func Apply(img image.Image, procs ...Processor) (*image.NRGBA, error) {
	out := texture.ToNRGBA(img)
	for _, p := range procs {
		var err error
		if out, err = p.Process(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// HasAlpha reports whether any pixel is less than fully opaque.
func HasAlpha(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] != 0xff {
				return true
			}
		}
	}
	return false
}
