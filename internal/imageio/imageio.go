// Package imageio loads and saves the uncompressed image formats the
// command line tool converts to and from DDS.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dblezek/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/erinpentecost/bcpack/internal/texture"
)

type codec struct {
	decode func(io.Reader) (image.Image, error)
	// encode is nil for read-only formats.
	encode func(io.Writer, image.Image) error
}

var codecs = map[string]codec{
	"png":  {png.Decode, png.Encode},
	"bmp":  {bmp.Decode, bmp.Encode},
	"tga":  {tga.Decode, tga.Encode},
	"tif":  {tiff.Decode, encodeTIFF},
	"tiff": {tiff.Decode, encodeTIFF},
	"webp": {webp.Decode, nil},
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// Ext returns the lower-case extension of path without the dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// CanLoad reports whether path has an extension Load understands.
func CanLoad(path string) bool {
	_, ok := codecs[Ext(path)]
	return ok
}

// CanSave reports whether ext names a format Save can write.
func CanSave(ext string) bool {
	c, ok := codecs[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok && c.encode != nil
}

// Decode reads an image in the format named by ext.
func Decode(r io.Reader, ext string) (image.Image, error) {
	c, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("%w: image extension %q", texture.ErrUnsupportedFormat, ext)
	}
	img, err := c.decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", texture.ErrMalformedInput, ext, err)
	}
	return img, nil
}

// Encode writes img in the format named by ext.
func Encode(w io.Writer, ext string, img image.Image) error {
	c, ok := codecs[ext]
	if !ok || c.encode == nil {
		return fmt.Errorf("%w: can't write %q images", texture.ErrUnsupportedFormat, ext)
	}
	return c.encode(w, img)
}

// Load reads the image at path, picking the format from its extension.
func Load(path string) (image.Image, error) {
	ext := Ext(path)
	if _, ok := codecs[ext]; !ok {
		return nil, fmt.Errorf("%w: image extension %q", texture.ErrUnsupportedFormat, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()
	img, err := Decode(bufio.NewReader(f), ext)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return img, nil
}

// Save writes img to path, picking the format from its extension.
func Save(path string, img image.Image) (err error) {
	ext := Ext(path)
	if !CanSave(ext) {
		return fmt.Errorf("%w: can't write %q images", texture.ErrUnsupportedFormat, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()
	w := bufio.NewWriter(f)
	if err := Encode(w, ext, img); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return w.Flush()
}
