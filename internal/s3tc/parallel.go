package s3tc

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/erinpentecost/bcpack/internal/texture"
)

// EncodeFunc compresses one tile into dst, which is exactly one block long.
type EncodeFunc func(tile *texture.Tile, dst []byte)

// DecodeFunc expands one block into tile.
type DecodeFunc func(src []byte, tile *texture.Tile)

// Workers is the number of block rows processed at once.
func Workers() int { return runtime.GOMAXPROCS(0) }

// EncodeBlocks fills a new block texture by running encode over every tile of
// raw. Each worker owns whole block rows of the output, so no locking is
// needed.
func EncodeBlocks(raw *texture.RawTexture, blockSize int, encode EncodeFunc) (*texture.BlockTexture, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	out, err := texture.NewBlockTexture(raw.Width(), raw.Height(), blockSize)
	if err != nil {
		return nil, err
	}
	bw, bh := out.SizeBlocks()
	data := out.Bytes()
	rowBytes := bw * blockSize

	g := new(errgroup.Group)
	g.SetLimit(Workers())
	for by := 0; by < bh; by++ {
		g.Go(func() error {
			row := data[by*rowBytes : (by+1)*rowBytes]
			for bx := 0; bx < bw; bx++ {
				tile, err := raw.Block(bx, by)
				if err != nil {
					return fmt.Errorf("read block (%d, %d): %w", bx, by, err)
				}
				encode(&tile, row[bx*blockSize:(bx+1)*blockSize])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeBlocks expands every block of blocks into a new raw texture. Workers
// write disjoint pixel rows.
func DecodeBlocks(blocks *texture.BlockTexture, blockSize int, decode DecodeFunc) (*texture.RawTexture, error) {
	if err := blocks.Validate(); err != nil {
		return nil, err
	}
	if blocks.BlockSize() != blockSize {
		return nil, fmt.Errorf("%w: texture has %d byte blocks, codec wants %d",
			texture.ErrMalformedInput, blocks.BlockSize(), blockSize)
	}
	out, err := texture.NewRawTexture(blocks.Width(), blocks.Height())
	if err != nil {
		return nil, err
	}
	bw, bh := blocks.SizeBlocks()
	data := blocks.Bytes()
	rowBytes := bw * blockSize

	g := new(errgroup.Group)
	g.SetLimit(Workers())
	for by := 0; by < bh; by++ {
		g.Go(func() error {
			row := data[by*rowBytes : (by+1)*rowBytes]
			var tile texture.Tile
			for bx := 0; bx < bw; bx++ {
				decode(row[bx*blockSize:(bx+1)*blockSize], &tile)
				if err := out.SetBlock(bx, by, &tile); err != nil {
					return fmt.Errorf("write block (%d, %d): %w", bx, by, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
