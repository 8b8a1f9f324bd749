package s3tc

import "github.com/erinpentecost/bcpack/internal/texture"

// TextureEncoder compresses a raw texture into blocks of one format.
type TextureEncoder interface {
	EncodeTexture(raw *texture.RawTexture) (*texture.BlockTexture, error)
	// BlockSize is the byte length of one encoded block.
	BlockSize() int
}

// TextureDecoder expands blocks of one format back into pixels.
type TextureDecoder interface {
	DecodeTexture(blocks *texture.BlockTexture) (*texture.RawTexture, error)
	BlockSize() int
}
