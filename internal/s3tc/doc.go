// Package s3tc holds what the BCn block codecs share: the parallel loop that
// walks a texture block by block, and the interfaces the DDS layer uses to
// drive any of the formats.
package s3tc
