package blockmap

import (
	"fmt"
	"io"
)

// Fingerprint partitions a file of totalSize bytes into count blocks
// and emits one descriptor per block, in block order, through emit.
// Each descriptor carries the block's excerpt (the first
// min(excerptSize, blockSize) bytes) and the digest of the full block.
// excerptSize < 0 selects the size-derived default. Emission is
// streaming: a descriptor is handed over as soon as its block has been
// hashed, so callers can flush rows incrementally.
func Fingerprint(src io.ReaderAt, totalSize int64, count int, excerptSize int, alg Algorithm, emit func(Descriptor) error) error {
	spans, err := Partition(totalSize, count)
	if err != nil {
		return err
	}
	if excerptSize < 0 {
		excerptSize = DefaultExcerptSize(totalSize)
	}

	for _, span := range spans {
		d := Descriptor{Number: span.Number, Size: span.Size}
		if span.Size > 0 {
			n := int64(excerptSize)
			if n > span.Size {
				n = span.Size
			}
			if n > 0 {
				d.Excerpt = make([]byte, n)
				if _, err := src.ReadAt(d.Excerpt, span.Location); err != nil {
					return fmt.Errorf("read excerpt of block %d: %w", span.Number, err)
				}
			}
			digest, err := HashRange(src, span.Location, span.Size, alg)
			if err != nil {
				return fmt.Errorf("hash block %d: %w", span.Number, err)
			}
			d.Digest = digest
		}
		if err := emit(d); err != nil {
			return err
		}
	}
	return nil
}
