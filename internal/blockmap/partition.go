package blockmap

import (
	"fmt"
	"math"
)

// Partition splits a file of totalSize bytes into count blocks of
// roughly equal size, covering the file left to right with no gaps and
// no overlap. The nominal block size is ceil(totalSize/count); once the
// file is exhausted, the remaining blocks have size 0. An empty file
// yields count blocks of size 0.
func Partition(totalSize int64, count int) ([]Span, error) {
	if count <= 0 {
		return nil, fmt.Errorf("block count must be positive, got %d", count)
	}
	if totalSize < 0 {
		return nil, fmt.Errorf("negative file size %d", totalSize)
	}

	full := (totalSize + int64(count) - 1) / int64(count)

	spans := make([]Span, 0, count)
	for i := 0; i < count; i++ {
		location := int64(i) * full
		size := totalSize - location
		if size < 0 {
			size = 0
		}
		if size > full {
			size = full
		}
		spans = append(spans, Span{Number: i + 1, Location: location, Size: size})
	}
	return spans, nil
}

// DefaultExcerptSize returns the excerpt length used when the caller
// does not pick one: floor(ln(totalSize+1)) bytes. Very small files get
// no excerpt at all; even huge files anchor on a few dozen bytes.
func DefaultExcerptSize(totalSize int64) int {
	return int(math.Log(float64(totalSize) + 1))
}
