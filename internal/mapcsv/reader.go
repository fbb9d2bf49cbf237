package mapcsv

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/blockmark/blockmark/internal/blockmap"
)

// MapReader decodes a block-map document row by row. The first
// malformed row aborts the stream; there is no skip-and-continue.
type MapReader struct {
	csv       *csv.Reader
	algorithm string
	row       int
}

// NewMapReader reads and validates the document header. The header
// must begin with the literal columns number, size, excerpt; its
// fourth column names the digest algorithm.
func NewMapReader(r io.Reader) (*MapReader, error) {
	cr := csv.NewReader(r)
	// Column counts are validated by hand for clearer messages.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read block map header: %w", err)
	}
	if len(header) < 4 {
		return nil, fmt.Errorf("block map header has %d columns, want at least 4", len(header))
	}
	if header[0] != "number" || header[1] != "size" || header[2] != "excerpt" {
		return nil, fmt.Errorf("block map header must begin with number,size,excerpt; got %q",
			strings.Join(header[:3], ","))
	}
	return &MapReader{csv: cr, algorithm: header[3]}, nil
}

// Algorithm returns the digest algorithm name from the header.
func (r *MapReader) Algorithm() string {
	return r.algorithm
}

// Next returns the next block descriptor, or io.EOF when the document
// is exhausted.
func (r *MapReader) Next() (blockmap.Descriptor, error) {
	row, err := r.csv.Read()
	if err == io.EOF {
		return blockmap.Descriptor{}, io.EOF
	}
	r.row++
	if err != nil {
		return blockmap.Descriptor{}, fmt.Errorf("read block map row %d: %w", r.row, err)
	}
	if len(row) < 4 {
		return blockmap.Descriptor{}, fmt.Errorf("block map row %d has %d columns, want at least 4", r.row, len(row))
	}

	number, err := strconv.Atoi(row[0])
	if err != nil {
		return blockmap.Descriptor{}, fmt.Errorf("block map row %d: bad block number %q", r.row, row[0])
	}
	if number < 0 {
		return blockmap.Descriptor{}, fmt.Errorf("block map row %d: negative block number %d", r.row, number)
	}

	size, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil {
		return blockmap.Descriptor{}, fmt.Errorf("block map row %d: bad block size %q", r.row, row[1])
	}
	if size < 0 {
		return blockmap.Descriptor{}, fmt.Errorf("block map row %d: negative block size %d", r.row, size)
	}

	excerpt, err := base64.StdEncoding.DecodeString(row[2])
	if err != nil {
		return blockmap.Descriptor{}, fmt.Errorf("block map row %d: excerpt is not valid base64: %w", r.row, err)
	}
	if len(excerpt) == 0 {
		excerpt = nil
	}

	if _, err := hex.DecodeString(row[3]); err != nil {
		return blockmap.Descriptor{}, fmt.Errorf("block map row %d: digest is not valid hexadecimal: %w", r.row, err)
	}
	// Digests are compared as strings against lowercase hex, so
	// accepted uppercase input must be folded or it can never match.
	digest := strings.ToLower(row[3])

	return blockmap.Descriptor{
		Number:  number,
		Size:    size,
		Excerpt: excerpt,
		Digest:  digest,
	}, nil
}
