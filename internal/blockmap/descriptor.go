// Package blockmap fingerprints a file as a sequence of equally sized
// blocks and relocates those blocks inside a possibly modified copy of
// the file. A fingerprint is an ordered list of block descriptors; each
// descriptor carries a short excerpt used as a cheap search anchor and
// a digest of the full block used as the expensive verification step.
package blockmap

// Descriptor identifies one block of a fingerprinted file.
type Descriptor struct {
	Number  int    // 1-based, assigned sequentially
	Size    int64  // block length in bytes; 0 for blocks entirely past end-of-file
	Excerpt []byte // prefix of the block, empty iff Size is 0 or the excerpt size rounds to 0
	Digest  string // lowercase hex digest of the full block; "" acts as a wildcard
}

// Span is the computed placement of one block within the source file.
type Span struct {
	Number   int
	Location int64
	Size     int64
}

// Result reports where a block was found in a candidate file. Location
// is only meaningful when Found is true. Probed counts the candidate
// offsets that were hash-verified before the search resolved.
type Result struct {
	Number   int
	Size     int64
	Location int64
	Found    bool
	Probed   int
}
