package blockmap

import (
	"bytes"
	"fmt"
	"io"
)

// searchWindow is the buffer size used when scanning the candidate
// file for excerpt occurrences.
const searchWindow = 256 << 10

// Searcher relocates the blocks of a fingerprinted file inside a
// candidate copy that may have been shifted, truncated, or reordered.
// Descriptors must be fed in ascending block order; the searcher keeps
// a cursor at the end of the last verified block and, unless
// transposition checking is on, starts each search there.
type Searcher struct {
	src            io.ReaderAt
	size           int64
	alg            Algorithm
	transpositions bool
	cursor         int64 // where the last verified block ended
	win            []byte
}

// NewSearcher prepares a search over a candidate file of size bytes.
// With checkTranspositions every block is searched from offset 0, which
// finds blocks that moved out of sequence at the cost of re-scanning
// the file per block. Without it, blocks are assumed to stay in
// non-decreasing order and each search starts at the cursor.
func NewSearcher(src io.ReaderAt, size int64, alg Algorithm, checkTranspositions bool) *Searcher {
	return &Searcher{
		src:            src,
		size:           size,
		alg:            alg,
		transpositions: checkTranspositions,
		win:            make([]byte, searchWindow),
	}
}

// Next resolves one descriptor against the candidate file. A zero-size
// block is defined to occur exactly where the previous verified block
// ended and never searches. Otherwise candidates are offsets where the
// excerpt recurs; each candidate is verified by hashing the full block
// range, retrying from the next byte on mismatch. A not-found outcome
// leaves the cursor alone so later blocks keep searching from the same
// place.
func (s *Searcher) Next(d Descriptor) (Result, error) {
	res := Result{Number: d.Number, Size: d.Size}

	if d.Size == 0 {
		res.Location = s.cursor
		res.Found = true
		return res, nil
	}

	origin := s.cursor
	if s.transpositions {
		origin = 0
	}

	if len(d.Excerpt) == 0 {
		// No anchor to scan for: the sole candidate is the origin.
		res.Probed++
		ok, err := s.verify(d, origin)
		if err != nil || !ok {
			return res, err
		}
		s.accept(&res, origin, d.Size)
		return res, nil
	}

	for p := origin; ; p++ {
		var found bool
		var err error
		p, found, err = s.findExcerpt(d.Excerpt, p)
		if err != nil {
			return res, err
		}
		if !found {
			return res, nil
		}
		res.Probed++
		ok, err := s.verify(d, p)
		if err != nil {
			return res, err
		}
		if ok {
			s.accept(&res, p, d.Size)
			return res, nil
		}
		// The excerpt may recur at overlapping or adjacent offsets,
		// so back off by a single byte only.
	}
}

func (s *Searcher) accept(res *Result, location, size int64) {
	res.Location = location
	res.Found = true
	s.cursor = location + size
}

// verify hashes the full block range at p and compares against the
// stored digest. An empty stored digest is a wildcard that accepts the
// first excerpt match unconditionally.
func (s *Searcher) verify(d Descriptor, p int64) (bool, error) {
	if d.Digest == "" {
		return true, nil
	}
	digest, err := HashRange(s.src, p, d.Size, s.alg)
	if err != nil {
		return false, err
	}
	return digest == d.Digest, nil
}

// findExcerpt returns the first offset >= from at which excerpt occurs
// in the candidate file, scanning in windows that overlap by
// len(excerpt)-1 bytes so matches straddling a window edge are kept.
// The window always holds at least twice the excerpt, so arbitrarily
// large configured excerpts still scan with forward progress.
func (s *Searcher) findExcerpt(excerpt []byte, from int64) (int64, bool, error) {
	m := int64(len(excerpt))
	win := s.win
	if 2*m > int64(len(win)) {
		win = make([]byte, 2*m)
	}
	for base := from; base+m <= s.size; {
		want := int64(len(win))
		if base+want > s.size {
			want = s.size - base
		}
		n, err := s.src.ReadAt(win[:want], base)
		if err != nil && err != io.EOF {
			return 0, false, fmt.Errorf("scan %d bytes at offset %d: %w", want, base, err)
		}
		if int64(n) < m {
			break
		}
		if i := bytes.Index(win[:n], excerpt); i >= 0 {
			return base + int64(i), true, nil
		}
		base += int64(n) - (m - 1)
	}
	return 0, false, nil
}
