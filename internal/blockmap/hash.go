package blockmap

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// segmentSize bounds memory per hash computation: a block is streamed
// through the digest in segments of this many bytes, so arbitrarily
// large blocks never get materialized in full.
const segmentSize = 2 << 20

// Algorithm is a digest algorithm resolved from the supported set.
type Algorithm struct {
	Name string
	New  func() hash.Hash
}

var algorithms = map[string]func() hash.Hash{
	"blake3": func() hash.Hash { return blake3.New() },
	"sha256": sha256.New,
	"sha512": sha512.New,
	"sha1":   sha1.New,
	"md5":    md5.New,
}

// AlgorithmNames returns the supported digest algorithm names, sorted.
func AlgorithmNames() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveAlgorithm looks up a digest algorithm by name. Unknown names
// are rejected here, before any file I/O happens.
func ResolveAlgorithm(name string) (Algorithm, error) {
	ctor, ok := algorithms[name]
	if !ok {
		return Algorithm{}, fmt.Errorf("unsupported hash algorithm %q (supported: %s)",
			name, strings.Join(AlgorithmNames(), ", "))
	}
	return Algorithm{Name: name, New: ctor}, nil
}

// HashRange digests length bytes of src starting at offset and returns
// the lowercase hex digest. If src ends before the range does, the
// remainder is zero-padded up to length so the digest stays
// deterministic; downstream hash comparison then rejects the block
// instead of the read failing outright. length 0 returns the empty
// sentinel without touching the hash primitive.
func HashRange(src io.ReaderAt, offset, length int64, alg Algorithm) (string, error) {
	return hashRange(src, offset, length, alg, segmentSize)
}

func hashRange(src io.ReaderAt, offset, length int64, alg Algorithm, segment int64) (string, error) {
	if length == 0 {
		return "", nil
	}

	h := alg.New()
	buf := make([]byte, segment)
	remaining := length
	pos := offset
	for remaining > 0 {
		want := remaining
		if want > segment {
			want = segment
		}
		n, err := src.ReadAt(buf[:want], pos)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			// Source ended inside the block, e.g. the file was
			// truncated after partitioning. Pad with zeros.
			padZeros(h, buf, remaining-int64(n))
			remaining = 0
			break
		}
		if err != nil {
			return "", fmt.Errorf("read %d bytes at offset %d: %w", want, pos, err)
		}
		pos += int64(n)
		remaining -= int64(n)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func padZeros(h hash.Hash, buf []byte, n int64) {
	for i := range buf {
		buf[i] = 0
	}
	for n > 0 {
		w := int64(len(buf))
		if w > n {
			w = n
		}
		h.Write(buf[:w])
		n -= w
	}
}
