package blockmap

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func TestResolveAlgorithm_Unknown(t *testing.T) {
	_, err := ResolveAlgorithm("whirlpool")
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	for _, name := range AlgorithmNames() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention supported algorithm %q", err, name)
		}
	}
}

func TestHashRange_ZeroLengthSentinel(t *testing.T) {
	alg, err := ResolveAlgorithm("blake3")
	if err != nil {
		t.Fatalf("ResolveAlgorithm failed: %v", err)
	}
	for _, offset := range []int64{0, 5, 9999} {
		digest, err := HashRange(bytes.NewReader([]byte("irrelevant")), offset, 0, alg)
		if err != nil {
			t.Fatalf("HashRange failed: %v", err)
		}
		if digest != "" {
			t.Errorf("zero-length digest at offset %d is %q, want empty sentinel", offset, digest)
		}
	}
}

func TestHashRange_MatchesDirectDigest(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	alg, err := ResolveAlgorithm("sha256")
	if err != nil {
		t.Fatalf("ResolveAlgorithm failed: %v", err)
	}

	digest, err := HashRange(bytes.NewReader(data), 4, 11, alg)
	if err != nil {
		t.Fatalf("HashRange failed: %v", err)
	}
	sum := sha256.Sum256(data[4:15])
	if want := hex.EncodeToString(sum[:]); digest != want {
		t.Errorf("digest = %s, want %s", digest, want)
	}
}

func TestHashRange_SegmentationDoesNotChangeDigest(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i * 7)
	}
	alg, err := ResolveAlgorithm("sha256")
	if err != nil {
		t.Fatalf("ResolveAlgorithm failed: %v", err)
	}

	whole, err := hashRange(bytes.NewReader(data), 0, int64(len(data)), alg, 1<<20)
	if err != nil {
		t.Fatalf("hashRange failed: %v", err)
	}
	for _, segment := range []int64{1, 7, 100, 300} {
		got, err := hashRange(bytes.NewReader(data), 0, int64(len(data)), alg, segment)
		if err != nil {
			t.Fatalf("hashRange with segment %d failed: %v", segment, err)
		}
		if got != whole {
			t.Errorf("segment %d digest %s differs from %s", segment, got, whole)
		}
	}
}

func TestHashRange_ZeroPadsShortReads(t *testing.T) {
	data := []byte("truncated!")
	alg, err := ResolveAlgorithm("sha256")
	if err != nil {
		t.Fatalf("ResolveAlgorithm failed: %v", err)
	}

	// Ask for more bytes than the source holds: the digest must equal
	// the digest of the data right-padded with zeros, computed over
	// any segmentation.
	padded := append(append([]byte{}, data...), make([]byte, 6)...)
	want, err := HashRange(bytes.NewReader(padded), 0, 16, alg)
	if err != nil {
		t.Fatalf("HashRange on padded data failed: %v", err)
	}

	got, err := HashRange(bytes.NewReader(data), 0, 16, alg)
	if err != nil {
		t.Fatalf("HashRange past EOF failed: %v", err)
	}
	if got != want {
		t.Errorf("digest past EOF = %s, want zero-padded %s", got, want)
	}

	gotSeg, err := hashRange(bytes.NewReader(data), 0, 16, alg, 4)
	if err != nil {
		t.Fatalf("segmented hashRange past EOF failed: %v", err)
	}
	if gotSeg != want {
		t.Errorf("segmented digest past EOF = %s, want %s", gotSeg, want)
	}
}
