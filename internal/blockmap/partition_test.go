package blockmap

import "testing"

func TestPartition_ContiguousAndComplete(t *testing.T) {
	sizes := []int64{1, 2, 5, 100, 1000, 4096, 4097}
	counts := []int{1, 2, 3, 10, 64}

	for _, total := range sizes {
		for _, count := range counts {
			spans, err := Partition(total, count)
			if err != nil {
				t.Fatalf("Partition(%d, %d) failed: %v", total, count, err)
			}
			if len(spans) != count {
				t.Fatalf("Partition(%d, %d) returned %d spans", total, count, len(spans))
			}

			var covered int64
			sawEmpty := false
			for i, span := range spans {
				if span.Number != i+1 {
					t.Errorf("span %d has number %d", i, span.Number)
				}
				if span.Size > 0 {
					if sawEmpty {
						t.Errorf("Partition(%d, %d): non-empty span %d after an empty one", total, count, span.Number)
					}
					if span.Location != covered {
						t.Errorf("Partition(%d, %d): span %d at %d, want %d", total, count, span.Number, span.Location, covered)
					}
					covered += span.Size
				} else {
					sawEmpty = true
				}
			}
			if covered != total {
				t.Errorf("Partition(%d, %d) covers %d bytes", total, count, covered)
			}
		}
	}
}

func TestPartition_SingleBlock(t *testing.T) {
	spans, err := Partition(1234, 1)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if spans[0].Location != 0 || spans[0].Size != 1234 {
		t.Errorf("single block is (%d, %d), want (0, 1234)", spans[0].Location, spans[0].Size)
	}
}

func TestPartition_EmptyFile(t *testing.T) {
	spans, err := Partition(0, 5)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(spans) != 5 {
		t.Fatalf("expected 5 spans, got %d", len(spans))
	}
	for _, span := range spans {
		if span.Location != 0 || span.Size != 0 {
			t.Errorf("span %d is (%d, %d), want (0, 0)", span.Number, span.Location, span.Size)
		}
	}
}

func TestPartition_RejectsNonPositiveCount(t *testing.T) {
	if _, err := Partition(100, 0); err == nil {
		t.Error("expected error for count 0")
	}
	if _, err := Partition(100, -3); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestDefaultExcerptSize(t *testing.T) {
	if got := DefaultExcerptSize(0); got != 0 {
		t.Errorf("DefaultExcerptSize(0) = %d, want 0", got)
	}
	if got := DefaultExcerptSize(1); got != 0 {
		t.Errorf("DefaultExcerptSize(1) = %d, want 0", got)
	}
	// ln(1001) is about 6.9
	if got := DefaultExcerptSize(1000); got != 6 {
		t.Errorf("DefaultExcerptSize(1000) = %d, want 6", got)
	}
	if got := DefaultExcerptSize(1 << 30); got != 20 {
		t.Errorf("DefaultExcerptSize(1<<30) = %d, want 20", got)
	}
}
