package timeline

import (
	"math/rand"
	"testing"
)

func TestMergeOverlappingAndAdjacent(t *testing.T) {
	got := Merge([]Range{{Start: 30, End: 40}, {Start: 10, End: 20}, {Start: 15, End: 25}, {Start: 40, End: 45}})
	want := []Range{{Start: 10, End: 25}, {Start: 30, End: 45}}
	if len(got) != len(want) {
		t.Fatalf("unexpected merged ranges: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("range %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	in := []Range{{Start: 5, End: 9}, {Start: 1, End: 6}}
	_ = Merge(in)
	if in[0].Start != 5 || in[1].Start != 1 || in[1].End != 6 {
		t.Fatalf("input was mutated: %+v", in)
	}
}

func TestMergeDropsEmptyRanges(t *testing.T) {
	got := Merge([]Range{{Start: 3, End: 3}, {Start: 5, End: 4}})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
	if Merge(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}

func TestMergePropertiesRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(8)
		in := make([]Range, 0, n)
		for i := 0; i < n; i++ {
			s := float64(rng.Intn(100))
			in = append(in, Range{Start: s, End: s + float64(rng.Intn(20))})
		}
		out := Merge(in)

		for i := 1; i < len(out); i++ {
			if out[i].Start <= out[i-1].End {
				t.Fatalf("output not sorted/disjoint: %+v", out)
			}
		}
		// Birleşim eşitliği: 0.5'lik örnekleme noktalarında üyelik aynı olmalı.
		for p := 0.0; p < 125; p += 0.5 {
			inIn := false
			for _, r := range in {
				if r.Contains(p) {
					inIn = true
					break
				}
			}
			inOut := false
			for _, r := range out {
				if r.Contains(p) {
					inOut = true
					break
				}
			}
			if inIn != inOut {
				t.Fatalf("union mismatch at %.1f: in=%+v out=%+v", p, in, out)
			}
		}

		again := Merge(out)
		if len(again) != len(out) {
			t.Fatalf("merge not idempotent: %+v vs %+v", out, again)
		}
		for i := range out {
			if again[i] != out[i] {
				t.Fatalf("merge not idempotent: %+v vs %+v", out, again)
			}
		}
	}
}

func TestTotalLength(t *testing.T) {
	if got := TotalLength([]Range{{Start: 0, End: 2.5}, {Start: 10, End: 12}}); got != 4.5 {
		t.Fatalf("unexpected total: %.2f", got)
	}
}
