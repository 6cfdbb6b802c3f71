package qrcomm

import (
	"testing"

	"github.com/mentalcardgames/mcg-sub000/internal/galois"
)

func TestSparseFromWideRoundTrip(t *testing.T) {
	var w WideFactor
	w[3] = galois.Elem(5)
	w[40] = galois.Elem(9)
	w[255] = galois.Elem(1)

	sp := SparseFromWide(&w)
	if len(sp) != 3 {
		t.Fatalf("expected 3 nonzero entries, got %d", len(sp))
	}
	got := sp.ToWide()
	if *got != w {
		t.Fatalf("sparse round-trip mismatch: got %v want %v", got, w)
	}
}

func TestSparseGet(t *testing.T) {
	sp := SparseFactor{{Index: 2, Coeff: 4}, {Index: 9, Coeff: 7}}
	if c, ok := sp.Get(9); !ok || c != 7 {
		t.Fatalf("Get(9) = %v, %v; want 7, true", c, ok)
	}
	if _, ok := sp.Get(3); ok {
		t.Fatalf("Get(3) should miss")
	}
}

// FrameFactorFromWide / ToWide round-trip: a dense factor vector with a
// tight window per participant should survive being packed down to its
// FrameFactor form and expanded back out.
func TestFrameFactorRoundTrip(t *testing.T) {
	var w WideFactor
	w[0*FragmentsPerParticipantPerEpoch+2] = galois.Elem(3)
	w[0*FragmentsPerParticipantPerEpoch+5] = galois.Elem(6)
	w[3*FragmentsPerParticipantPerEpoch+10] = galois.Elem(1)
	w[7*FragmentsPerParticipantPerEpoch+31] = galois.Elem(9)

	ff, err := FrameFactorFromWide(&w)
	if err != nil {
		t.Fatalf("FrameFactorFromWide: %v", err)
	}
	got := ff.ToWide()
	if *got != w {
		t.Fatalf("frame factor round-trip mismatch:\ngot  %v\nwant %v", got, w)
	}
}

func TestFrameFactorEmptyParticipantHasZeroWidth(t *testing.T) {
	var w WideFactor
	ff, err := FrameFactorFromWide(&w)
	if err != nil {
		t.Fatalf("FrameFactorFromWide: %v", err)
	}
	for p, width := range ff.Widths {
		if width != 0 {
			t.Fatalf("participant %d width = %d, want 0 for all-zero factor", p, width)
		}
	}
	if len(ff.Factors) != 0 {
		t.Fatalf("expected no packed factors, got %d", len(ff.Factors))
	}
}

func TestGetFactorAtMatchesToWide(t *testing.T) {
	var w WideFactor
	w[1*FragmentsPerParticipantPerEpoch+4] = galois.Elem(2)
	ff, err := FrameFactorFromWide(&w)
	if err != nil {
		t.Fatalf("FrameFactorFromWide: %v", err)
	}
	for i := 0; i < FragmentsPerEpoch; i++ {
		if got, want := ff.GetFactorAt(i), w[i]; got != want {
			t.Fatalf("GetFactorAt(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestFrameFactorFromWideHandlesFullyDenseVector(t *testing.T) {
	var w WideFactor
	// A fully dense factor vector is the worst case for packed size;
	// FragmentsPerEpoch (256) never exceeds CodingFactorsPerFrame (512),
	// so this must still succeed and round-trip.
	for p := 0; p < MaxParticipants; p++ {
		for i := 0; i < FragmentsPerParticipantPerEpoch; i++ {
			w[p*FragmentsPerParticipantPerEpoch+i] = galois.Elem(1)
		}
	}
	ff, err := FrameFactorFromWide(&w)
	if err != nil {
		t.Fatalf("FrameFactorFromWide on dense vector: %v", err)
	}
	if got := ff.ToWide(); *got != w {
		t.Fatalf("dense frame factor round-trip mismatch")
	}
}
