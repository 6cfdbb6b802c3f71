package qrcomm

import (
	"fmt"
	"sort"

	"github.com/mentalcardgames/mcg-sub000/internal/galois"
)

// WideFactor is a dense vector of length FragmentsPerEpoch over GF(2^4).
type WideFactor [FragmentsPerEpoch]galois.Elem

// XOR adds other into w in place.
func (w *WideFactor) XOR(other *WideFactor) {
	for i := range w {
		w[i] = galois.Add(w[i], other[i])
	}
}

// ScalarMul multiplies every element of w by s in place.
func (w *WideFactor) ScalarMul(s galois.Elem) {
	for i := range w {
		w[i] = galois.Mul(w[i], s)
	}
}

// ScalarDiv divides every element of w by s (s must be nonzero).
func (w *WideFactor) ScalarDiv(s galois.Elem) {
	w.ScalarMul(galois.Inv(s))
}

// SparseEntry is one nonzero coefficient at a given index.
type SparseEntry struct {
	Index uint32
	Coeff galois.Elem
}

// SparseFactor is an ordered list of nonzero (index, coefficient)
// pairs, indices strictly increasing.
type SparseFactor []SparseEntry

// Get returns the coefficient at idx via binary search, or (Zero,
// false) if idx is not present.
func (s SparseFactor) Get(idx uint32) (galois.Elem, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Index >= idx })
	if i < len(s) && s[i].Index == idx {
		return s[i].Coeff, true
	}
	return galois.Zero, false
}

// SparseFromWide drops zero entries from w.
func SparseFromWide(w *WideFactor) SparseFactor {
	var out SparseFactor
	for i, c := range w {
		if c != galois.Zero {
			out = append(out, SparseEntry{Index: uint32(i), Coeff: c})
		}
	}
	return out
}

// ToWide scatters the sparse pairs into a dense WideFactor.
func (s SparseFactor) ToWide() *WideFactor {
	var w WideFactor
	for _, e := range s {
		w[e.Index] = e.Coeff
	}
	return &w
}

// FrameFactor is the wire form of a factor vector: per participant, a
// tight (offset, width) window of nonzero nibbles within that
// participant's per-epoch slot.
type FrameFactor struct {
	Widths  [MaxParticipants]uint8  // in nibble-pairs (fragment positions), 0..16
	Offsets [MaxParticipants]uint16 // 0..FragmentsPerParticipantPerEpoch
	Factors []galois.Elem           // concatenated windows, length sum(2*Widths[p])
}

// windowBounds returns the [lo,hi) byte-position range of factors for
// participant p within Factors.
func (f *FrameFactor) windowBounds(p int) (int, int) {
	lo := 0
	for i := 0; i < p; i++ {
		lo += 2 * int(f.Widths[i])
	}
	return lo, lo + 2*int(f.Widths[p])
}

// GetFactorAt decodes the i-th position (0..FragmentsPerEpoch) of the
// factor vector this FrameFactor represents.
func (f *FrameFactor) GetFactorAt(i int) galois.Elem {
	p := i / FragmentsPerParticipantPerEpoch
	posInSlot := i % FragmentsPerParticipantPerEpoch
	offset := int(f.Offsets[p])
	width2 := 2 * int(f.Widths[p])
	if posInSlot < offset || posInSlot >= offset+width2 {
		return galois.Zero
	}
	lo, _ := f.windowBounds(p)
	return f.Factors[lo+(posInSlot-offset)]
}

// ToWide expands the FrameFactor into a dense WideFactor; positions
// outside any participant's window are Zero.
func (f *FrameFactor) ToWide() *WideFactor {
	var w WideFactor
	for p := 0; p < MaxParticipants; p++ {
		offset := int(f.Offsets[p])
		width2 := 2 * int(f.Widths[p])
		lo, hi := f.windowBounds(p)
		base := p*FragmentsPerParticipantPerEpoch + offset
		for j := 0; j < width2 && lo+j < hi; j++ {
			w[base+j] = f.Factors[lo+j]
		}
	}
	return &w
}

// getWidthAndOffset scans participant p's slot in w and returns the
// tight (offset, width) window spanning its first and last nonzero
// nibble, width expressed in nibble-pairs (ceil-divided).
func getWidthAndOffset(w *WideFactor, p int) (offset uint16, width uint8) {
	base := p * FragmentsPerParticipantPerEpoch
	first, last := -1, -1
	for i := 0; i < FragmentsPerParticipantPerEpoch; i++ {
		if w[base+i] != galois.Zero {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return 0, 0
	}
	span := last - first + 1
	w8 := (span + 1) / 2 // ceil-divide nibble-pairs
	if first+2*w8 > FragmentsPerParticipantPerEpoch {
		// An odd span ending on the slot's last position starts the
		// window one position earlier so it stays inside the slot.
		first = FragmentsPerParticipantPerEpoch - 2*w8
	}
	return uint16(first), uint8(w8)
}

// FrameFactorFromWide recovers the tight per-participant (offset,
// width) FrameFactor encoding of a dense WideFactor.
func FrameFactorFromWide(w *WideFactor) (*FrameFactor, error) {
	var f FrameFactor
	total := 0
	for p := 0; p < MaxParticipants; p++ {
		offset, width := getWidthAndOffset(w, p)
		f.Offsets[p] = offset
		f.Widths[p] = width
		total += 2 * int(width)
	}
	if total > CodingFactorsPerFrame {
		return nil, fmt.Errorf("qrcomm: factor windows require %d nibbles, exceeds frame capacity %d", total, CodingFactorsPerFrame)
	}
	f.Factors = make([]galois.Elem, total)
	for p := 0; p < MaxParticipants; p++ {
		base := p*FragmentsPerParticipantPerEpoch + int(f.Offsets[p])
		lo, hi := f.windowBounds(p)
		for j := 0; lo+j < hi; j++ {
			f.Factors[lo+j] = w[base+j]
		}
	}
	return &f, nil
}
