package qrcomm

import (
	"crypto/rand"
	"fmt"

	"github.com/mentalcardgames/mcg-sub000/internal/galois"
)

// Epoch holds one round's worth of coding state for a single logical
// channel: the equations received so far, the fragments already
// decoded out of them, and enough bookkeeping to both keep ingesting
// frames and keep emitting new ones.
//
// A participant's slot within the epoch is a fixed
// FragmentsPerParticipantPerEpoch-wide window of the dense factor
// space; which of those fragments are actually meaningful is left to
// the caller (unused trailing fragments stay zero and decode to
// Fragment{}).
type Epoch struct {
	Number uint8

	equations        []Equation
	decodedFragments [MaxParticipants][]Fragment
	metaAPFragments  [MaxParticipants][]apRange

	currentUtilization [FragmentsPerEpoch]int
	eliminationFlag    bool

	lastFrame *Frame
}

// apRange is a half-open [lo, hi) span of decoded-fragment indices
// known to belong to one reassembled Package.
type apRange struct {
	lo, hi int
}

// NewEpoch starts a fresh, empty epoch.
func NewEpoch(number uint8) *Epoch {
	return &Epoch{Number: number}
}

// Write stages a Package for transmission by a given participant:
// every fragment of the package becomes a "plain" equation (a single
// nonzero factor at the fragment's absolute index), and its fragment
// range within that participant's decoded-fragment slot is recorded
// so Package reassembly can later find it again.
func (e *Epoch) Write(participant int, pkg Package) error {
	if participant < 0 || participant >= MaxParticipants {
		return fmt.Errorf("qrcomm: participant %d out of range", participant)
	}
	frags := pkg.Fragments()
	if len(frags) > FragmentsPerParticipantPerEpoch {
		return fmt.Errorf("qrcomm: package needs %d fragments, slot holds %d", len(frags), FragmentsPerParticipantPerEpoch)
	}
	base := len(e.decodedFragments[participant])
	for i, fr := range frags {
		idx := participant*FragmentsPerParticipantPerEpoch + base + i
		var factors WideFactor
		factors[idx] = galois.One
		e.equations = append(e.equations, Equation{Factors: factors, Fragment: fr})
		e.currentUtilization[idx]++
	}
	e.decodedFragments[participant] = append(e.decodedFragments[participant], frags...)
	e.metaAPFragments[participant] = append(e.metaAPFragments[participant], apRange{lo: base, hi: base + len(frags)})
	e.eliminationFlag = true
	return nil
}

// PushFrame ingests a received Frame's coded equation into this
// epoch's linear system, then re-runs elimination over the buffered
// equations. Fragments this epoch has already decoded are not
// substituted into the new equation: their terms stay in it as
// unknowns, to be solved again from later frames.
func (e *Epoch) PushFrame(fr *Frame) {
	eq := Equation{Factors: *fr.Factors.ToWide(), Fragment: fr.Fragment}
	for i, c := range eq.Factors {
		if c != galois.Zero {
			e.currentUtilization[i]++
		}
	}
	e.equations = append(e.equations, eq)
	e.eliminationFlag = true
	e.runElimination()
}

// runElimination performs Gauss-Jordan elimination over the buffered
// equations and harvests every plain (single-nonzero-factor) result
// into decodedFragments, discarding rows that have become all-zero
// (redundant combinations) or that are fully solved.
func (e *Epoch) runElimination() {
	if !e.eliminationFlag {
		return
	}
	matrixElimination(e.equations)

	kept := e.equations[:0]
	for _, eq := range e.equations {
		idx, ok := eq.isPlain()
		if !ok {
			if eq.Fragment != (Fragment{}) || anyNonZero(&eq.Factors) {
				kept = append(kept, eq)
			}
			continue
		}
		p := idx / FragmentsPerParticipantPerEpoch
		slot := idx % FragmentsPerParticipantPerEpoch
		e.ensureDecodedLen(p, slot+1)
		e.decodedFragments[p][slot] = eq.Fragment
	}
	e.equations = kept
	e.eliminationFlag = false
}

func anyNonZero(w *WideFactor) bool {
	for _, c := range w {
		if c != galois.Zero {
			return true
		}
	}
	return false
}

func (e *Epoch) ensureDecodedLen(p, n int) {
	for len(e.decodedFragments[p]) < n {
		e.decodedFragments[p] = append(e.decodedFragments[p], Fragment{})
	}
}

// PopRecentFrame produces the next Frame to broadcast for this epoch:
// a random linear combination of every equation still unsolved, plus
// a random-weighted contribution from every fragment already decoded,
// so that peers converge even once the undecoded system runs dry.
func (e *Epoch) PopRecentFrame(participant uint8) (*Frame, error) {
	e.runElimination()

	var combined Equation
	for _, eq := range e.equations {
		c, err := randomNonZero()
		if err != nil {
			return nil, err
		}
		combined = combined.Add(eq.Scale(c))
	}
	for p := 0; p < MaxParticipants; p++ {
		for slot, fr := range e.decodedFragments[p] {
			c, err := randomNonZero()
			if err != nil {
				return nil, err
			}
			idx := p*FragmentsPerParticipantPerEpoch + slot
			var factors WideFactor
			factors[idx] = c
			scaled := fr
			scaled.ScalarMul(c)
			combined = combined.Add(Equation{Factors: factors, Fragment: scaled})
		}
	}

	ff, err := FrameFactorFromWide(&combined.Factors)
	if err != nil {
		return nil, err
	}
	frame := &Frame{
		Header:   FrameHeader{Participant: participant, Epoch: e.Number},
		Factors:  *ff,
		Fragment: combined.Fragment,
	}
	e.lastFrame = frame
	return frame, nil
}

// randomNonZero draws a uniformly random nonzero GF(2^4) element,
// used as a coding coefficient so a frame never silently drops a term.
func randomNonZero() (galois.Elem, error) {
	var b [1]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return 0, err
		}
		c := galois.Elem(b[0] & 0xF)
		if c != galois.Zero {
			return c, nil
		}
	}
}

// GetPackage reassembles the index'th Package a participant has ever
// written into this epoch. If metaAPFragments[participant][index] is
// already known (because this side wrote it, or a prior call scanned
// far enough to discover it), it reassembles directly from that
// range. Otherwise it walks decoded_fragments[participant] forward
// from the end of the last known range, reading each candidate
// package's 4-byte length prefix to learn how many fragments it
// spans, caching every range it discovers along the way into
// metaAPFragments so later calls (for this or a lower index) are
// direct. The walk stops and reports false as soon as it would need a
// fragment that has not been decoded yet.
func (e *Epoch) GetPackage(participant, index int) ([]byte, bool) {
	if participant < 0 || participant >= MaxParticipants || index < 0 {
		return nil, false
	}
	frags := e.decodedFragments[participant]

	if index < len(e.metaAPFragments[participant]) {
		r := e.metaAPFragments[participant][index]
		if r.hi > len(frags) {
			return nil, false
		}
		payload, err := ReassemblePackage(frags[r.lo:r.hi])
		if err != nil {
			return nil, false
		}
		return payload, true
	}

	cursor := 0
	if n := len(e.metaAPFragments[participant]); n > 0 {
		cursor = e.metaAPFragments[participant][n-1].hi
	}
	for len(e.metaAPFragments[participant]) <= index {
		hi, ok := packageSpan(frags, cursor)
		if !ok {
			return nil, false
		}
		e.metaAPFragments[participant] = append(e.metaAPFragments[participant], apRange{lo: cursor, hi: hi})
		cursor = hi
	}

	r := e.metaAPFragments[participant][index]
	payload, err := ReassemblePackage(frags[r.lo:r.hi])
	if err != nil {
		return nil, false
	}
	return payload, true
}

// packageSpan reads the 4-byte length prefix out of the fragment at
// start and returns the half-open range of fragments the package
// starting there occupies, or false if start is not yet decoded or
// the package runs past the fragments decoded so far.
func packageSpan(frags []Fragment, start int) (int, bool) {
	if start < 0 || start >= len(frags) {
		return 0, false
	}
	n := int(getU32LE(frags[start][:4]))
	total := APLengthIndexSizeBytes + n
	numFrags := (total + FragmentSizeBytes - 1) / FragmentSizeBytes
	hi := start + numFrags
	if hi > len(frags) {
		return 0, false
	}
	return hi, true
}

// Utilization returns how many times a given absolute fragment
// position has contributed a nonzero term across every equation ever
// ingested, a coarse signal of which coded slots peers should keep
// refreshing.
func (e *Epoch) Utilization(idx int) int {
	return e.currentUtilization[idx]
}
