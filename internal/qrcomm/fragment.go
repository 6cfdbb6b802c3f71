package qrcomm

import (
	"fmt"

	"github.com/mentalcardgames/mcg-sub000/internal/galois"
)

// Fragment is a fixed-size byte buffer, the unit of network coding. Its
// bytes are interpreted as a sequence of 2*FragmentSizeBytes nibbles,
// each a GF(2^4) element.
type Fragment [FragmentSizeBytes]byte

// XOR adds other into f in place (GF(2^4) addition is XOR).
func (f *Fragment) XOR(other Fragment) {
	for i := range f {
		f[i] ^= other[i]
	}
}

// ScalarMul multiplies every nibble of f by s in place.
func (f *Fragment) ScalarMul(s galois.Elem) {
	for i := range f {
		f[i] = galois.MulByteScalar(f[i], s)
	}
}

// ScalarDiv divides every nibble of f by s (s must be nonzero).
func (f *Fragment) ScalarDiv(s galois.Elem) {
	f.ScalarMul(galois.Inv(s))
}

// Package is an application payload unit: a length-prefixed byte
// buffer, padded up to a whole number of fragments.
type Package struct {
	raw []byte // u32_le(len(B)) || B || zero-padding
}

// NewPackage serializes payload into a Package: a 4-byte little-endian
// length prefix followed by the payload, zero-padded to a whole number
// of FragmentSizeBytes-sized fragments.
func NewPackage(payload []byte) Package {
	total := APLengthIndexSizeBytes + len(payload)
	padded := ((total + FragmentSizeBytes - 1) / FragmentSizeBytes) * FragmentSizeBytes
	raw := make([]byte, padded)
	putU32LE(raw[:4], uint32(len(payload)))
	copy(raw[4:], payload)
	return Package{raw: raw}
}

// Fragments splits the package into an ordered sequence of fragments.
func (p Package) Fragments() []Fragment {
	n := len(p.raw) / FragmentSizeBytes
	out := make([]Fragment, n)
	for i := 0; i < n; i++ {
		copy(out[i][:], p.raw[i*FragmentSizeBytes:(i+1)*FragmentSizeBytes])
	}
	return out
}

// ReassemblePackage reads the 4-byte length prefix from the start of a
// contiguous slice of fragments and returns the first `len` bytes that
// follow it.
func ReassemblePackage(fragments []Fragment) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, fmt.Errorf("qrcomm: no fragments to reassemble")
	}
	buf := make([]byte, 0, len(fragments)*FragmentSizeBytes)
	for _, f := range fragments {
		buf = append(buf, f[:]...)
	}
	if len(buf) < APLengthIndexSizeBytes {
		return nil, fmt.Errorf("qrcomm: fragment buffer too short for length prefix")
	}
	n := int(getU32LE(buf[:4]))
	if APLengthIndexSizeBytes+n > len(buf) {
		return nil, fmt.Errorf("qrcomm: declared length %d exceeds buffer of %d bytes", n, len(buf)-APLengthIndexSizeBytes)
	}
	return buf[4 : 4+n], nil
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
