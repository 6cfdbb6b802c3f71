package qrcomm

import "github.com/mentalcardgames/mcg-sub000/internal/galois"

// Equation represents the linear relation sum(factors[i] * F_i) ==
// fragment.
type Equation struct {
	Factors  WideFactor
	Fragment Fragment
}

// Add returns a+b: (a.Factors XOR b.Factors, a.Fragment XOR b.Fragment).
// Subtraction is the same operation (characteristic 2).
func (a Equation) Add(b Equation) Equation {
	out := a
	out.Factors.XOR(&b.Factors)
	out.Fragment.XOR(b.Fragment)
	return out
}

// Scale multiplies both factors and fragment by s.
func (a Equation) Scale(s galois.Elem) Equation {
	out := a
	out.Factors.ScalarMul(s)
	out.Fragment.ScalarMul(s)
	return out
}

// Unscale divides both factors and fragment by s (s must be nonzero).
func (a Equation) Unscale(s galois.Elem) Equation {
	return a.Scale(galois.Inv(s))
}

// isPlain reports whether the equation's factor vector has exactly one
// nonzero position, and returns that position.
func (a Equation) isPlain() (idx int, ok bool) {
	found := -1
	for i, c := range a.Factors {
		if c != galois.Zero {
			if found != -1 {
				return 0, false
			}
			found = i
		}
	}
	if found == -1 {
		return 0, false
	}
	return found, true
}
