package qrcomm

import "github.com/mentalcardgames/mcg-sub000/internal/galois"

// matrixElimination runs two-pass Gauss-Jordan elimination over eqs in
// place: a forward pass eliminates below each pivot, a backward pass
// eliminates above it. Running it twice in a row is a no-op.
func matrixElimination(eqs []Equation) {
	pivotCounter := 0
	pivotCols := make([]int, 0, len(eqs))

	// Forward pass.
	for col := 0; col < FragmentsPerEpoch && pivotCounter < len(eqs); col++ {
		pivotRow := -1
		for r := pivotCounter; r < len(eqs); r++ {
			if eqs[r].Factors[col] != galois.Zero {
				pivotRow = r
				break
			}
		}
		if pivotRow == -1 {
			continue
		}
		eqs[pivotRow] = eqs[pivotRow].Unscale(eqs[pivotRow].Factors[col])
		for r := pivotRow + 1; r < len(eqs); r++ {
			if c := eqs[r].Factors[col]; c != galois.Zero {
				eqs[r] = eqs[r].Add(eqs[pivotRow].Scale(c))
			}
		}
		eqs[pivotCounter], eqs[pivotRow] = eqs[pivotRow], eqs[pivotCounter]
		pivotCols = append(pivotCols, col)
		pivotCounter++
	}

	// Backward pass: iterate recorded pivots in reverse.
	for i := len(pivotCols) - 1; i >= 0; i-- {
		col := pivotCols[i]
		for r := 0; r < i; r++ {
			if c := eqs[r].Factors[col]; c != galois.Zero {
				eqs[r] = eqs[r].Add(eqs[i].Scale(c))
			}
		}
	}
}
