package ldpc

import (
	"fmt"
	"math/rand"
)

// GallagerEnsemble draws a parity-check matrix for k message bits and m
// parity bits from the Gallager ensemble: a band matrix of column weight 1
// stacked with dv-1 random column permutations of itself, for a regular
// code of column weight dv. Requires dv | m and m | dv*(k+m).
//
// Deprecated: the ensemble gives no girth guarantee; short cycles degrade
// sum-product performance. Kept for reproducing historical codes.
func GallagerEnsemble(k, m, dv int, rng *rand.Rand) (*BitMatrix, error) {
	n := k + m
	if dv <= 0 || m%dv != 0 || (dv*n)%m != 0 {
		return nil, fmt.Errorf("ldpc: gallager ensemble with k=%d m=%d dv=%d: %w", k, m, dv, ErrInvalidShape)
	}
	dc := dv * n / m

	band := FromFunc(m/dv, n, func(i, j int) bool {
		return i*dc <= j && j < (i+1)*dc
	})
	parts := make([]*BitMatrix, dv)
	parts[0] = band
	for i := 1; i < dv; i++ {
		p, err := band.PermuteColumns(rng.Perm(n))
		if err != nil {
			return nil, err
		}
		parts[i] = p
	}
	return VertConcat(parts...)
}

// CycleFree builds a quasi-cyclic parity-check matrix of girth at least 8
// (free of 4- and 6-cycles) from a base graph of general size v, expanding
// each edge by a shifted p x p identity block. Shift amounts are drawn
// deterministically per position so the construction is reproducible.
//
// Deprecated: superseded by codes loaded from alist files; the construction
// is kept for reproducing historical codes.
func CycleFree(v, p int) (*BitMatrix, error) {
	if v <= 0 || p <= 0 {
		return nil, fmt.Errorf("ldpc: cycle-free construction with v=%d p=%d: %w", v, p, ErrInvalidShape)
	}

	dParts := make([]*BitMatrix, v*v)
	dParts[0] = FromFunc(v, v*v, func(_, j int) bool { return j == 0 })
	for i := 1; i < v*v; i++ {
		dParts[i] = dParts[0].ShiftRight(i)
	}
	d, err := VertConcat(dParts...)
	if err != nil {
		return nil, err
	}

	eBase := make([]*BitMatrix, v)
	for i := range eBase {
		eBase[i] = FromFunc(v, v*v, func(r, c int) bool { return r == c })
	}
	eParts := make([]*BitMatrix, v)
	eParts[0], err = VertConcat(eBase...)
	if err != nil {
		return nil, err
	}
	for i := 1; i < v; i++ {
		eParts[i] = eParts[0].ShiftRight(i * v)
	}
	e, err := VertConcat(eParts...)
	if err != nil {
		return nil, err
	}

	fBase := make([]*BitMatrix, v)
	fBase[0] = FromFunc(v, v*v, func(r, c int) bool { return r*v == c })
	for i := 1; i < v; i++ {
		fBase[i] = fBase[0].ShiftRight(i)
	}
	fBlock, err := VertConcat(fBase...)
	if err != nil {
		return nil, err
	}
	fParts := make([]*BitMatrix, v)
	for i := range fParts {
		fParts[i] = fBlock
	}
	f, err := VertConcat(fParts...)
	if err != nil {
		return nil, err
	}

	base, err := HorizConcat(d, e, f)
	if err != nil {
		return nil, err
	}
	h2 := base.Transpose()

	shifted := make([]*BitMatrix, p)
	for i := 0; i < p; i++ {
		shifted[i] = Identity(p).ShiftRight(i)
	}
	zero := Zero(p, p)
	m, n := h2.Rows(), h2.Cols()
	return FromBlockFunc(m, n, p, p, func(i, j int) *BitMatrix {
		if !h2.at(i, j) {
			return zero
		}
		shift := rand.New(rand.NewSource(int64(i)*int64(n) + int64(j))).Intn(p)
		return shifted[shift]
	}), nil
}
