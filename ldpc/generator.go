package ldpc

import (
	"errors"
	"fmt"
)

// Generator derives the systematic generator matrix G = [I_k | A^T (B^T)^-1]
// for a parity-check matrix H = [A | B] of shape (m, n) with n > m and
// k = n - m. The construction requires the right block B to be invertible
// over GF(2); ErrNonSystematic is returned otherwise. The result satisfies
// G * H^T = 0.
func Generator(h *BitMatrix) (*BitMatrix, error) {
	m, n := h.Rows(), h.Cols()
	if n <= m {
		return nil, fmt.Errorf("parity-check matrix of shape %dx%d has no message bits: %w", m, n, ErrInvalidShape)
	}
	k := n - m
	a, err := h.Columns(0, k)
	if err != nil {
		return nil, err
	}
	b, err := h.Columns(k, n)
	if err != nil {
		return nil, err
	}
	btInv, err := b.Transpose().Inverse()
	if err != nil {
		if errors.Is(err, ErrSingular) {
			return nil, fmt.Errorf("%v: %w", err, ErrNonSystematic)
		}
		return nil, err
	}
	p, err := a.Transpose().Mul(btInv)
	if err != nil {
		return nil, err
	}
	return HorizConcat(Identity(k), p)
}
