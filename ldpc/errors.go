package ldpc

import "errors"

// Error kinds reported by the matrix and decoder operations. Callers match
// them with errors.Is; the returned errors carry call-site context on top.
var (
	ErrInvalidShape       = errors.New("ldpc: invalid matrix shape")
	ErrShapeMismatch      = errors.New("ldpc: shape mismatch")
	ErrIndexOutOfRange    = errors.New("ldpc: index out of range")
	ErrInvalidPermutation = errors.New("ldpc: invalid permutation")
	ErrSingular           = errors.New("ldpc: matrix is singular")
	ErrNonSystematic      = errors.New("ldpc: right block of parity-check matrix is singular")
	ErrInvalidChannel     = errors.New("ldpc: bitflip chance outside (0, 0.5)")
)
