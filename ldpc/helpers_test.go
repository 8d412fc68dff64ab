package ldpc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// demoParityCheck returns the 6x12 parity-check matrix used throughout the
// behavior tests. Its right 6x6 block is invertible and its generator is
// systematic.
func demoParityCheck(t *testing.T) *BitMatrix {
	t.Helper()
	h, err := ParseRows(
		"011011101111",
		"110101000010",
		"000011110000",
		"011000100010",
		"111010111010",
		"101000010100",
	)
	require.NoError(t, err)
	return h
}

func mustParseBits(t *testing.T, s string) BitVector {
	t.Helper()
	v, err := ParseBits(s)
	require.NoError(t, err)
	return v
}
