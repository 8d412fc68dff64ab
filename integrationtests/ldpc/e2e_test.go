package ldpc_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/observe-l/ldpc-go/ldpc"
)

func smallParityCheck(t *testing.T) *ldpc.BitMatrix {
	t.Helper()
	h, err := ldpc.ParseRows(
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

// The worked small-code example: encode a 6-bit message with the 6x12 code,
// corrupt bit 6, decode back to the transmitted codeword.
func TestSmallCodeSingleError(t *testing.T) {
	h := smallParityCheck(t)
	code, err := ldpc.New(h, 0.1, 20)
	require.NoError(t, err)

	msg, err := ldpc.ParseBits("111001")
	require.NoError(t, err)
	encoded, err := code.Encode(msg)
	require.NoError(t, err)
	require.Len(t, encoded, 12)

	received := encoded.Flip(6)
	decoded, err := code.Decode(received)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(encoded), "decoded %v, want %v", decoded, encoded)

	syndrome, err := h.MulVec(decoded)
	require.NoError(t, err)
	assert.True(t, syndrome.IsZero())
}

// With H = [0 | I] every parity bit is forced to zero and the generator is
// [I | 0]; clean codewords pass through untouched.
func TestIdentityParityStructure(t *testing.T) {
	h, err := ldpc.HorizConcat(ldpc.Zero(3, 3), ldpc.Identity(3))
	require.NoError(t, err)
	g, err := ldpc.Generator(h)
	require.NoError(t, err)
	wantG, err := ldpc.HorizConcat(ldpc.Identity(3), ldpc.Zero(3, 3))
	require.NoError(t, err)
	assert.True(t, g.Equal(wantG))

	code, err := ldpc.New(h, 0.1, 20)
	require.NoError(t, err)
	msg, err := ldpc.ParseBits("101")
	require.NoError(t, err)
	encoded, err := code.Encode(msg)
	require.NoError(t, err)
	want, err := ldpc.ParseBits("101000")
	require.NoError(t, err)
	assert.True(t, encoded.Equal(want))

	iterations := 0
	code.SetObserver(ldpc.ObserverFunc(func(iter int, _ ldpc.BitVector, _ []float64) {
		if iter > iterations {
			iterations = iter
		}
	}))
	decoded, err := code.Decode(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(encoded))
	assert.Equal(t, 0, iterations)
}

// Every message and every single-bit flip position round trips through the
// small code.
func TestSingleErrorRoundTripExhaustive(t *testing.T) {
	h := smallParityCheck(t)
	code, err := ldpc.New(h, 0.1, 20)
	require.NoError(t, err)
	k, n := code.MessageBits(), code.EncodedBits()

	for u := 0; u < 1<<k; u++ {
		msg := make(ldpc.BitVector, k)
		for i := 0; i < k; i++ {
			msg[i] = (u>>i)&1 == 1
		}
		encoded, err := code.Encode(msg)
		require.NoError(t, err)
		for flip := 0; flip < n; flip++ {
			decoded, err := code.Decode(encoded.Flip(flip))
			require.NoError(t, err)
			if !assert.True(t, decoded.Equal(encoded),
				"message %v flip %d: decoded %v, want %v", msg, flip, decoded, encoded) {
				t.FailNow()
			}
		}
	}
}

// All codewords decode to themselves without any message passing.
func TestCleanCodewordsExhaustive(t *testing.T) {
	code, err := ldpc.New(smallParityCheck(t), 0.1, 20)
	require.NoError(t, err)
	k := code.MessageBits()
	for u := 0; u < 1<<k; u++ {
		msg := make(ldpc.BitVector, k)
		for i := 0; i < k; i++ {
			msg[i] = (u>>i)&1 == 1
		}
		encoded, err := code.Encode(msg)
		require.NoError(t, err)
		decoded, err := code.Decode(encoded)
		require.NoError(t, err)
		require.True(t, decoded.Equal(encoded), "message %v", msg)

		// Systematic property: the message is the codeword prefix.
		require.True(t, ldpc.BitVector(encoded[:k]).Equal(msg))
	}
}

// A zero iteration cap returns the initial hard decision unchanged.
func TestIterationCapZero(t *testing.T) {
	code, err := ldpc.New(smallParityCheck(t), 0.1, 0)
	require.NoError(t, err)
	msg, err := ldpc.ParseBits("111001")
	require.NoError(t, err)
	encoded, err := code.Encode(msg)
	require.NoError(t, err)
	received := encoded.Flip(6)
	decoded, err := code.Decode(received)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(received))
}

// Identical inputs produce bit-identical outputs across repeated decodes.
func TestDecodeDeterminism(t *testing.T) {
	code, err := ldpc.New(smallParityCheck(t), 0.1, 20)
	require.NoError(t, err)
	msg, err := ldpc.ParseBits("010110")
	require.NoError(t, err)
	encoded, err := code.Encode(msg)
	require.NoError(t, err)
	received := encoded.Flip(2, 9)

	first, err := code.Decode(received)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := code.Decode(received)
		require.NoError(t, err)
		require.True(t, again.Equal(first), "run %d diverged", i)
	}
}

// Failure modes surface as the tagged error kinds.
func TestErrorPropagation(t *testing.T) {
	h := smallParityCheck(t)

	_, err := ldpc.New(h, 0.6, 20)
	assert.ErrorIs(t, err, ldpc.ErrInvalidChannel)

	badH, err := ldpc.ParseRows("1011", "0111")
	require.NoError(t, err)
	_, err = ldpc.Generator(badH)
	assert.ErrorIs(t, err, ldpc.ErrNonSystematic)

	_, err = ldpc.Zero(2, 3).Mul(ldpc.Zero(2, 3))
	assert.ErrorIs(t, err, ldpc.ErrShapeMismatch)
}

// The generator annihilates the parity check for codes of several shapes.
func TestGeneratorLaw(t *testing.T) {
	cases := []struct {
		name string
		h    func(t *testing.T) *ldpc.BitMatrix
	}{
		{"small", smallParityCheck},
		{"identity", func(t *testing.T) *ldpc.BitMatrix {
			h, err := ldpc.HorizConcat(ldpc.Zero(4, 4), ldpc.Identity(4))
			require.NoError(t, err)
			return h
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := tc.h(t)
			g, err := ldpc.Generator(h)
			require.NoError(t, err)
			prod, err := g.Mul(h.Transpose())
			require.NoError(t, err)
			assert.True(t, prod.IsZero())
		})
	}
}

// Multi-block framing: encode a message longer than one block, corrupt one
// bit per block, recover the original bits.
func TestMultiBlockRoundTrip(t *testing.T) {
	code, err := ldpc.New(smallParityCheck(t), 0.1, 20)
	require.NoError(t, err)

	var msg ldpc.BitVector
	for i := 0; i < 20; i++ {
		msg = append(msg, i%3 == 0)
	}
	coded := code.EncodeAll(msg)
	require.Len(t, coded, 4*code.EncodedBits())

	noisy := coded.Clone()
	for b := 0; b < 4; b++ {
		noisy = noisy.Flip(b*code.EncodedBits() + (b+3)%code.EncodedBits())
	}
	decoded := code.DecodeAll(noisy)
	assert.True(t, code.ExtractData(decoded, len(msg)).Equal(msg))
}

func ExampleCode() {
	h, _ := ldpc.ParseRows(
		"011011101111",
		"110101000010",
		"000011110000",
		"011000100010",
		"111010111010",
		"101000010100",
	)
	code, _ := ldpc.New(h, 0.1, 20)
	msg, _ := ldpc.ParseBits("111001")
	encoded, _ := code.Encode(msg)
	decoded, _ := code.Decode(encoded.Flip(6))
	fmt.Println(decoded.Equal(encoded))
	// Output: true
}
