package ldpc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomMatrix(rng *rand.Rand, r, c int) *BitMatrix {
	return FromFunc(r, c, func(_, _ int) bool { return rng.Intn(2) == 1 })
}

func TestNewBitMatrixValidation(t *testing.T) {
	_, err := NewBitMatrix(nil)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewBitMatrix([][]bool{{}})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewBitMatrix([][]bool{{true, false}, {true}})
	assert.ErrorIs(t, err, ErrInvalidShape)

	m, err := NewBitMatrix([][]bool{{true, false}, {false, true}})
	require.NoError(t, err)
	assert.True(t, m.Equal(Identity(2)))
}

func TestNewBitMatrixFromInts(t *testing.T) {
	m, err := NewBitMatrixFromInts([][]int{{2, 3}, {-1, 4}})
	require.NoError(t, err)
	want, err := ParseRows("01", "10")
	require.NoError(t, err)
	assert.True(t, m.Equal(want))

	_, err = NewBitMatrixFromInts([][]int{{1}, {1, 0}})
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestNewBitMatrixCopiesInput(t *testing.T) {
	data := [][]bool{{true, false}, {false, false}}
	m, err := NewBitMatrix(data)
	require.NoError(t, err)
	data[0][0] = false
	got, err := m.Get(0, 0)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestIdentityAndZero(t *testing.T) {
	id := Identity(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, err := id.Get(i, j)
			require.NoError(t, err)
			assert.Equal(t, i == j, v)
		}
	}
	assert.True(t, Zero(2, 5).IsZero())
	assert.Equal(t, 0, Zero(2, 5).Sum())
}

func TestGetBounds(t *testing.T) {
	m := Identity(2)
	_, err := m.Get(2, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = m.Get(0, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestTransposeTwiceIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		m := randomMatrix(rng, 1+rng.Intn(8), 1+rng.Intn(8))
		assert.True(t, m.Transpose().Transpose().Equal(m))
	}
}

func TestColumnsOfConcat(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := randomMatrix(rng, 4, 3)
	b := randomMatrix(rng, 4, 5)
	cat, err := HorizConcat(a, b)
	require.NoError(t, err)
	require.Equal(t, 8, cat.Cols())

	left, err := cat.Columns(0, a.Cols())
	require.NoError(t, err)
	right, err := cat.Columns(a.Cols(), cat.Cols())
	require.NoError(t, err)
	assert.True(t, left.Equal(a))
	assert.True(t, right.Equal(b))
}

func TestConcatShapeMismatch(t *testing.T) {
	_, err := HorizConcat(Zero(2, 2), Zero(3, 2))
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = VertConcat(Zero(2, 2), Zero(2, 3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestVertConcat(t *testing.T) {
	a, err := ParseRows("10")
	require.NoError(t, err)
	b, err := ParseRows("01", "11")
	require.NoError(t, err)
	cat, err := VertConcat(a, b)
	require.NoError(t, err)
	want, err := ParseRows("10", "01", "11")
	require.NoError(t, err)
	assert.True(t, cat.Equal(want))
}

func TestPermuteColumnsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	m := randomMatrix(rng, 5, 8)
	perm := rng.Perm(8)
	inverse := make([]int, 8)
	for i, p := range perm {
		inverse[p] = i
	}
	permuted, err := m.PermuteColumns(perm)
	require.NoError(t, err)
	back, err := permuted.PermuteColumns(inverse)
	require.NoError(t, err)
	assert.True(t, back.Equal(m))
}

func TestPermuteColumnsValidation(t *testing.T) {
	m := Zero(2, 3)
	_, err := m.PermuteColumns([]int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidPermutation)
	_, err = m.PermuteColumns([]int{0, 1, 1})
	assert.ErrorIs(t, err, ErrInvalidPermutation)
	_, err = m.PermuteColumns([]int{0, 1, 3})
	assert.ErrorIs(t, err, ErrInvalidPermutation)
}

func TestShiftRight(t *testing.T) {
	m, err := ParseRows("1000")
	require.NoError(t, err)
	want, err := ParseRows("0010")
	require.NoError(t, err)
	assert.True(t, m.ShiftRight(2).Equal(want))
	assert.True(t, m.ShiftRight(4).Equal(m))
	assert.True(t, m.ShiftRight(-1).ShiftRight(1).Equal(m))
}

func TestMulIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	m := randomMatrix(rng, 4, 6)
	left, err := Identity(4).Mul(m)
	require.NoError(t, err)
	right, err := m.Mul(Identity(6))
	require.NoError(t, err)
	assert.True(t, left.Equal(m))
	assert.True(t, right.Equal(m))
}

func TestMulShapeMismatch(t *testing.T) {
	_, err := Zero(2, 3).Mul(Zero(2, 3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAddSelfIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	m := randomMatrix(rng, 3, 7)
	sum, err := m.Add(m)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	_, err = m.Add(Zero(3, 6))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMulVec(t *testing.T) {
	h := demoParityCheck(t)
	x := make(BitVector, h.Cols())
	syn, err := h.MulVec(x)
	require.NoError(t, err)
	assert.True(t, syn.IsZero())

	_, err = h.MulVec(make(BitVector, 3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestStringRendering(t *testing.T) {
	m, err := ParseRows("10", "01")
	require.NoError(t, err)
	assert.Equal(t, "1 0\n0 1", m.String())
}
