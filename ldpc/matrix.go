package ldpc

import (
	"fmt"
	"strings"
)

// BitMatrix is a dense matrix over GF(2). Instances are value-like: every
// public operation leaves its receiver and arguments untouched and returns a
// freshly allocated result, so a matrix may be shared freely once built.
type BitMatrix struct {
	rows, cols int
	data       [][]bool
}

// NewBitMatrix builds a matrix from a rectangular bool grid. The input is
// copied.
func NewBitMatrix(data [][]bool) (*BitMatrix, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, fmt.Errorf("empty matrix: %w", ErrInvalidShape)
	}
	cols := len(data[0])
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrInvalidShape)
		}
	}
	return &BitMatrix{rows: len(data), cols: cols, data: cloneRows(data)}, nil
}

// NewBitMatrixFromInts builds a matrix from an integer grid, reducing each
// entry mod 2.
func NewBitMatrixFromInts(data [][]int) (*BitMatrix, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, fmt.Errorf("empty matrix: %w", ErrInvalidShape)
	}
	cols := len(data[0])
	rows := make([][]bool, len(data))
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrInvalidShape)
		}
		rows[i] = make([]bool, cols)
		for j, v := range row {
			if v < 0 {
				v = -v
			}
			rows[i][j] = v%2 == 1
		}
	}
	return &BitMatrix{rows: len(data), cols: cols, data: rows}, nil
}

// ParseRows builds a matrix from rows written as strings of '0' and '1'
// characters, e.g. "011011101111".
func ParseRows(rows ...string) (*BitMatrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty matrix: %w", ErrInvalidShape)
	}
	data := make([][]bool, len(rows))
	for i, s := range rows {
		v, err := ParseBits(s)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		data[i] = v
	}
	return NewBitMatrix(data)
}

// Zero returns the r x c all-zero matrix. r and c must be positive.
func Zero(r, c int) *BitMatrix {
	return FromFunc(r, c, func(_, _ int) bool { return false })
}

// Identity returns the n x n identity matrix. n must be positive.
func Identity(n int) *BitMatrix {
	return FromFunc(n, n, func(i, j int) bool { return i == j })
}

// FromFunc builds an r x c matrix with entry (i, j) = f(i, j). r and c must
// be positive.
func FromFunc(r, c int, f func(i, j int) bool) *BitMatrix {
	if r <= 0 || c <= 0 {
		panic(fmt.Sprintf("ldpc: FromFunc called with size %dx%d", r, c))
	}
	data := make([][]bool, r)
	for i := range data {
		data[i] = make([]bool, c)
		for j := range data[i] {
			data[i][j] = f(i, j)
		}
	}
	return &BitMatrix{rows: r, cols: c, data: data}
}

// FromBlockFunc builds an (m*mm) x (n*mn) matrix out of m x n blocks of
// size mm x mn each, where block (i, j) is f(i, j).
func FromBlockFunc(m, n, mm, mn int, f func(i, j int) *BitMatrix) *BitMatrix {
	blocks := make([][]*BitMatrix, m)
	for i := range blocks {
		blocks[i] = make([]*BitMatrix, n)
		for j := range blocks[i] {
			blocks[i][j] = f(i, j)
		}
	}
	return FromFunc(m*mm, n*mn, func(i, j int) bool {
		return blocks[i/mm][j/mn].data[i%mm][j%mn]
	})
}

// Rows returns the number of rows.
func (m *BitMatrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *BitMatrix) Cols() int { return m.cols }

// Get returns the entry at (i, j) with bounds checking.
func (m *BitMatrix) Get(i, j int) (bool, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return false, fmt.Errorf("entry (%d, %d) of %dx%d matrix: %w", i, j, m.rows, m.cols, ErrIndexOutOfRange)
	}
	return m.data[i][j], nil
}

// at is Get without bounds checking, for internal loops over known indices.
func (m *BitMatrix) at(i, j int) bool { return m.data[i][j] }

// Data returns a copy of the underlying bool grid.
func (m *BitMatrix) Data() [][]bool { return cloneRows(m.data) }

// Transpose returns the c x r transpose.
func (m *BitMatrix) Transpose() *BitMatrix {
	return FromFunc(m.cols, m.rows, func(i, j int) bool { return m.data[j][i] })
}

// Columns returns the submatrix of columns [start, end).
func (m *BitMatrix) Columns(start, end int) (*BitMatrix, error) {
	if start < 0 || start > end || end > m.cols {
		return nil, fmt.Errorf("columns [%d, %d) of %dx%d matrix: %w", start, end, m.rows, m.cols, ErrIndexOutOfRange)
	}
	if start == end {
		return nil, fmt.Errorf("empty column range [%d, %d): %w", start, end, ErrInvalidShape)
	}
	data := make([][]bool, m.rows)
	for i := range data {
		data[i] = cloneRow(m.data[i][start:end])
	}
	return &BitMatrix{rows: m.rows, cols: end - start, data: data}, nil
}

// PermuteColumns returns the matrix with column j replaced by column perm[j].
// perm must be a permutation of 0..cols.
func (m *BitMatrix) PermuteColumns(perm []int) (*BitMatrix, error) {
	if len(perm) != m.cols {
		return nil, fmt.Errorf("permutation length %d, want %d: %w", len(perm), m.cols, ErrInvalidPermutation)
	}
	seen := make([]bool, m.cols)
	for _, p := range perm {
		if p < 0 || p >= m.cols || seen[p] {
			return nil, fmt.Errorf("permutation %v is not a bijection on 0..%d: %w", perm, m.cols, ErrInvalidPermutation)
		}
		seen[p] = true
	}
	return FromFunc(m.rows, m.cols, func(i, j int) bool { return m.data[i][perm[j]] }), nil
}

// ShiftRight returns the matrix with its columns rotated right by shift
// positions.
func (m *BitMatrix) ShiftRight(shift int) *BitMatrix {
	return FromFunc(m.rows, m.cols, func(i, j int) bool {
		return m.data[i][((j-shift)%m.cols+m.cols)%m.cols]
	})
}

// HorizConcat concatenates matrices left to right. All must share the same
// row count.
func HorizConcat(ms ...*BitMatrix) (*BitMatrix, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("nothing to concatenate: %w", ErrInvalidShape)
	}
	rows := ms[0].rows
	cols := 0
	for _, m := range ms {
		if m.rows != rows {
			return nil, fmt.Errorf("horizontal concat of %d-row and %d-row matrices: %w", rows, m.rows, ErrShapeMismatch)
		}
		cols += m.cols
	}
	data := make([][]bool, rows)
	for i := range data {
		data[i] = make([]bool, 0, cols)
		for _, m := range ms {
			data[i] = append(data[i], m.data[i]...)
		}
	}
	return &BitMatrix{rows: rows, cols: cols, data: data}, nil
}

// VertConcat concatenates matrices top to bottom. All must share the same
// column count.
func VertConcat(ms ...*BitMatrix) (*BitMatrix, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("nothing to concatenate: %w", ErrInvalidShape)
	}
	cols := ms[0].cols
	rows := 0
	for _, m := range ms {
		if m.cols != cols {
			return nil, fmt.Errorf("vertical concat of %d-column and %d-column matrices: %w", cols, m.cols, ErrShapeMismatch)
		}
		rows += m.rows
	}
	data := make([][]bool, 0, rows)
	for _, m := range ms {
		data = append(data, cloneRows(m.data)...)
	}
	return &BitMatrix{rows: rows, cols: cols, data: data}, nil
}

// Mul returns the matrix product over GF(2).
func (m *BitMatrix) Mul(o *BitMatrix) (*BitMatrix, error) {
	if m.cols != o.rows {
		return nil, fmt.Errorf("product of %dx%d and %dx%d matrices: %w", m.rows, m.cols, o.rows, o.cols, ErrShapeMismatch)
	}
	data := make([][]bool, m.rows)
	for i := range data {
		data[i] = make([]bool, o.cols)
		for k := 0; k < m.cols; k++ {
			if !m.data[i][k] {
				continue
			}
			xorRow(data[i], o.data[k])
		}
	}
	return &BitMatrix{rows: m.rows, cols: o.cols, data: data}, nil
}

// MulVec returns m * x over GF(2), treating x as a column vector.
func (m *BitMatrix) MulVec(x BitVector) (BitVector, error) {
	if len(x) != m.cols {
		return nil, fmt.Errorf("product of %dx%d matrix and %d-vector: %w", m.rows, m.cols, len(x), ErrShapeMismatch)
	}
	y := make(BitVector, m.rows)
	for i := 0; i < m.rows; i++ {
		var b bool
		for j := 0; j < m.cols; j++ {
			if m.data[i][j] && x[j] {
				b = !b
			}
		}
		y[i] = b
	}
	return y, nil
}

// Add returns the entrywise sum (XOR) of two equally shaped matrices.
func (m *BitMatrix) Add(o *BitMatrix) (*BitMatrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, fmt.Errorf("sum of %dx%d and %dx%d matrices: %w", m.rows, m.cols, o.rows, o.cols, ErrShapeMismatch)
	}
	data := cloneRows(m.data)
	for i := range data {
		xorRow(data[i], o.data[i])
	}
	return &BitMatrix{rows: m.rows, cols: m.cols, data: data}, nil
}

// Sum returns the number of nonzero entries.
func (m *BitMatrix) Sum() int {
	total := 0
	for _, row := range m.data {
		for _, b := range row {
			if b {
				total++
			}
		}
	}
	return total
}

// IsZero reports whether every entry is zero.
func (m *BitMatrix) IsZero() bool { return m.Sum() == 0 }

// Equal reports structural equality of dimensions and entries.
func (m *BitMatrix) Equal(o *BitMatrix) bool {
	if o == nil || m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		for j := range m.data[i] {
			if m.data[i][j] != o.data[i][j] {
				return false
			}
		}
	}
	return true
}

// String renders the matrix as rows of space-separated 0/1 digits.
func (m *BitMatrix) String() string {
	var sb strings.Builder
	for i, row := range m.data {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, b := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			if b {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}
