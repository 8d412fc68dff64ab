package ldpc

import "fmt"

// gaussJordan reduces the square matrix a to the identity in place,
// mirroring every row operation (sort swaps, XORs) on b. Pivoting works by
// re-sorting all rows in descending lexicographic order before each column:
// processed rows keep their position because their leading ones are strictly
// to the left of every remaining row's, and among the remaining rows any row
// with a one in the pivot column sorts to the top. If the diagonal entry is
// still zero after sorting, no remaining row can supply a pivot and the
// matrix is singular.
func gaussJordan(a, b [][]bool) error {
	n := len(a)
	for i := 0; i < n; i++ {
		sortRowsDesc(a, b)
		if !a[i][i] {
			return fmt.Errorf("no pivot for column %d: %w", i, ErrSingular)
		}
		for j := i + 1; j < n; j++ {
			// Rows with a one in column i are contiguous below the pivot.
			if !a[j][i] {
				break
			}
			xorRow(a[j], a[i])
			xorRow(b[j], b[i])
		}
	}
	for i := n - 1; i > 0; i-- {
		for j := i - 1; j >= 0; j-- {
			if a[j][i] {
				xorRow(a[j], a[i])
				xorRow(b[j], b[i])
			}
		}
	}
	return nil
}

// IsInvertible reports whether the matrix is square and of full rank over
// GF(2). The receiver is not modified.
func (m *BitMatrix) IsInvertible() bool {
	if m.rows != m.cols {
		return false
	}
	a := cloneRows(m.data)
	b := Identity(m.rows).data
	return gaussJordan(a, b) == nil
}

// Inverse returns the inverse matrix over GF(2).
func (m *BitMatrix) Inverse() (*BitMatrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("inverse of %dx%d matrix: %w", m.rows, m.cols, ErrShapeMismatch)
	}
	a := cloneRows(m.data)
	b := Identity(m.rows).data
	if err := gaussJordan(a, b); err != nil {
		return nil, err
	}
	return &BitMatrix{rows: m.rows, cols: m.cols, data: b}, nil
}
