package ldpc

// tannerGraph is the sparse adjacency view of a parity-check matrix:
// rowAdj[i] lists the columns j with H[i][j] = 1 and colAdj[j] lists the
// rows i with H[i][j] = 1. Both lists are in ascending order because the
// matrix is scanned row-major. Built once per code and never mutated.
type tannerGraph struct {
	rowAdj [][]int
	colAdj [][]int
}

func newTannerGraph(h *BitMatrix) *tannerGraph {
	m, n := h.Rows(), h.Cols()
	g := &tannerGraph{
		rowAdj: make([][]int, m),
		colAdj: make([][]int, n),
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if h.at(i, j) {
				g.rowAdj[i] = append(g.rowAdj[i], j)
				g.colAdj[j] = append(g.colAdj[j], i)
			}
		}
	}
	return g
}
