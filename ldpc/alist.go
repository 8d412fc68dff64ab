package ldpc

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadAList parses a parity-check matrix from MacKay's alist format
// (http://www.inference.org.uk/mackay/codes/alist.html). The first line
// holds "n m" in the format's column-major convention; the weight lines are
// skipped; the n column-support lines that follow list 1-based row indices
// (zero entries are padding and ignored). The redundant row-support lines
// at the end are not consumed. The result is the m x n matrix H.
func ReadAList(r io.Reader) (*BitMatrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	dims, err := readIntLine(sc)
	if err != nil {
		return nil, fmt.Errorf("ldpc: alist dimensions: %w", err)
	}
	if len(dims) < 2 || dims[0] <= 0 || dims[1] <= 0 {
		return nil, fmt.Errorf("ldpc: alist dimension line %v: %w", dims, ErrInvalidShape)
	}
	n, m := dims[0], dims[1]

	// Max weights and the per-column/per-row weight lists carry no extra
	// information; skip them.
	for i := 0; i < 3; i++ {
		if _, err := readIntLine(sc); err != nil {
			return nil, fmt.Errorf("ldpc: alist weight line: %w", err)
		}
	}

	data := make([][]bool, m)
	for i := range data {
		data[i] = make([]bool, n)
	}
	for col := 0; col < n; col++ {
		support, err := readIntLine(sc)
		if err != nil {
			return nil, fmt.Errorf("ldpc: alist column %d: %w", col, err)
		}
		for _, row := range support {
			if row == 0 {
				continue
			}
			if row < 1 || row > m {
				return nil, fmt.Errorf("ldpc: alist column %d references row %d of %d: %w", col, row, m, ErrIndexOutOfRange)
			}
			data[row-1][col] = true
		}
	}
	return &BitMatrix{rows: m, cols: n, data: data}, nil
}

// ReadAListFile reads an alist file from disk.
func ReadAListFile(path string) (*BitMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAList(f)
}

// WriteAList writes the matrix in full alist form, including the redundant
// row-support section.
func WriteAList(w io.Writer, h *BitMatrix) error {
	m, n := h.Rows(), h.Cols()
	bw := bufio.NewWriter(w)

	colSupport := make([][]int, n)
	rowSupport := make([][]int, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if h.at(i, j) {
				colSupport[j] = append(colSupport[j], i+1)
				rowSupport[i] = append(rowSupport[i], j+1)
			}
		}
	}
	maxCol, maxRow := 0, 0
	for _, s := range colSupport {
		maxCol = max(maxCol, len(s))
	}
	for _, s := range rowSupport {
		maxRow = max(maxRow, len(s))
	}

	fmt.Fprintf(bw, "%d %d\n", n, m)
	fmt.Fprintf(bw, "%d %d\n", maxCol, maxRow)
	for j := 0; j < n; j++ {
		if j > 0 {
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "%d", len(colSupport[j]))
	}
	bw.WriteByte('\n')
	for i := 0; i < m; i++ {
		if i > 0 {
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "%d", len(rowSupport[i]))
	}
	bw.WriteByte('\n')
	for _, s := range colSupport {
		writeSupportLine(bw, s, maxCol)
	}
	for _, s := range rowSupport {
		writeSupportLine(bw, s, maxRow)
	}
	return bw.Flush()
}

// WriteAListFile writes an alist file to disk.
func WriteAListFile(path string, h *BitMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteAList(f, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeSupportLine pads a support list with zeros up to width, the format's
// fixed-width variant.
func writeSupportLine(w *bufio.Writer, support []int, width int) {
	for i := 0; i < width; i++ {
		if i > 0 {
			w.WriteByte(' ')
		}
		v := 0
		if i < len(support) {
			v = support[i]
		}
		fmt.Fprintf(w, "%d", v)
	}
	w.WriteByte('\n')
}

func readIntLine(sc *bufio.Scanner) ([]int, error) {
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		out := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

// ReadBitMatrixBinary reads a matrix from the raw packed form written by
// WriteBitMatrixBinary: two little-endian uint32 dimensions followed by the
// rows, each packed LSB-first into (cols+7)/8 bytes.
func ReadBitMatrixBinary(r io.Reader) (*BitMatrix, error) {
	var dims [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, err
	}
	rows, cols := int(dims[0]), int(dims[1])
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("ldpc: packed matrix of shape %dx%d: %w", rows, cols, ErrInvalidShape)
	}
	stride := (cols + 7) / 8
	buf := make([]byte, stride)
	data := make([][]bool, rows)
	for i := 0; i < rows; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		data[i] = UnpackBits(buf, cols)
	}
	return &BitMatrix{rows: rows, cols: cols, data: data}, nil
}

// ReadBitMatrixBinaryFile reads a packed matrix file from disk.
func ReadBitMatrixBinaryFile(path string) (*BitMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBitMatrixBinary(f)
}

// WriteBitMatrixBinary writes the matrix in raw row-packed form preceded by
// its dimensions.
func WriteBitMatrixBinary(w io.Writer, m *BitMatrix) error {
	if err := binary.Write(w, binary.LittleEndian, [2]uint32{uint32(m.rows), uint32(m.cols)}); err != nil {
		return err
	}
	for _, row := range m.data {
		if _, err := w.Write(PackBits(row)); err != nil {
			return err
		}
	}
	return nil
}

// WriteBitMatrixBinaryFile writes a packed matrix file to disk.
func WriteBitMatrixBinaryFile(path string, m *BitMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBitMatrixBinary(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
