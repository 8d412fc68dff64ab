package ldpc

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// FprintMatlabVector writes a bit vector as a MATLAB assignment,
// "name = [0 1 0 ];". An empty name writes the bare bracketless row.
func FprintMatlabVector(w io.Writer, name string, v BitVector) error {
	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "%s = [", name)
	}
	for _, b := range v {
		if b {
			bw.WriteString("1 ")
		} else {
			bw.WriteString("0 ")
		}
	}
	if name != "" {
		bw.WriteByte(']')
	}
	bw.WriteString(";\n")
	return bw.Flush()
}

// FprintMatlabMatrix writes a bit matrix as a MATLAB assignment, one row
// per line terminated by semicolons.
func FprintMatlabMatrix(w io.Writer, name string, m *BitMatrix) error {
	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "%s = [", name)
	}
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if m.at(i, j) {
				bw.WriteString("1 ")
			} else {
				bw.WriteString("0 ")
			}
		}
		if name != "" && i == m.Rows()-1 {
			bw.WriteByte(']')
		}
		bw.WriteString(";\n")
	}
	return bw.Flush()
}

// MatlabPrinter is an IterationObserver that writes each decision step's
// estimate to prefixN.m as a MATLAB vector, N counting up across decodes.
type MatlabPrinter struct {
	prefix string
	next   int
}

// NewMatlabPrinter returns a printer writing files named prefix0.m,
// prefix1.m, ...
func NewMatlabPrinter(prefix string) *MatlabPrinter {
	return &MatlabPrinter{prefix: prefix}
}

func (p *MatlabPrinter) OnIteration(iteration int, estimate BitVector, _ []float64) {
	path := fmt.Sprintf("%s%d.m", p.prefix, p.next)
	p.next++
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = FprintMatlabVector(f, fmt.Sprintf("TEMP%d", iteration), estimate)
}
