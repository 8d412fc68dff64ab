package ldpc

import (
	"fmt"
	"os"

	"github.com/francoispqt/gojay"
)

// CodeDefinition is the on-disk JSON form of a code: the parity-check rows
// as 0/1 strings plus the channel parameters. The generator is re-derived
// on load rather than stored.
type CodeDefinition struct {
	BitflipChance float64
	MaxIterations int
	Rows          bitRows
}

type bitRows []string

func (r bitRows) MarshalJSONArray(enc *gojay.Encoder) {
	for _, s := range r {
		enc.String(s)
	}
}

func (r bitRows) IsNil() bool { return len(r) == 0 }

func (r *bitRows) UnmarshalJSONArray(dec *gojay.Decoder) error {
	var s string
	if err := dec.String(&s); err != nil {
		return err
	}
	*r = append(*r, s)
	return nil
}

func (d *CodeDefinition) MarshalJSONObject(enc *gojay.Encoder) {
	enc.FloatKey("bitflip_chance", d.BitflipChance)
	enc.IntKey("max_iterations", d.MaxIterations)
	enc.ArrayKey("parity_check", d.Rows)
}

func (d *CodeDefinition) IsNil() bool { return d == nil }

func (d *CodeDefinition) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "bitflip_chance":
		return dec.Float(&d.BitflipChance)
	case "max_iterations":
		return dec.Int(&d.MaxIterations)
	case "parity_check":
		return dec.Array(&d.Rows)
	}
	return nil
}

func (d *CodeDefinition) NKeys() int { return 3 }

// Build derives the generator and constructs the Code the definition
// describes.
func (d *CodeDefinition) Build() (*Code, error) {
	h, err := d.ParityCheckMatrix()
	if err != nil {
		return nil, err
	}
	return New(h, d.BitflipChance, d.MaxIterations)
}

// ParityCheckMatrix parses the definition's rows into a BitMatrix.
func (d *CodeDefinition) ParityCheckMatrix() (*BitMatrix, error) {
	return ParseRows(d.Rows...)
}

// DefinitionOf captures a code's parity check and channel parameters in
// serializable form.
func DefinitionOf(c *Code) *CodeDefinition {
	h := c.ParityCheck()
	rows := make(bitRows, h.Rows())
	for i := 0; i < h.Rows(); i++ {
		row := make(BitVector, h.Cols())
		for j := 0; j < h.Cols(); j++ {
			row[j] = h.at(i, j)
		}
		rows[i] = row.String()
	}
	return &CodeDefinition{
		BitflipChance: c.BitflipChance(),
		MaxIterations: c.MaxIterations(),
		Rows:          rows,
	}
}

// MarshalDefinition renders a definition as JSON.
func MarshalDefinition(d *CodeDefinition) ([]byte, error) {
	return gojay.MarshalJSONObject(d)
}

// UnmarshalDefinition parses a JSON definition.
func UnmarshalDefinition(data []byte) (*CodeDefinition, error) {
	d := &CodeDefinition{}
	if err := gojay.UnmarshalJSONObject(data, d); err != nil {
		return nil, err
	}
	if len(d.Rows) == 0 {
		return nil, fmt.Errorf("definition has no parity-check rows: %w", ErrInvalidShape)
	}
	return d, nil
}

// LoadDefinitionFile reads and parses a JSON definition from disk.
func LoadDefinitionFile(path string) (*CodeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalDefinition(data)
}

// SaveDefinitionFile writes a JSON definition to disk.
func SaveDefinitionFile(path string, d *CodeDefinition) error {
	data, err := MarshalDefinition(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
