// Package baseline wraps Systematic RaptorQ as an erasure-channel reference
// point for the evaluator. The wrapper is transport-agnostic: callers choose
// K and L and derive N by picking the number of repair symbols.
package baseline

import (
	"errors"

	rqq "github.com/xssnick/raptorq"
)

// Symbol is one encoded symbol with its id: 0 <= ID < K are the systematic
// source symbols, ID >= K are repair symbols.
type Symbol struct {
	ID   int
	Data []byte
}

// EncodeBlock generates N symbols (ids 0..N-1) for a block of up to K*L
// bytes. Data beyond K*L is truncated; shorter data is padded internally by
// the library.
func EncodeBlock(data []byte, n, k, l int) ([]Symbol, error) {
	if n <= 0 || k <= 0 || l <= 0 || k > n {
		return nil, errors.New("baseline: bad N/K/L")
	}
	if len(data) > k*l {
		data = data[:k*l]
	}
	rq := rqq.NewRaptorQ(uint32(l))
	enc, err := rq.CreateEncoder(data)
	if err != nil {
		return nil, err
	}
	out := make([]Symbol, n)
	for i := 0; i < n; i++ {
		out[i] = Symbol{ID: i, Data: enc.GenSymbol(uint32(i))}
	}
	return out, nil
}

// DecodeBytes reconstructs the original dataSize bytes from any sufficient
// subset of symbols. Returns ok=false if decoding fails.
func DecodeBytes(recv []Symbol, n, l, dataSize int) ([]byte, bool) {
	if l <= 0 || dataSize < 0 {
		return nil, false
	}
	rq := rqq.NewRaptorQ(uint32(l))
	dec, err := rq.CreateDecoder(uint32(dataSize))
	if err != nil {
		return nil, false
	}
	for _, s := range recv {
		if s.ID < 0 || s.ID >= n {
			continue
		}
		if _, err := dec.AddSymbol(uint32(s.ID), s.Data); err != nil {
			// ignore bad symbol; continue adding
			continue
		}
	}
	ok, data, err := dec.Decode()
	if err != nil || !ok {
		return nil, false
	}
	return data, true
}
