package ldpc

import (
	"fmt"
	"math"
)

// tanhClamp bounds check-node products away from ±1 so the atanh stays
// finite. The resulting message ceiling of about ±28.3 still dominates any
// channel LLR for a crossover probability in (0, 0.5).
const tanhClamp = 1 - 1e-12

// IterationObserver receives the decoder's state after each decision step:
// the index of the iteration just completed (0 for the initial hard
// decision), the current codeword estimate and the posterior LLRs it was
// decided from. Observers must not block and must not mutate the code; the
// slices they receive are theirs to keep.
type IterationObserver interface {
	OnIteration(iteration int, estimate BitVector, posterior []float64)
}

// ObserverFunc adapts a plain function to the IterationObserver interface.
type ObserverFunc func(iteration int, estimate BitVector, posterior []float64)

func (f ObserverFunc) OnIteration(iteration int, estimate BitVector, posterior []float64) {
	f(iteration, estimate, posterior)
}

// Code couples a parity-check matrix with its systematic generator and
// decodes received words with the sum-product algorithm on the code's
// Tanner graph. The matrices and the graph are immutable after
// construction; Decode allocates its own scratch state, so a Code may serve
// concurrent decodes as long as the channel parameters are not changed
// underneath them.
type Code struct {
	g, h *BitMatrix
	tg   *tannerGraph

	bitflipChance float64
	maxIterations int
	observer      IterationObserver
}

// New builds a Code from a parity-check matrix, deriving the systematic
// generator. The bitflip chance is the crossover probability of the binary
// symmetric channel and must lie in (0, 0.5); maxIterations caps the
// message-passing rounds per decode.
func New(h *BitMatrix, bitflipChance float64, maxIterations int) (*Code, error) {
	g, err := Generator(h)
	if err != nil {
		return nil, err
	}
	return NewWithGenerator(g, h, bitflipChance, maxIterations)
}

// NewWithGenerator builds a Code from a pre-computed generator matrix and
// its parity-check matrix. The pair is not cross-checked; callers asserting
// G * H^T = 0 do so themselves.
func NewWithGenerator(g, h *BitMatrix, bitflipChance float64, maxIterations int) (*Code, error) {
	if bitflipChance <= 0 || bitflipChance >= 0.5 {
		return nil, fmt.Errorf("bitflip chance %v: %w", bitflipChance, ErrInvalidChannel)
	}
	if maxIterations < 0 {
		return nil, fmt.Errorf("ldpc: max iterations %d is negative", maxIterations)
	}
	if g.Cols() != h.Cols() {
		return nil, fmt.Errorf("generator has %d columns, parity check has %d: %w", g.Cols(), h.Cols(), ErrShapeMismatch)
	}
	return &Code{
		g:             g,
		h:             h,
		tg:            newTannerGraph(h),
		bitflipChance: bitflipChance,
		maxIterations: maxIterations,
	}, nil
}

// GeneratorMatrix returns the systematic generator G.
func (c *Code) GeneratorMatrix() *BitMatrix { return c.g }

// ParityCheck returns the parity-check matrix H.
func (c *Code) ParityCheck() *BitMatrix { return c.h }

// MessageBits returns k, the number of message bits per block.
func (c *Code) MessageBits() int { return c.g.Rows() }

// EncodedBits returns n, the number of bits per codeword.
func (c *Code) EncodedBits() int { return c.g.Cols() }

// ParityBits returns m, the number of parity checks.
func (c *Code) ParityBits() int { return c.h.Rows() }

// BitflipChance returns the configured crossover probability.
func (c *Code) BitflipChance() float64 { return c.bitflipChance }

// MaxIterations returns the configured iteration cap.
func (c *Code) MaxIterations() int { return c.maxIterations }

// SetBitflipChance replaces the crossover probability. Not synchronized
// with concurrent decodes.
func (c *Code) SetBitflipChance(p float64) error {
	if p <= 0 || p >= 0.5 {
		return fmt.Errorf("bitflip chance %v: %w", p, ErrInvalidChannel)
	}
	c.bitflipChance = p
	return nil
}

// SetMaxIterations replaces the iteration cap. Not synchronized with
// concurrent decodes.
func (c *Code) SetMaxIterations(t int) error {
	if t < 0 {
		return fmt.Errorf("ldpc: max iterations %d is negative", t)
	}
	c.maxIterations = t
	return nil
}

// SetObserver installs an observer called after every decision step of
// subsequent decodes. A nil observer disables observation.
func (c *Code) SetObserver(obs IterationObserver) { c.observer = obs }

// Encode multiplies a k-bit message with the generator, yielding the n-bit
// codeword u*G. Systematic form: the first k bits of the result are the
// message itself.
func (c *Code) Encode(msg BitVector) (BitVector, error) {
	k, n := c.MessageBits(), c.EncodedBits()
	if len(msg) != k {
		return nil, fmt.Errorf("message of length %d, want %d: %w", len(msg), k, ErrShapeMismatch)
	}
	out := make(BitVector, n)
	for i, set := range msg {
		if !set {
			continue
		}
		xorRow(out, c.g.data[i])
	}
	return out, nil
}

// EncodeAll splits a message of arbitrary length into k-bit blocks, zero
// padding the last one, and concatenates the blocks' codewords.
func (c *Code) EncodeAll(msg BitVector) BitVector {
	k, n := c.MessageBits(), c.EncodedBits()
	blocks := (len(msg) + k - 1) / k
	if blocks == 0 {
		blocks = 1
	}
	out := make(BitVector, 0, blocks*n)
	for b := 0; b < blocks; b++ {
		part := make(BitVector, k)
		copy(part, msg[min(b*k, len(msg)):min((b+1)*k, len(msg))])
		cw, _ := c.Encode(part)
		out = append(out, cw...)
	}
	return out
}

// LLR maps a received hard bit to its channel log-likelihood ratio
// log((1-p-y)/(p-y)). Positive favors 0, negative favors 1; for y = 1 both
// numerator and denominator are negative, so the ratio stays positive and
// the log carries the correct sign without any absolute value.
func (c *Code) LLR(bit bool) float64 {
	y := 0.0
	if bit {
		y = 1.0
	}
	return math.Log((1 - c.bitflipChance - y) / (c.bitflipChance - y))
}

// Decode runs sum-product decoding on a received n-bit hard-decision word
// and returns the codeword estimate. Decoding stops as soon as the estimate
// satisfies all parity checks or once the iteration cap is reached; the
// estimate is returned either way, and callers interested in residual
// errors compute the syndrome themselves.
func (c *Code) Decode(received BitVector) (BitVector, error) {
	n := c.EncodedBits()
	if len(received) != n {
		return nil, fmt.Errorf("received word of length %d, want %d: %w", len(received), n, ErrShapeMismatch)
	}
	channel := make([]float64, n)
	for j, bit := range received {
		channel[j] = c.LLR(bit)
	}
	return c.decodeLLR(channel), nil
}

// DecodeLLR is Decode for soft inputs: one channel LLR per code bit.
func (c *Code) DecodeLLR(channel []float64) (BitVector, error) {
	if len(channel) != c.EncodedBits() {
		return nil, fmt.Errorf("LLR vector of length %d, want %d: %w", len(channel), c.EncodedBits(), ErrShapeMismatch)
	}
	in := make([]float64, len(channel))
	copy(in, channel)
	return c.decodeLLR(in), nil
}

// DecodeAll decodes consecutive n-bit blocks of a received stream, zero
// padding a short final block, and concatenates the codeword estimates.
func (c *Code) DecodeAll(received BitVector) BitVector {
	n := c.EncodedBits()
	blocks := (len(received) + n - 1) / n
	if blocks == 0 {
		blocks = 1
	}
	out := make(BitVector, 0, blocks*n)
	for b := 0; b < blocks; b++ {
		part := make(BitVector, n)
		copy(part, received[min(b*n, len(received)):min((b+1)*n, len(received))])
		est, _ := c.Decode(part)
		out = append(out, est...)
	}
	return out
}

// ExtractData strips parity bits and padding from a concatenation of
// codewords, returning the first dataLen message bits.
func (c *Code) ExtractData(coded BitVector, dataLen int) BitVector {
	k, n := c.MessageBits(), c.EncodedBits()
	out := make(BitVector, dataLen)
	for b := 0; b*n < len(coded); b++ {
		for j := 0; j < k; j++ {
			src, dst := b*n+j, b*k+j
			if src >= len(coded) || dst >= dataLen {
				break
			}
			out[dst] = coded[src]
		}
	}
	return out
}

func (c *Code) decodeLLR(channel []float64) BitVector {
	m, n := c.ParityBits(), c.EncodedBits()

	toCheck := make([][]float64, m)
	fromCheck := make([][]float64, m)
	for i := 0; i < m; i++ {
		toCheck[i] = make([]float64, n)
		fromCheck[i] = make([]float64, n)
		for _, j := range c.tg.rowAdj[i] {
			toCheck[i][j] = channel[j]
		}
	}

	estimate := hardDecision(channel)
	syndrome := c.syndrome(estimate)
	c.observe(0, estimate, channel)

	for iter := 0; !syndrome.IsZero() && iter < c.maxIterations; {
		// Check-node update: extrinsic tanh products per edge.
		for i, adj := range c.tg.rowAdj {
			for _, j := range adj {
				prod := 1.0
				for _, k := range adj {
					if k != j {
						prod *= math.Tanh(toCheck[i][k] / 2)
					}
				}
				fromCheck[i][j] = 2 * atanh(clamp(prod))
			}
		}

		// Variable-node update: channel LLR plus extrinsic sums per edge.
		for j, adj := range c.tg.colAdj {
			for _, i := range adj {
				sum := 0.0
				for _, k := range adj {
					if k != i {
						sum += fromCheck[k][j]
					}
				}
				toCheck[i][j] = channel[j] + sum
			}
		}

		// Posterior estimate and decision.
		posterior := make([]float64, n)
		for j, adj := range c.tg.colAdj {
			sum := 0.0
			for _, i := range adj {
				sum += fromCheck[i][j]
			}
			posterior[j] = channel[j] + sum
		}
		estimate = hardDecision(posterior)
		syndrome = c.syndrome(estimate)
		iter++
		c.observe(iter, estimate, posterior)
	}
	return estimate
}

// syndrome computes estimate * H^T via the row adjacency lists.
func (c *Code) syndrome(estimate BitVector) BitVector {
	s := make(BitVector, c.ParityBits())
	for i, adj := range c.tg.rowAdj {
		var b bool
		for _, j := range adj {
			if estimate[j] {
				b = !b
			}
		}
		s[i] = b
	}
	return s
}

func (c *Code) observe(iteration int, estimate BitVector, posterior []float64) {
	if c.observer == nil {
		return
	}
	p := make([]float64, len(posterior))
	copy(p, posterior)
	c.observer.OnIteration(iteration, estimate.Clone(), p)
}

// hardDecision maps LLRs to bits: negative means 1, zero or positive means
// 0. The favor-zero tie break is load-bearing for reference outputs.
func hardDecision(llr []float64) BitVector {
	v := make(BitVector, len(llr))
	for i, l := range llr {
		v[i] = l < 0
	}
	return v
}

func atanh(x float64) float64 {
	return 0.5 * math.Log((1+x)/(1-x))
}

func clamp(x float64) float64 {
	if x > tanhClamp {
		return tanhClamp
	}
	if x < -tanhClamp {
		return -tanhClamp
	}
	return x
}
