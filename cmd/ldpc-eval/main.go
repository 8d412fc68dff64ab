// Command ldpc-eval measures decoder performance over a sweep of BSC
// crossover probabilities: bit and frame error rates after decoding plus
// iteration statistics. It can also run a RaptorQ erasure baseline over a
// packet-loss sweep for comparison.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/observe-l/ldpc-go/internal/baseline"
	"github.com/observe-l/ldpc-go/internal/sim"
	"github.com/observe-l/ldpc-go/ldpc"
)

type trialResult struct {
	bitErrors  int
	frameError bool
	iterations int
	converged  bool
}

type agg struct {
	Trials      int
	FrameErrors int
	BitErrors   int
	TotalBits   int
	Converged   int
	iters       []float64
}

type jsonRecord struct {
	Crossover float64 `json:"crossover"`
	Trials    int     `json:"trials"`
	BER       float64 `json:"ber"`
	FER       float64 `json:"fer"`
	Converged int     `json:"converged"`
	IterMean  float64 `json:"iter_mean"`
	IterStd   float64 `json:"iter_std"`
}

type baselineRecord struct {
	Loss      float64 `json:"loss"`
	Trials    int     `json:"trials"`
	Recovered int     `json:"recovered"`
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func loadParityCheck(path string) (*ldpc.BitMatrix, error) {
	switch {
	case path == "":
		return ldpc.ParseRows(
			"011011101111",
			"110101000010",
			"000011110000",
			"011000100010",
			"111010111010",
			"101000010100",
		)
	case strings.HasSuffix(path, ".json"):
		def, err := ldpc.LoadDefinitionFile(path)
		if err != nil {
			return nil, err
		}
		return def.ParityCheckMatrix()
	case strings.HasSuffix(path, ".bin"):
		return ldpc.ReadBitMatrixBinaryFile(path)
	default:
		return ldpc.ReadAListFile(path)
	}
}

func main() {
	codePath := flag.String("code", "", "parity-check source: .json definition, .bin packed matrix or alist file (default: built-in 6x12 demo code)")
	probs := flag.String("p", "0.02,0.05,0.1", "comma-separated crossover probabilities")
	trials := flag.Int("trials", 1000, "trials per crossover probability")
	maxIter := flag.Int("maxiter", 20, "decoder iteration cap")
	seed := flag.Int64("seed", 1, "base RNG seed")
	workers := flag.Int("workers", 4, "parallel workers")
	jsonOut := flag.String("json", "", "write JSON records to this file")
	runBaseline := flag.Bool("baseline", false, "also run the RaptorQ erasure baseline")
	losses := flag.String("loss", "0.05,0.1,0.2", "comma-separated loss rates for the baseline")
	flag.Parse()

	ps, err := parseFloats(*probs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse -p:", err)
		os.Exit(1)
	}

	h, err := loadParityCheck(*codePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load code:", err)
		os.Exit(1)
	}
	g, err := ldpc.Generator(h)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generator:", err)
		os.Exit(1)
	}
	k, n := g.Rows(), g.Cols()
	fmt.Printf("code: k=%d n=%d m=%d rate=%.3f\n", k, n, h.Rows(), float64(k)/float64(n))

	records := make([]jsonRecord, 0, len(ps))
	for _, p := range ps {
		a, err := sweep(g, h, p, *maxIter, *trials, *workers, *seed)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sweep:", err)
			os.Exit(1)
		}
		rec := jsonRecord{
			Crossover: p,
			Trials:    a.Trials,
			BER:       float64(a.BitErrors) / float64(a.TotalBits),
			FER:       float64(a.FrameErrors) / float64(a.Trials),
			Converged: a.Converged,
			IterMean:  stat.Mean(a.iters, nil),
			IterStd:   stat.StdDev(a.iters, nil),
		}
		records = append(records, rec)
		fmt.Printf("p=%.4f  BER=%.3e  FER=%.3e  converged=%d/%d  iters=%.2f±%.2f\n",
			p, rec.BER, rec.FER, rec.Converged, rec.Trials, rec.IterMean, rec.IterStd)
	}

	var baseRecords []baselineRecord
	if *runBaseline {
		ls, err := parseFloats(*losses)
		if err != nil {
			fmt.Fprintln(os.Stderr, "parse -loss:", err)
			os.Exit(1)
		}
		baseRecords = runErasureBaseline(ls, *trials, *seed)
		for _, r := range baseRecords {
			fmt.Printf("raptorq loss=%.3f recovered=%d/%d\n", r.Loss, r.Recovered, r.Trials)
		}
	}

	if *jsonOut != "" {
		payload := struct {
			LDPC     []jsonRecord     `json:"ldpc"`
			Baseline []baselineRecord `json:"baseline,omitempty"`
		}{records, baseRecords}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "marshal:", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*jsonOut, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "write:", err)
			os.Exit(1)
		}
		fmt.Println("wrote", *jsonOut)
	}
}

func sweep(g, h *ldpc.BitMatrix, p float64, maxIter, trials, workers int, seed int64) (*agg, error) {
	if workers < 1 {
		workers = 1
	}
	var (
		mu  sync.Mutex
		out = &agg{}
	)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		share := trials / workers
		if w < trials%workers {
			share++
		}
		if share == 0 {
			continue
		}
		eg.Go(func() error {
			// Per-worker code instance: the observer that counts
			// iterations is per-decode state.
			code, err := ldpc.NewWithGenerator(g, h, p, maxIter)
			if err != nil {
				return err
			}
			iterations := 0
			code.SetObserver(ldpc.ObserverFunc(func(iter int, _ ldpc.BitVector, _ []float64) {
				iterations = iter
			}))
			rng := mrand.New(mrand.NewSource(seed + int64(w)))
			channel := sim.NewBSC(p, rng)

			k := code.MessageBits()
			results := make([]trialResult, 0, share)
			for t := 0; t < share; t++ {
				msg := make(ldpc.BitVector, k)
				for i := range msg {
					msg[i] = rng.Intn(2) == 1
				}
				encoded, err := code.Encode(msg)
				if err != nil {
					return err
				}
				received := ldpc.BitVector(channel.Transmit(encoded))
				iterations = 0
				decoded, err := code.Decode(received)
				if err != nil {
					return err
				}
				res := trialResult{iterations: iterations}
				for i := range decoded {
					if decoded[i] != encoded[i] {
						res.bitErrors++
					}
				}
				res.frameError = res.bitErrors > 0
				syn, err := h.MulVec(decoded)
				if err != nil {
					return err
				}
				res.converged = syn.IsZero()
				results = append(results, res)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, r := range results {
				out.Trials++
				out.BitErrors += r.bitErrors
				out.TotalBits += code.EncodedBits()
				if r.frameError {
					out.FrameErrors++
				}
				if r.converged {
					out.Converged++
				}
				out.iters = append(out.iters, float64(r.iterations))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	sort.Float64s(out.iters)
	return out, nil
}

func runErasureBaseline(losses []float64, trials int, seed int64) []baselineRecord {
	// Fixed generation params in the usual N=32, K=26, L=1500 shape.
	const (
		N = 32
		K = 26
		L = 1500
	)
	rng := mrand.New(mrand.NewSource(seed))
	out := make([]baselineRecord, 0, len(losses))
	for _, loss := range losses {
		rec := baselineRecord{Loss: loss, Trials: trials}
		eraser := sim.NewEraser(loss, rng)
		for t := 0; t < trials; t++ {
			data := make([]byte, K*L)
			rng.Read(data)
			symbols, err := baseline.EncodeBlock(data, N, K, L)
			if err != nil {
				continue
			}
			recv := symbols[:0:0]
			for _, s := range symbols {
				if !eraser.Drop() {
					recv = append(recv, s)
				}
			}
			if _, ok := baseline.DecodeBytes(recv, N, L, len(data)); ok {
				rec.Recovered++
			}
		}
		out = append(out, rec)
	}
	return out
}
