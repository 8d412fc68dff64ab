package main

import (
	"fmt"
	"io"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/observe-l/ldpc-go/internal/fecwire"
	"github.com/observe-l/ldpc-go/ldpc"
)

// decodeService decodes framed codewords received over TCP and answers with
// the framed estimate. Each connection gets its own decoder instance so the
// iteration observer and concurrent decodes never share scratch state.
type decodeService struct {
	code *ldpc.Code

	blocksTotal *prometheus.CounterVec
	iterations  prometheus.Histogram
}

func newDecodeService(code *ldpc.Code, reg prometheus.Registerer) *decodeService {
	return &decodeService{
		code: code,
		blocksTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ldpc_blocks_total",
			Help: "Decoded blocks by result.",
		}, []string{"result"}),
		iterations: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "ldpc_decode_iterations",
			Help:    "Message-passing iterations per decoded block.",
			Buckets: prometheus.LinearBuckets(0, 1, 21),
		}),
	}
}

func (s *decodeService) handleConn(conn net.Conn) {
	defer conn.Close()

	decoder, err := ldpc.NewWithGenerator(
		s.code.GeneratorMatrix(), s.code.ParityCheck(),
		s.code.BitflipChance(), s.code.MaxIterations())
	if err != nil {
		return
	}
	iterations := 0
	decoder.SetObserver(ldpc.ObserverFunc(func(iter int, _ ldpc.BitVector, _ []float64) {
		iterations = iter
	}))

	n := decoder.EncodedBits()
	hdrBuf := make([]byte, fecwire.HeaderLen)
	for {
		if _, err := io.ReadFull(conn, hdrBuf); err != nil {
			return
		}
		var hdr fecwire.BlockHeader
		if !hdr.UnmarshalBinary(hdrBuf) || hdr.Version != fecwire.Version {
			s.blocksTotal.WithLabelValues("bad_header").Inc()
			return
		}
		if int(hdr.N) != n || hdr.PayloadLen > uint32((n+7)/8) {
			s.blocksTotal.WithLabelValues("bad_shape").Inc()
			return
		}
		payload := make([]byte, hdr.PayloadLen)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}

		received := ldpc.BitVector(ldpc.UnpackBits(payload, n))
		iterations = 0
		estimate, err := decoder.Decode(received)
		if err != nil {
			s.blocksTotal.WithLabelValues("error").Inc()
			return
		}
		s.iterations.Observe(float64(iterations))
		syn, _ := decoder.ParityCheck().MulVec(estimate)
		if syn.IsZero() {
			s.blocksTotal.WithLabelValues("converged").Inc()
		} else {
			s.blocksTotal.WithLabelValues("residual").Inc()
		}

		packed := ldpc.PackBits(estimate)
		resp := fecwire.BlockHeader{
			Version:    fecwire.Version,
			BlockID:    hdr.BlockID,
			N:          uint16(n),
			K:          uint16(decoder.MessageBits()),
			PayloadLen: uint32(len(packed)),
		}
		if _, err := conn.Write(resp.MarshalBinary(nil)); err != nil {
			return
		}
		if _, err := conn.Write(packed); err != nil {
			return
		}
	}
}

func (s *decodeService) info() string {
	return fmt.Sprintf("k=%d n=%d m=%d p=%v T=%d",
		s.code.MessageBits(), s.code.EncodedBits(), s.code.ParityBits(),
		s.code.BitflipChance(), s.code.MaxIterations())
}
