// Command ldpc-demo encodes a short message with a small 6x12 code, flips
// one bit, and shows the sum-product decoder recovering the codeword.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/observe-l/ldpc-go/ldpc"
)

func main() {
	p := flag.Float64("p", 0.1, "channel crossover probability")
	iters := flag.Int("iters", 20, "iteration cap")
	flipBit := flag.Int("flip", 6, "codeword bit to corrupt")
	flag.Parse()

	h, err := ldpc.ParseRows(
		"011011101111",
		"110101000010",
		"000011110000",
		"011000100010",
		"111010111010",
		"101000010100",
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parity check:", err)
		os.Exit(1)
	}

	code, err := ldpc.New(h, *p, *iters)
	if err != nil {
		fmt.Fprintln(os.Stderr, "code:", err)
		os.Exit(1)
	}

	msg, _ := ldpc.ParseBits("111001")
	encoded, err := code.Encode(msg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "encode:", err)
		os.Exit(1)
	}
	received := encoded.Flip(*flipBit)
	decoded, err := code.Decode(received)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decode:", err)
		os.Exit(1)
	}

	fmt.Println("Generator Matrix:")
	fmt.Println(code.GeneratorMatrix())
	fmt.Println()
	fmt.Println("Parity Check Matrix:")
	fmt.Println(code.ParityCheck())
	fmt.Println()
	fmt.Println("Test message:        ", msg)
	fmt.Println("Test message encoded:", encoded)
	fmt.Println("Received message:    ", received)
	fmt.Println("Decoded message:     ", decoded)
	if decoded.Equal(encoded) {
		fmt.Println("Recovered the transmitted codeword.")
	} else {
		fmt.Println("Decoding did not converge to the transmitted codeword.")
	}
}
