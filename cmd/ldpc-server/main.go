// Command ldpc-server serves sum-product decoding of framed codewords over
// TCP, with Prometheus metrics on a sidecar HTTP listener and a gRPC
// control socket.
package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/observe-l/ldpc-go/ldpc"
)

func main() {
	codePath := flag.String("code", "", "JSON code definition (required)")
	addr := flag.String("addr", ":7462", "decode listener address")
	metricsAddr := flag.String("metrics-addr", ":9462", "Prometheus metrics address")
	grpcAddr := flag.String("grpc-addr", ":50051", "gRPC control address")
	flag.Parse()

	if *codePath == "" {
		fmt.Fprintln(os.Stderr, "usage: ldpc-server -code code.json")
		os.Exit(1)
	}
	def, err := ldpc.LoadDefinitionFile(*codePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load code:", err)
		os.Exit(1)
	}
	code, err := def.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "build code:", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	svc := newDecodeService(code, reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			fmt.Fprintln(os.Stderr, "metrics serve:", err)
		}
	}()

	grpcLn, err := net.Listen("tcp", *grpcAddr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "grpc listen:", err)
		os.Exit(1)
	}
	grpcSrv := grpc.NewServer()
	registerControl(grpcSrv, svc)
	go func() {
		if err := grpcSrv.Serve(grpcLn); err != nil {
			fmt.Fprintln(os.Stderr, "grpc serve:", err)
		}
	}()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "listen:", err)
		os.Exit(1)
	}
	fmt.Printf("ldpc-server %s listening on %s (metrics %s, grpc %s)\n",
		svc.info(), *addr, *metricsAddr, *grpcAddr)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		ln.Close()
		grpcSrv.Stop()
		os.Exit(0)
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go svc.handleConn(conn)
	}
}
