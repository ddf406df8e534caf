// Package main provides the adgraph CLI: evaluate, differentiate and train
// scalar expression graphs described by HCL model files.
package main

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

func main() {
	err := newRootCmd().Execute()
	klog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "adgraph: %v\n", err)
		os.Exit(1)
	}
}
