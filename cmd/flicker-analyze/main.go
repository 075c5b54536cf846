package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"

	"github.com/NavuFrank/The-Quantized-Observer/analysis"
	"github.com/NavuFrank/The-Quantized-Observer/engine"
	"github.com/NavuFrank/The-Quantized-Observer/internal/cli"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer binsdl.Load().Unload()
	defer binimg.Load().Unload()

	if err := cli.AnalyzerCommand(engine.ShowImage).Execute(); err != nil {
		// The operator message for these was already logged.
		if !errors.Is(err, analysis.ErrNoResults) && !errors.Is(err, analysis.ErrNoBlindData) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
