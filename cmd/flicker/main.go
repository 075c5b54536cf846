package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"

	"github.com/NavuFrank/The-Quantized-Observer/engine"
	"github.com/NavuFrank/The-Quantized-Observer/internal/cli"
	"github.com/NavuFrank/The-Quantized-Observer/internal/logging"
)

func init() {
	// SDL3 requires the main thread for some operations.
	runtime.LockOSThread()
}

func main() {
	defer binsdl.Load().Unload()
	defer binimg.Load().Unload()
	defer binttf.Load().Unload()

	cmd := cli.RunnerCommand(func(cfg *engine.Config) error {
		return engine.Run(cfg, logging.Logger)
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
