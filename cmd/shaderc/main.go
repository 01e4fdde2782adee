// Command shaderc builds the shader blobs loaded by cubes.
//
//	shaderc -src shaders/src -out shaders
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cubes/internal/logger"
	"cubes/internal/shader"
)

func main() {
	src := flag.String("src", "shaders/src", "directory holding *.wgsl sources")
	out := flag.String("out", "shaders", "output root; blobs go to <out>/<segment>/<name>.bin")
	verbose := flag.Bool("v", false, "log every blob written")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := logger.NewSlog(logger.New(""), level, os.Stderr)

	n, err := shader.Build(os.DirFS(*src), *out, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "shaderc:", err)
		os.Exit(1)
	}
	log.Info("shaders built", "sources", n, "segments", len(shader.Segments()), "out", *out)
}
