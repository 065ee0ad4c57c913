package main

import (
	"io"
	"os"

	mmd2png "github.com/alnah/go-mmd2png"
	"github.com/alnah/go-mmd2png/internal/pipeline"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, environment lookup, renderer pool creation and diagram extraction.
type Environment struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Getenv    func(string) string
	Environ   func() []string
	NewPool   func(size int, opts []mmd2png.Option) Pool
	Extractor pipeline.DiagramExtractor
}

// DefaultEnv returns the production environment backed by real browsers.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Getenv:    os.Getenv,
		Environ:   os.Environ,
		NewPool:   newRendererPool,
		Extractor: pipeline.NewGoldmarkExtractor(),
	}
}
