package main

import (
	"context"
	"fmt"

	mmd2png "github.com/alnah/go-mmd2png"
)

// DiagramRenderer is the part of mmd2png.Renderer the CLI drives.
type DiagramRenderer interface {
	Render(ctx context.Context, input mmd2png.Input) (*mmd2png.Result, error)
	RenderFile(ctx context.Context, inputPath, outputPath string) (*mmd2png.Result, error)
}

// Compile-time interface implementation check.
var _ DiagramRenderer = (*mmd2png.Renderer)(nil)

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() (DiagramRenderer, error)
	Release(DiagramRenderer)
	Size() int
	Close() error
}

// poolAdapter wraps mmd2png.RendererPool to implement Pool.
type poolAdapter struct {
	pool *mmd2png.RendererPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newRendererPool creates the production pool; renderers launch Chrome lazily.
func newRendererPool(size int, opts []mmd2png.Option) Pool {
	return &poolAdapter{pool: mmd2png.NewRendererPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (DiagramRenderer, error) {
	r, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Release returns a renderer to the pool.
// Panics if r was not acquired from this adapter (programmer error).
func (a *poolAdapter) Release(r DiagramRenderer) {
	renderer, ok := r.(*mmd2png.Renderer)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", r))
	}
	a.pool.Release(renderer)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
