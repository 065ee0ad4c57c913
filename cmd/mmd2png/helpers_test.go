package main

// Notes:
// - This file contains test helpers and fakes used across CLI tests.
// - fakeRenderer never starts a browser: RenderFile reads the input and writes
//   a placeholder PNG, so file contracts are testable without Chrome.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	mmd2png "github.com/alnah/go-mmd2png"
	"github.com/alnah/go-mmd2png/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// fakePNG is written as the image body; tests only check existence.
var fakePNG = []byte("\x89PNG\r\n\x1a\nfake")

// failMarker in a diagram makes fakeRenderer report a syntax error.
const failMarker = "FAIL"

// fakeRenderer returns a fixed result for every diagram.
type fakeRenderer struct {
	mu         sync.Mutex
	result     mmd2png.Result
	err        error
	sources    []string
	fileCalls  int
	inputCalls int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		result: mmd2png.Result{
			Box:         mmd2png.BoundingBox{X: 40, Y: 50, Width: 300.5, Height: 150},
			Clip:        mmd2png.ClipRect{X: 8, Y: 18, Width: 364.5, Height: 214},
			Measurement: mmd2png.MeasurementMeasured,
			Width:       729,
			Height:      428,
			HTML:        []byte("<!DOCTYPE html><html></html>"),
		},
	}
}

func (f *fakeRenderer) Render(ctx context.Context, input mmd2png.Input) (*mmd2png.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputCalls++
	f.sources = append(f.sources, input.Diagram)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(input.Diagram, failMarker) {
		return nil, fmt.Errorf("%w: parse error on line 2", mmd2png.ErrDiagramSyntax)
	}
	res := f.result
	res.PNG = fakePNG
	return &res, nil
}

func (f *fakeRenderer) RenderFile(ctx context.Context, inputPath, outputPath string) (*mmd2png.Result, error) {
	f.mu.Lock()
	f.fileCalls++
	f.mu.Unlock()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mmd2png.ErrReadDiagram, err)
	}
	res, err := f.Render(ctx, mmd2png.Input{Diagram: string(data)})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outputPath, res.PNG, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %w", mmd2png.ErrWritePNG, err)
	}
	return res, nil
}

// fakePool hands out one shared fakeRenderer.
type fakePool struct {
	mu         sync.Mutex
	renderer   *fakeRenderer
	acquireErr error
	size       int
	acquired   int
	released   int
	closed     bool
}

func (p *fakePool) Acquire() (DiagramRenderer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.renderer, nil
}

func (p *fakePool) Release(DiagramRenderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakePool) Size() int {
	return p.size
}

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

// testEnv bundles an Environment with its captured output and pool.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	pool     *fakePool
	vars     map[string]string
	poolSize int
	poolOpts int
	newPools int
}

// newTestEnv returns an environment whose pool is backed by a fakeRenderer.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		pool:   &fakePool{renderer: newFakeRenderer()},
		vars:   map[string]string{},
	}
	te.Environment = &Environment{
		Stdout:  te.stdout,
		Stderr:  te.stderr,
		Getenv:  func(key string) string { return te.vars[key] },
		Environ: func() []string {
			env := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				env = append(env, k+"="+v)
			}
			return env
		},
		NewPool: func(size int, opts []mmd2png.Option) Pool {
			te.newPools++
			te.poolSize = size
			te.poolOpts = len(opts)
			te.pool.size = size
			return te.pool
		},
		Extractor: pipeline.NewGoldmarkExtractor(),
	}
	return te
}

// run invokes runMain with a program name prepended.
func (te *testEnv) run(args ...string) int {
	return runMain(context.Background(), append([]string{"mmd2png"}, args...), te.Environment)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("%s should exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (stat error = %v)", path, err)
	}
}

const flowchart = "graph TD\n  A --> B\n"

const twoDiagramMarkdown = "# Design\n\n```mermaid\ngraph TD\n  A --> B\n```\n\nText.\n\n```mermaid\nsequenceDiagram\n  A->>B: hi\n```\n"
