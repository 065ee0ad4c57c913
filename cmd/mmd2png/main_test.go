package main

// Notes:
// - runMain: dispatch is tested through testEnv with a fake pool; no browser
//   is launched.
// - poolAdapter: Acquire is exercised with a missing library so NewRenderer
//   fails before Chrome starts.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	mmd2png "github.com/alnah/go-mmd2png"
)

// ---------------------------------------------------------------------------
// TestPoolAdapter
// ---------------------------------------------------------------------------

// wrongTypeRenderer implements DiagramRenderer but is not *mmd2png.Renderer.
type wrongTypeRenderer struct{}

func (wrongTypeRenderer) Render(context.Context, mmd2png.Input) (*mmd2png.Result, error) {
	return nil, nil
}

func (wrongTypeRenderer) RenderFile(context.Context, string, string) (*mmd2png.Result, error) {
	return nil, nil
}

func TestPoolAdapter_Release_WrongType(t *testing.T) {
	t.Parallel()

	pool := newRendererPool(1, nil)
	defer pool.Close()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for wrong renderer type")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "unexpected type") {
			t.Errorf("panic = %v, want message about unexpected type", r)
		}
	}()

	pool.Release(wrongTypeRenderer{})
}

func TestPoolAdapter_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int
		want int
	}{
		{1, 1},
		{3, 3},
		{0, 1},
	}

	for _, tt := range tests {
		pool := newRendererPool(tt.size, nil)
		if got := pool.Size(); got != tt.want {
			t.Errorf("Size() with %d = %d, want %d", tt.size, got, tt.want)
		}
		_ = pool.Close()
	}
}

func TestPoolAdapter_AcquireMissingLibrary(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "mermaid.min.js")
	pool := newRendererPool(1, []mmd2png.Option{mmd2png.WithLibraryPath(missing)})
	defer pool.Close()

	r, err := pool.Acquire()
	if !errors.Is(err, mmd2png.ErrLibraryNotFound) {
		t.Fatalf("Acquire() error = %v, want ErrLibraryNotFound", err)
	}
	if r != nil {
		t.Error("renderer should be nil on error")
	}
}

func TestPoolAdapter_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	pool := newRendererPool(1, nil)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := pool.Acquire(); !errors.Is(err, mmd2png.ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitUsage, "", "Usage: mmd2png <command>"},
		{"version", []string{"version"}, ExitSuccess, "go-mmd2png dev", ""},
		{"version flag", []string{"--version"}, ExitSuccess, "go-mmd2png dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help flag", []string{"-h"}, ExitSuccess, "Commands:", ""},
		{"help render", []string{"help", "render"}, ExitSuccess, "Usage: mmd2png render", ""},
		{"unknown command", []string{"rendr"}, ExitUsage, "", "Unknown command: rendr"},
		{"render without input", []string{"render"}, ExitIO, "", "error: no input specified"},
		{"render help", []string{"render", "--help"}, ExitSuccess, "", ""},
		{"render bad flag", []string{"render", "--nope"}, ExitUsage, "", "error:"},
		{"bare form flag first", []string{"-q"}, ExitIO, "", "no input specified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			code := te.run(tt.args...)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, te.stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(te.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout should contain %q, got: %s", tt.wantStdout, te.stdout.String())
			}
			if tt.wantStderr != "" && !strings.Contains(te.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr should contain %q, got: %s", tt.wantStderr, te.stderr.String())
			}
		})
	}
}

func TestRunMain_BareFormRenders(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "flow.mmd", flowchart)

	if code := te.run(input); code != ExitSuccess {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, te.stderr.String())
	}
	assertExists(t, filepath.Join(dir, "flow.png"))
}

// ---------------------------------------------------------------------------
// TestLooksLikeInput
// ---------------------------------------------------------------------------

func TestLooksLikeInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"flow.mmd", true},
		{"notes.md", true},
		{"diagrams/flow", true},
		{`diagrams\flow`, true},
		{"--theme", true},
		{"-o", true},
		{"rendr", false},
		{"doctr", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			if got := looksLikeInput(tt.arg); got != tt.want {
				t.Errorf("looksLikeInput(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"none", []string{"render", "flow.mmd"}, false},
		{"short", []string{"render", "-v", "flow.mmd"}, true},
		{"long", []string{"flow.mmd", "--verbose"}, true},
		{"after terminator", []string{"render", "--", "-v"}, false},
		{"similar flag", []string{"--version"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := hasVerboseFlag(tt.args); got != tt.want {
				t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
