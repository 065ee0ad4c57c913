package mmd2png

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockPage records what the renderer asked of the browser tab.
// Capture returns a real PNG sized clip x scale, as Chrome does.
type mockPage struct {
	box         *BoundingBox
	navigateErr error
	waitErr     error
	measureErr  error
	captureErr  error
	captureData []byte // overrides the generated PNG when set

	scale       float64
	viewport    Viewport
	navigated   string
	docPath     string
	docContent  string
	docExisted  bool
	waitTimeout time.Duration
	captured    *ClipRect
	closed      bool
}

func (m *mockPage) Navigate(rawURL string) error {
	m.navigated = rawURL
	if u, err := url.Parse(rawURL); err == nil {
		m.docPath = filepath.FromSlash(u.Path)
		if data, err := os.ReadFile(m.docPath); err == nil {
			m.docExisted = true
			m.docContent = string(data)
		}
	}
	return m.navigateErr
}

func (m *mockPage) WaitReady(timeout time.Duration) error {
	m.waitTimeout = timeout
	return m.waitErr
}

func (m *mockPage) MeasureGraphic() (*BoundingBox, error) {
	if m.measureErr != nil {
		return nil, m.measureErr
	}
	return m.box, nil
}

func (m *mockPage) Capture(clip ClipRect) ([]byte, error) {
	m.captured = &clip
	if m.captureErr != nil {
		return nil, m.captureErr
	}
	if m.captureData != nil {
		return m.captureData, nil
	}
	w, h := clip.PixelSize(m.scale)
	return encodeBlankPNG(w, h)
}

func (m *mockPage) Close() error {
	m.closed = true
	return nil
}

// mockSession hands out the same page for every render.
type mockSession struct {
	mu       sync.Mutex
	page     *mockPage
	openErr  error
	opened   int
	closed   int
	closeErr error
}

func (m *mockSession) OpenPage(ctx context.Context, viewport Viewport, scale float64) (browserPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened++
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.page.scale = scale
	m.page.viewport = viewport
	m.page.closed = false
	return m.page, nil
}

func (m *mockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return m.closeErr
}

// sessionCounter returns a factory for session, counting launches.
func sessionCounter(session *mockSession, launches *int) sessionFactory {
	return func() (browserSession, error) {
		*launches++
		return session, nil
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func encodeBlankPNG(w, h int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFakeLibrary creates a placeholder mermaid.min.js; the mocks never load it.
func writeFakeLibrary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mermaid.min.js")
	if err := os.WriteFile(path, []byte("window.mermaid = {};"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// testOptions returns options wiring a fake library and a fresh mock session
// per renderer, with no settle delay.
func testOptions(t *testing.T, box *BoundingBox) []Option {
	t.Helper()
	return []Option{
		WithLibraryPath(writeFakeLibrary(t)),
		WithSettleDelay(0),
		withSessionFactory(func() (browserSession, error) {
			return &mockSession{page: &mockPage{box: box}}, nil
		}),
	}
}

// newTestRenderer creates a Renderer backed by session.
func newTestRenderer(t *testing.T, session *mockSession, opts ...Option) *Renderer {
	t.Helper()
	all := []Option{
		WithLibraryPath(writeFakeLibrary(t)),
		WithSettleDelay(0),
		withSessionFactory(func() (browserSession, error) { return session, nil }),
	}
	all = append(all, opts...)

	r, err := NewRenderer(all...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// writeDiagram writes src to dir/name and returns the path.
func writeDiagram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (stat error = %v)", path, err)
	}
}

const flowchart = "graph TD\n  A[Start] --> B{Ok?}\n  B -->|yes| C[Done]\n"
