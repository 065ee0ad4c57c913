package mmd2png

import (
	"context"
	"time"
)

// browserSession abstracts a launched headless browser so the render flow can
// be tested without Chrome.
type browserSession interface {
	OpenPage(ctx context.Context, viewport Viewport, scale float64) (browserPage, error)
	Close() error
}

// browserPage is one tab used for a single render.
type browserPage interface {
	// Navigate loads the document at url.
	Navigate(url string) error

	// WaitReady blocks until the page raises its ready flag.
	// Returns context.DeadlineExceeded when timeout elapses first, and
	// ErrDiagramSyntax when Mermaid reported a render error.
	WaitReady(timeout time.Duration) error

	// MeasureGraphic returns the first svg element's bounding box,
	// or nil when the page has none.
	MeasureGraphic() (*BoundingBox, error)

	// Capture returns a PNG of the clip region.
	Capture(clip ClipRect) ([]byte, error)

	Close() error
}

// sessionFactory launches a browser session.
type sessionFactory func() (browserSession, error)

// Compile-time interface checks
var (
	_ browserSession = (*rodSession)(nil)
	_ browserPage    = (*rodPage)(nil)
)
