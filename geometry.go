package mmd2png

import (
	"context"
	"math"
	"time"
)

// Clip grows the box by padding on every side. The origin is clamped at zero
// so the clip never starts outside the document; the size still includes the
// full padding on both sides.
func (b BoundingBox) Clip(padding float64) ClipRect {
	return ClipRect{
		X:      math.Max(0, b.X-padding),
		Y:      math.Max(0, b.Y-padding),
		Width:  b.Width + 2*padding,
		Height: b.Height + 2*padding,
	}
}

// IsEmpty reports whether the box has no area.
func (b BoundingBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// PixelSize returns the image size produced by capturing the clip at scale.
func (c ClipRect) PixelSize(scale float64) (width, height int) {
	return int(math.Round(c.Width * scale)), int(math.Round(c.Height * scale))
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
