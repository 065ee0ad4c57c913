package mmd2png_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/alnah/go-mmd2png"
)

// Example renders a flowchart to PNG. It needs Chrome and a local
// mermaid.min.js, so it is compiled but not run.
func Example() {
	r, err := mmd2png.NewRenderer(mmd2png.WithTimeout(30 * time.Second))
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	res, err := r.RenderFile(context.Background(), "flow.mmd", "flow.png")
	if err != nil {
		log.Fatal(err)
	}
	if res.Measurement == mmd2png.MeasurementFallback {
		log.Print("no svg found, captured the fallback region")
	}
	fmt.Printf("PNG: %dx%d px\n", res.Width, res.Height)
}

// ExampleBoundingBox_Clip shows how the capture region is derived from the
// measured graphic: 32px on every side, origin clamped at zero.
func ExampleBoundingBox_Clip() {
	box := mmd2png.BoundingBox{X: 16, Y: 40, Width: 300, Height: 120}
	clip := box.Clip(mmd2png.DefaultPadding)
	w, h := clip.PixelSize(mmd2png.DefaultScale)

	fmt.Printf("clip: x=%.0f y=%.0f %.0fx%.0f\n", clip.X, clip.Y, clip.Width, clip.Height)
	fmt.Printf("png: %dx%d\n", w, h)
	// Output:
	// clip: x=0 y=8 364x184
	// png: 728x368
}

// ExampleThemeNames lists the built-in themes.
func ExampleThemeNames() {
	for _, name := range mmd2png.ThemeNames() {
		fmt.Println(name)
	}
	// Output:
	// corporate
	// dark
	// default
	// forest
	// neutral
}

// ExampleNewRenderer_missingLibrary shows the error returned before any
// browser is launched when mermaid.min.js cannot be found.
func ExampleNewRenderer_missingLibrary() {
	_, err := mmd2png.NewRenderer(mmd2png.WithLibraryPath("/nonexistent/mermaid.min.js"))
	fmt.Println(errors.Is(err, mmd2png.ErrLibraryNotFound))
	// Output: true
}

// ExampleRendererPool renders several diagrams in parallel, one browser per
// worker. Compiled but not run.
func ExampleRendererPool() {
	diagrams := []string{"graph LR\n  A --> B", "sequenceDiagram\n  A->>B: hi"}

	pool := mmd2png.NewRendererPool(mmd2png.ResolvePoolSize(0), mmd2png.WithThemeName("neutral"))
	defer pool.Close()

	results := make(chan error, len(diagrams))
	for _, src := range diagrams {
		go func() {
			r, err := pool.Acquire()
			if err != nil {
				results <- err
				return
			}
			defer pool.Release(r)

			_, err = r.Render(context.Background(), mmd2png.Input{Diagram: src})
			results <- err
		}()
	}
	for range diagrams {
		if err := <-results; err != nil {
			log.Print(err)
		}
	}
}
