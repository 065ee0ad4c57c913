// Package mmd2png renders Mermaid diagrams to PNG images using headless Chrome.
//
// # Quick Start
//
// Create a renderer, render a diagram file, and close when done:
//
//	r, err := mmd2png.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	result, err := r.RenderFile(ctx, "flow.mmd", "flow.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%dx%d px\n", result.Width, result.Height)
//
// Render works on in-memory source and returns the PNG in result.PNG.
//
// # Render Pipeline
//
//  1. The diagram is wrapped in an HTML document that loads mermaid.min.js
//     from disk and calls mermaid.run().
//  2. The document is written next to the output as <name>_tmp.html.
//  3. Chrome opens it in a 3000x4000 viewport at device scale 2 and waits
//     for the page's ready flag (or a Mermaid error).
//  4. After a short settle delay, the first svg element is measured.
//  5. The bounding box grown by 32px is captured; the PNG is clip size x 2.
//  6. The temporary document is removed, whatever the outcome.
//
// When the page holds no svg, a fixed 1200x800 region is captured and
// Result.Measurement is MeasurementFallback. WithStrictMeasurement turns this
// into ErrNoGraphic.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := mmd2png.NewRenderer(
//	    mmd2png.WithLibraryPath("/opt/mermaid/mermaid.min.js"),
//	    mmd2png.WithTimeout(30 * time.Second),
//	    mmd2png.WithThemeName("dark"),
//	    mmd2png.WithPadding(16),
//	)
//
// # Parallel Processing
//
// For batch rendering, use RendererPool to manage multiple browser instances:
//
//	pool := mmd2png.NewRendererPool(4, mmd2png.WithThemeName("forest"))
//	defer pool.Close()
//
//	r, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//	result, err := r.Render(ctx, mmd2png.Input{Diagram: src})
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library downloads a managed
// Chromium on first run (~/.cache/rod/browser/) when none is found.
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mmd2png
