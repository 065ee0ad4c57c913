package mmd2png

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mmd2png/internal/assets"
	"github.com/alnah/go-mmd2png/internal/fileutil"
	"github.com/alnah/go-mmd2png/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.DocumentBuilder  = (*pipeline.TemplateDocument)(nil)
	_ pipeline.DiagramExtractor = (*pipeline.GoldmarkExtractor)(nil)
)

// outputFilePermissions is applied to written PNG files.
const outputFilePermissions = 0o644

// Renderer turns Mermaid source into PNG images using a headless browser.
// Create with NewRenderer, use Render or RenderFile, and Close when done.
// The browser is launched on first use and reused across renders; renders on
// one Renderer are serialized. Use RendererPool for parallelism.
type Renderer struct {
	cfg        rendererConfig
	builder    pipeline.DocumentBuilder
	libraryURL string
	newSession sessionFactory
	sleep      func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	session browserSession
}

// NewRenderer creates a Renderer with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithLibraryPath, WithThemeName).
// Returns error if an option is out of range, the Mermaid library is missing,
// or the theme cannot be loaded.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg:        defaultConfig(),
		newSession: newRodSession,
		sleep:      sleepContext,
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.cfg.validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(r.cfg.libraryPath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, r.cfg.libraryPath)
	}
	r.libraryURL, err = fileutil.FileURL(r.cfg.libraryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLibraryNotFound, err)
	}

	loader, err := assets.NewAssetResolver(r.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	if err := r.resolveTheme(loader); err != nil {
		return nil, err
	}

	// Create document builder if not injected (e.g., by tests)
	if r.builder == nil {
		tmpl, err := loader.LoadTemplate(assets.DocumentTemplateName)
		if err != nil {
			return nil, fmt.Errorf("loading document template: %w", err)
		}
		r.builder, err = pipeline.NewTemplateDocument(tmpl)
		if err != nil {
			return nil, fmt.Errorf("initializing document builder: %w", err)
		}
	}

	return r, nil
}

// validate checks option values.
func (c *rendererConfig) validate() error {
	if c.timeout <= 0 {
		return fmt.Errorf("%w: %v (must be positive)", ErrInvalidTimeout, c.timeout)
	}
	if c.settle < 0 {
		return fmt.Errorf("%w: settle delay %v (cannot be negative)", ErrInvalidTimeout, c.settle)
	}
	if c.viewport.Width <= 0 || c.viewport.Height <= 0 ||
		c.viewport.Width > MaxViewportSide || c.viewport.Height > MaxViewportSide {
		return fmt.Errorf("%w: %dx%d (each side must be between 1 and %d)",
			ErrInvalidViewport, c.viewport.Width, c.viewport.Height, MaxViewportSide)
	}
	if c.scale <= 0 || c.scale > MaxScale {
		return fmt.Errorf("%w: %.2f (must be greater than 0 and at most %.0f)", ErrInvalidScale, c.scale, MaxScale)
	}
	if c.padding < 0 || c.padding > MaxPadding {
		return fmt.Errorf("%w: %.2f (must be between 0 and %.0f)", ErrInvalidPadding, c.padding, MaxPadding)
	}
	if c.fallback.IsEmpty() || c.fallback.X < 0 || c.fallback.Y < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidFallback, c.fallback)
	}
	return nil
}

// resolveTheme turns WithTheme or WithThemeName into the renderer theme.
// Called during NewRenderer after options are applied.
func (r *Renderer) resolveTheme(loader assets.AssetLoader) error {
	if r.cfg.theme != nil {
		return r.cfg.theme.Validate()
	}

	input := r.cfg.themeInput
	if input == "" {
		input = assets.DefaultThemeName
	}

	var theme *assets.Theme
	if fileutil.IsFilePath(input) {
		data, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: loading theme file %q: %w", ErrInvalidTheme, input, err)
		}
		theme, err = assets.ParseTheme(data)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidTheme, input, err)
		}
	} else {
		var err error
		theme, err = loader.LoadTheme(input)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTheme, err)
		}
	}

	r.cfg.theme = fromAssetTheme(theme)
	return r.cfg.theme.Validate()
}

// Theme returns the theme used when Input.Theme is nil.
func (r *Renderer) Theme() *Theme {
	return r.cfg.theme
}

// documentWriter persists the generated document and returns its path and a
// cleanup function.
type documentWriter func(doc string) (path string, cleanup func(), err error)

// Render renders the diagram and returns the PNG in the result.
// The transient document goes to the OS temp directory.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, input Input) (*Result, error) {
	return r.render(ctx, input, func(doc string) (string, func(), error) {
		path, cleanup, err := fileutil.WriteTempFile(doc, "html")
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrWriteDocument, err)
		}
		return path, cleanup, nil
	})
}

// RenderFile reads the diagram at inputPath and writes the PNG to outputPath.
// The transient document is written next to the output as <name>_tmp.html and
// removed on every exit path. Nothing is written to outputPath on failure.
func (r *Renderer) RenderFile(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	data, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadDiagram, err)
	}

	htmlPath := fileutil.TempHTMLPath(outputPath)
	res, err := r.render(ctx, Input{Diagram: string(data)}, func(doc string) (string, func(), error) {
		cleanup, err := fileutil.WriteFileWithCleanup(htmlPath, doc)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrWriteDocument, err)
		}
		return htmlPath, cleanup, nil
	})
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(outputPath, res.PNG, outputFilePermissions); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWritePNG, err)
	}
	return res, nil
}

// render runs the browser part of the pipeline: document, page, wait,
// measure, capture.
func (r *Renderer) render(ctx context.Context, input Input, write documentWriter) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	start := time.Now()

	if strings.TrimSpace(input.Diagram) == "" {
		return nil, ErrEmptyDiagram
	}
	if err := input.Theme.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	theme := r.cfg.theme
	if input.Theme != nil {
		theme = input.Theme
	}

	doc, err := r.builder.BuildDocument(ctx, r.documentData(input.Diagram, theme))
	if err != nil {
		return nil, fmt.Errorf("building document: %w", err)
	}

	docPath, cleanup, err := write(doc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	docURL, err := fileutil.FileURL(docPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	page, err := r.openPage(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = page.Close() }()

	if err := page.Navigate(docURL); err != nil {
		return nil, err
	}

	if err := page.WaitReady(r.cfg.timeout); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no ready signal after %v", ErrRenderTimeout, r.cfg.timeout)
		}
		return nil, err
	}

	if err := r.sleep(ctx, r.cfg.settle); err != nil {
		return nil, err
	}

	box, measurement, err := r.measure(page)
	if err != nil {
		return nil, err
	}

	clip := box.Clip(r.cfg.padding)
	data, err := page.Capture(clip)
	if err != nil {
		return nil, err
	}

	imgCfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding PNG header: %v", ErrScreenshot, err)
	}

	res := &Result{
		PNG:         data,
		Box:         box,
		Clip:        clip,
		Measurement: measurement,
		Width:       imgCfg.Width,
		Height:      imgCfg.Height,
		Duration:    time.Since(start),
	}
	if r.cfg.keepHTML {
		res.HTML = []byte(doc)
	}
	return res, nil
}

// measure returns the graphic's box, or the fallback box when the page holds
// no svg and strict measurement is off.
func (r *Renderer) measure(page browserPage) (BoundingBox, Measurement, error) {
	box, err := page.MeasureGraphic()
	if err != nil {
		return BoundingBox{}, MeasurementMeasured, err
	}
	if box != nil {
		return *box, MeasurementMeasured, nil
	}
	if r.cfg.strict {
		return BoundingBox{}, MeasurementFallback, ErrNoGraphic
	}
	return r.cfg.fallback, MeasurementFallback, nil
}

// openPage launches the browser if needed and opens a tab.
// A session that fails to open a page is discarded so the next render
// relaunches the browser. Must be called with r.mu held.
func (r *Renderer) openPage(ctx context.Context) (browserPage, error) {
	if r.session == nil {
		session, err := r.newSession()
		if err != nil {
			return nil, err
		}
		r.session = session
	}

	page, err := r.session.OpenPage(ctx, r.cfg.viewport, r.cfg.scale)
	if err != nil {
		_ = r.session.Close()
		r.session = nil
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return page, nil
}

// documentData assembles the template values for one diagram.
func (r *Renderer) documentData(diagram string, theme *Theme) *pipeline.DocumentData {
	return &pipeline.DocumentData{
		Diagram:    diagram,
		LibraryURL: r.libraryURL,
		Background: theme.Background,
		FontFamily: theme.FontFamily,
		Config: pipeline.MermaidConfig{
			StartOnLoad:   false,
			SecurityLevel: pipeline.SecurityLevelLoose,
			Theme:         theme.Name,
			Flowchart: pipeline.FlowchartConfig{
				UseMaxWidth: false,
				HTMLLabels:  true,
			},
			ThemeVariables: theme.themeVariables(),
		},
	}
}

// Close releases resources (headless Chrome browser).
// The Renderer may be used again; the next render relaunches the browser.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil
	}
	err := r.session.Close()
	r.session = nil
	return err
}
