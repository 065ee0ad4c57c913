package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	mmd2png "github.com/alnah/go-mmd2png"
	"github.com/alnah/go-mmd2png/internal/assets"
	"github.com/alnah/go-mmd2png/internal/config"
	"github.com/alnah/go-mmd2png/internal/fileutil"
	"github.com/alnah/go-mmd2png/internal/hints"
	"github.com/alnah/go-mmd2png/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrTooManyArgs        = errors.New("too many arguments")
	ErrNoDiagrams         = errors.New("no mermaid diagrams found")
	ErrWriteHTML          = errors.New("failed to write HTML file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// renderJob is one diagram to render. Exactly one of InputPath and Source is set.
type renderJob struct {
	Label      string // input file, or file:line for Markdown diagrams
	InputPath  string
	Source     string
	OutputPath string
}

// renderResult holds the outcome of a single render.
type renderResult struct {
	Label      string
	OutputPath string
	HTMLPath   string
	Result     *mmd2png.Result
	Err        error
	Duration   time.Duration
}

// runRenderCmd parses render flags, runs the render and maps errors to exit codes.
func runRenderCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseRenderFlags(args, env.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprintln(env.Stderr, "Run 'mmd2png help render' for usage.")
		return ExitUsage
	}

	logger := newLogger(env.Stderr, logLevel(flags.common.quiet, flags.common.verbose))
	if err := runRender(ctx, positional, flags, env, logger); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runRender orchestrates the render: config, jobs, pool, report.
func runRender(ctx context.Context, args []string, flags *renderFlags, env *Environment, logger *log.Logger) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	warnUnknownEnvVars(env.Environ(), logger)

	cfg, err := loadConfig(flags.common.config, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, outputPath, err := resolvePaths(args, flags.output, cfg.Output.DefaultDir)
	if err != nil {
		return err
	}

	jobs, err := planJobs(ctx, inputPath, outputPath, env.Extractor)
	if err != nil {
		return err
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}
	// Config cannot express zero padding: there 0 means default
	if flags.capture.padding == 0 {
		opts = append(opts, mmd2png.WithPadding(0))
	}

	size := min(mmd2png.ResolvePoolSize(cfg.Workers), len(jobs))
	logger.Debug("starting render", "diagrams", len(jobs), "workers", size)

	pool := env.NewPool(size, opts)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing browsers", "err", err)
		}
	}()

	p := newProgress(logger)
	results := renderBatch(ctx, pool, jobs, cfg.Output.KeepHTML)
	p.done(fmt.Sprintf("Processed %d diagram(s)", len(jobs)))

	return reportResults(results, flags.common.quiet, env, logger, cfg.Mermaid.LibraryPath)
}

// loadConfig loads the config named by --config or MMD2PNG_CONFIG, then
// applies environment overrides. Without a name, defaults are used.
func loadConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags over config values.
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	if flags.mermaidJS != "" {
		cfg.Mermaid.LibraryPath = flags.mermaidJS
	}
	if flags.timeout != "" {
		cfg.Render.Timeout = flags.timeout
	}
	if flags.settle != "" {
		cfg.Render.Settle = flags.settle
	}
	if flags.theme != "" {
		cfg.Theme.Name = flags.theme
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
	if flags.capture.scale != 0 {
		cfg.Render.Scale = flags.capture.scale
	}
	if flags.capture.padding != paddingSentinel && flags.capture.padding != 0 {
		cfg.Render.Padding = flags.capture.padding
	}
	if flags.capture.width != 0 {
		cfg.Viewport.Width = flags.capture.width
	}
	if flags.capture.height != 0 {
		cfg.Viewport.Height = flags.capture.height
	}
	if flags.capture.strict {
		cfg.Render.Strict = true
	}
	if flags.html {
		cfg.Output.KeepHTML = true
	}
	if flags.workers != 0 {
		cfg.Workers = flags.workers
	}
}

// buildOptions translates config values into renderer options.
// Zero values keep the renderer defaults.
func buildOptions(cfg *config.Config) ([]mmd2png.Option, error) {
	opts := []mmd2png.Option{
		mmd2png.WithLibraryPath(cfg.Mermaid.LibraryPath),
		mmd2png.WithThemeName(cfg.Theme.Name),
		mmd2png.WithAssetPath(cfg.Assets.BasePath),
		mmd2png.WithStrictMeasurement(cfg.Render.Strict),
		mmd2png.WithKeepHTML(cfg.Output.KeepHTML),
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, mmd2png.WithTimeout(timeout))
	}

	if cfg.Render.Settle != "" {
		settle, err := cfg.SettleDuration()
		if err != nil {
			return nil, err
		}
		opts = append(opts, mmd2png.WithSettleDelay(settle))
	}

	if cfg.Render.Scale > 0 {
		opts = append(opts, mmd2png.WithScale(cfg.Render.Scale))
	}
	if cfg.Render.Padding > 0 {
		opts = append(opts, mmd2png.WithPadding(cfg.Render.Padding))
	}

	if cfg.Viewport.Width > 0 || cfg.Viewport.Height > 0 {
		width, height := cfg.Viewport.Width, cfg.Viewport.Height
		if width == 0 {
			width = mmd2png.DefaultViewportWidth
		}
		if height == 0 {
			height = mmd2png.DefaultViewportHeight
		}
		opts = append(opts, mmd2png.WithViewport(width, height))
	}

	if !cfg.Fallback.IsZero() {
		opts = append(opts, mmd2png.WithFallbackBox(mmd2png.BoundingBox{
			X:      cfg.Fallback.X,
			Y:      cfg.Fallback.Y,
			Width:  cfg.Fallback.Width,
			Height: cfg.Fallback.Height,
		}))
	}

	return opts, nil
}

// validateWorkers checks the --workers value.
func validateWorkers(n int) error {
	if n < 0 || n > mmd2png.MaxPoolSize {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, mmd2png.MaxPoolSize)
	}
	return nil
}

// resolvePaths determines the input and the PNG output path.
//
// Examples (no --output):
//   - ["flow.mmd"]             -> "flow.png" next to the input
//   - ["flow.mmd", "out.png"]  -> "out.png"
//   - ["flow.mmd", "out/"]     -> "out/flow.png" when out is a directory
//   - ["docs/a.md"] + defaultDir "build" -> "build/a.png"
func resolvePaths(args []string, flagOutput, defaultDir string) (input, output string, err error) {
	switch {
	case len(args) == 0:
		return "", "", ErrNoInput
	case len(args) > 2:
		return "", "", fmt.Errorf("%w: got %d, want <input> [output]", ErrTooManyArgs, len(args))
	case len(args) == 2 && flagOutput != "":
		return "", "", fmt.Errorf("%w: output given both as argument and --output", ErrTooManyArgs)
	}

	input = args[0]
	output = flagOutput
	if len(args) == 2 {
		output = args[1]
	}

	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".png"
	switch {
	case output == "" && defaultDir != "":
		output = filepath.Join(defaultDir, name)
	case output == "":
		output = filepath.Join(filepath.Dir(input), name)
	case isDir(output):
		output = filepath.Join(output, name)
	}
	return input, output, nil
}

// planJobs turns the input into render jobs. A Markdown file yields one job
// per mermaid fence, written to <output-base>-<n>.png.
func planJobs(ctx context.Context, inputPath, outputPath string, extractor pipeline.DiagramExtractor) ([]renderJob, error) {
	if !isMarkdown(inputPath) {
		// Fail before any browser is launched
		if _, err := os.Stat(inputPath); err != nil {
			return nil, fmt.Errorf("%w: %w", mmd2png.ErrReadDiagram, err)
		}
		return []renderJob{{Label: inputPath, InputPath: inputPath, OutputPath: outputPath}}, nil
	}

	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mmd2png.ErrReadDiagram, err)
	}

	diagrams, err := extractor.ExtractDiagrams(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("extracting diagrams: %w", err)
	}
	if len(diagrams) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDiagrams, inputPath)
	}

	jobs := make([]renderJob, 0, len(diagrams))
	for _, d := range diagrams {
		jobs = append(jobs, renderJob{
			Label:      fmt.Sprintf("%s:%d", inputPath, d.Line),
			Source:     d.Source,
			OutputPath: numberedPath(outputPath, d.Index),
		})
	}
	return jobs, nil
}

// numberedPath inserts -n before the .png extension: "out/doc.png", 2 -> "out/doc-2.png".
func numberedPath(path string, n int) string {
	base := path
	if ext := filepath.Ext(path); strings.EqualFold(ext, ".png") {
		base = strings.TrimSuffix(path, ext)
	}
	return fmt.Sprintf("%s-%d.png", base, n)
}

// isMarkdown reports whether path has a Markdown extension.
func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// isDir reports whether path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// renderBatch processes jobs concurrently using the renderer pool.
func renderBatch(ctx context.Context, pool Pool, jobs []renderJob, keepHTML bool) []renderResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))

	results := make([]renderResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := pool.Acquire()
			if err != nil {
				// Renderer creation failed, mark remaining jobs as failed
				for idx := range queue {
					results[idx] = renderResult{Label: jobs[idx].Label, OutputPath: jobs[idx].OutputPath, Err: err}
				}
				return
			}
			defer pool.Release(r)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = renderResult{Label: jobs[idx].Label, OutputPath: jobs[idx].OutputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderOne(ctx, r, jobs[idx], keepHTML)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// renderOne renders a single job and writes its files.
func renderOne(ctx context.Context, r DiagramRenderer, job renderJob, keepHTML bool) renderResult {
	start := time.Now()
	result := renderResult{Label: job.Label, OutputPath: job.OutputPath}
	finish := func(err error) renderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), dirPermissions); err != nil {
		return finish(fmt.Errorf("%w: creating output directory: %w", mmd2png.ErrWritePNG, err))
	}

	var res *mmd2png.Result
	var err error
	if job.InputPath != "" {
		res, err = r.RenderFile(ctx, job.InputPath, job.OutputPath)
		if err != nil {
			return finish(err)
		}
	} else {
		res, err = r.Render(ctx, mmd2png.Input{Diagram: job.Source})
		if err != nil {
			return finish(err)
		}
		// #nosec G306 -- images are meant to be readable
		if err := os.WriteFile(job.OutputPath, res.PNG, filePermissions); err != nil {
			return finish(fmt.Errorf("%w: %w", mmd2png.ErrWritePNG, err))
		}
	}
	result.Result = res

	if keepHTML && len(res.HTML) > 0 {
		htmlPath := fileutil.ReplaceExt(job.OutputPath, ".html")
		// #nosec G306 -- HTML files are meant to be readable
		if err := os.WriteFile(htmlPath, res.HTML, filePermissions); err != nil {
			return finish(fmt.Errorf("%w: %w", ErrWriteHTML, err))
		}
		result.HTMLPath = htmlPath
	}

	return finish(nil)
}

// reportResults prints confirmations and failures, and returns an error
// when any render failed. A single failure is returned as-is so its exit
// code is preserved.
func reportResults(results []renderResult, quiet bool, env *Environment, logger *log.Logger, libraryPath string) error {
	var failed int
	var firstErr error

	for _, r := range results {
		if r.Err != nil {
			failed++
			err := withHint(r.Err, libraryPath, env.Getenv)
			if firstErr == nil {
				firstErr = err
			}
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Label, err)
			}
			continue
		}

		if r.Result.Measurement == mmd2png.MeasurementFallback {
			logger.Warn("no svg element found, captured the fallback region", "output", r.OutputPath)
		}
		logger.Debug("rendered", "input", r.Label, "output", r.OutputPath, "duration", r.Duration.Round(time.Millisecond))
		if r.HTMLPath != "" {
			logger.Info("kept HTML document", "path", r.HTMLPath)
		}
		if !quiet {
			fmt.Fprintln(env.Stdout, confirmationLine(r.OutputPath, r.Result))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d rendered, %d failed\n", len(results)-failed, failed)
	}

	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return firstErr
	default:
		return fmt.Errorf("%d of %d diagram(s) failed: %w", failed, len(results), firstErr)
	}
}

// confirmationLine formats the success line with CSS and pixel dimensions.
func confirmationLine(output string, res *mmd2png.Result) string {
	return fmt.Sprintf("Rendered: %s  (SVG: %dx%d CSS px, PNG: %dx%d px)",
		output, int(res.Box.Width), int(res.Box.Height), res.Width, res.Height)
}

// withHint appends an actionable hint to known failures.
func withHint(err error, libraryPath string, getenv func(string) string) error {
	var hint string
	switch {
	case errors.Is(err, mmd2png.ErrLibraryNotFound):
		if libraryPath == "" {
			libraryPath = mmd2png.DefaultLibraryPath
		}
		hint = hints.ForLibraryNotFound(libraryPath, mmd2png.DefaultLibraryPath)
	case errors.Is(err, mmd2png.ErrBrowserConnect):
		hint = hints.ForBrowserConnect(getenv)
	case errors.Is(err, mmd2png.ErrRenderTimeout):
		hint = hints.ForTimeout()
	case errors.Is(err, mmd2png.ErrDiagramSyntax):
		hint = hints.ForDiagramSyntax()
	case errors.Is(err, mmd2png.ErrNoGraphic):
		hint = hints.ForNoGraphic()
	case errors.Is(err, assets.ErrThemeNotFound):
		hint = hints.ForThemeNotFound(mmd2png.ThemeNames())
	case errors.Is(err, mmd2png.ErrWritePNG),
		errors.Is(err, mmd2png.ErrWriteDocument),
		errors.Is(err, ErrWriteHTML):
		hint = hints.ForOutputDirectory()
	}

	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}
