package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// paddingSentinel detects if --padding was explicitly set.
// Since 0 is a valid padding, we use an out-of-range sentinel.
const paddingSentinel = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// captureFlags holds viewport and screenshot flags.
type captureFlags struct {
	scale   float64
	padding float64
	width   int
	height  int
	strict  bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	output    string
	workers   int
	timeout   string
	settle    string
	mermaidJS string
	theme     string
	assetPath string
	capture   captureFlags
	html      bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addCaptureFlags adds viewport and screenshot flags to a FlagSet.
func addCaptureFlags(fs *flag.FlagSet, f *captureFlags) {
	fs.Float64Var(&f.scale, "scale", 0, "device scale factor (default 2)")
	fs.Float64Var(&f.padding, "padding", paddingSentinel, "CSS px around the diagram (default 32)")
	fs.IntVar(&f.width, "width", 0, "viewport width in CSS px (default 3000)")
	fs.IntVar(&f.height, "height", 0, "viewport height in CSS px (default 4000)")
	fs.BoolVar(&f.strict, "strict", false, "fail when no svg is found instead of capturing the fallback region")
}

// parseRenderFlags parses render command flags and returns positional args.
// Usage is written to usageOut on -h.
func parseRenderFlags(args []string, usageOut io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &renderFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output PNG file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers for Markdown input (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 15s, 1m)")
	fs.StringVar(&f.settle, "settle", "", "delay after the ready signal (e.g., 600ms)")
	fs.StringVar(&f.mermaidJS, "mermaid-js", "", "path to mermaid.min.js")
	fs.StringVar(&f.theme, "theme", "", "theme name or YAML file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.html, "html", false, "keep the generated HTML next to the PNG")

	addCommonFlags(fs, &f.common)
	addCaptureFlags(fs, &f.capture)

	fs.Usage = func() { printRenderUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
