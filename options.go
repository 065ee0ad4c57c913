package mmd2png

import (
	"context"
	"time"
)

// DefaultLibraryPath is where a global npm install of @mermaid-js/mermaid-cli
// places the browser bundle of Mermaid.
const DefaultLibraryPath = "/usr/local/lib/node_modules/@mermaid-js/mermaid-cli/node_modules/mermaid/dist/mermaid.min.js"

// Renderer defaults.
const (
	DefaultTimeout        = 15 * time.Second
	DefaultSettleDelay    = 600 * time.Millisecond
	DefaultViewportWidth  = 3000
	DefaultViewportHeight = 4000
	DefaultScale          = 2.0
	DefaultPadding        = 32.0
)

// Bounds checked by NewRenderer.
const (
	MaxViewportSide = 16384
	MaxScale        = 8.0
	MaxPadding      = 1000.0
)

// DefaultFallbackBox is captured when the page holds no svg element.
var DefaultFallbackBox = BoundingBox{X: 0, Y: 0, Width: 1200, Height: 800}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	libraryPath string
	timeout     time.Duration
	settle      time.Duration
	viewport    Viewport
	scale       float64
	padding     float64
	fallback    BoundingBox
	theme       *Theme
	themeInput  string
	assetPath   string
	strict      bool
	keepHTML    bool
}

// defaultConfig returns the configuration used when no options are given.
func defaultConfig() rendererConfig {
	return rendererConfig{
		libraryPath: DefaultLibraryPath,
		timeout:     DefaultTimeout,
		settle:      DefaultSettleDelay,
		viewport:    Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		scale:       DefaultScale,
		padding:     DefaultPadding,
		fallback:    DefaultFallbackBox,
	}
}

// WithLibraryPath sets the path of mermaid.min.js.
// An empty path keeps DefaultLibraryPath.
func WithLibraryPath(path string) Option {
	return func(r *Renderer) {
		if path != "" {
			r.cfg.libraryPath = path
		}
	}
}

// WithTimeout sets how long to wait for Mermaid to finish rendering.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithSettleDelay sets the pause between readiness and measurement, giving
// fonts and layout time to settle. Zero disables it.
func WithSettleDelay(d time.Duration) Option {
	return func(r *Renderer) {
		r.cfg.settle = d
	}
}

// WithViewport sets the browser viewport in CSS pixels.
func WithViewport(width, height int) Option {
	return func(r *Renderer) {
		r.cfg.viewport = Viewport{Width: width, Height: height}
	}
}

// WithScale sets the device scale factor; the PNG is the clip size times scale.
func WithScale(scale float64) Option {
	return func(r *Renderer) {
		r.cfg.scale = scale
	}
}

// WithPadding sets the margin in CSS pixels added around the graphic.
func WithPadding(padding float64) Option {
	return func(r *Renderer) {
		r.cfg.padding = padding
	}
}

// WithFallbackBox sets the region captured when no svg element is found.
func WithFallbackBox(box BoundingBox) Option {
	return func(r *Renderer) {
		r.cfg.fallback = box
	}
}

// WithTheme sets the theme directly. Takes precedence over WithThemeName.
func WithTheme(theme *Theme) Option {
	return func(r *Renderer) {
		r.cfg.theme = theme
	}
}

// WithThemeName selects a theme by name or by path to a YAML theme file.
// Names are looked up in the asset path first, then in the built-in themes.
func WithThemeName(nameOrPath string) Option {
	return func(r *Renderer) {
		r.cfg.themeInput = nameOrPath
	}
}

// WithAssetPath sets a directory holding themes/ and templates/ overrides.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithStrictMeasurement makes a page without svg fail with ErrNoGraphic
// instead of capturing the fallback box.
func WithStrictMeasurement(strict bool) Option {
	return func(r *Renderer) {
		r.cfg.strict = strict
	}
}

// WithKeepHTML copies the generated document into Result.HTML.
func WithKeepHTML(keep bool) Option {
	return func(r *Renderer) {
		r.cfg.keepHTML = keep
	}
}

// withSessionFactory replaces the browser launcher (tests).
func withSessionFactory(f sessionFactory) Option {
	return func(r *Renderer) {
		r.newSession = f
	}
}

// withSleep replaces the settle sleep (tests).
func withSleep(f func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Renderer) {
		r.sleep = f
	}
}
