package mmd2png

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-mmd2png/internal/assets"
)

// Mermaid built-in theme names accepted in Theme.Name.
const (
	MermaidThemeBase    = "base"
	MermaidThemeDefault = "default"
	MermaidThemeNeutral = "neutral"
	MermaidThemeForest  = "forest"
	MermaidThemeDark    = "dark"
)

// Input contains render parameters.
type Input struct {
	Diagram string // Mermaid source (required)
	Theme   *Theme // Per-render theme (optional, nil = renderer theme)
}

// BoundingBox is the rendered graphic's extent in CSS pixels.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ClipRect is the page region captured by the screenshot, in CSS pixels.
type ClipRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport is the browser window size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// Measurement records how the capture region was obtained.
type Measurement int

const (
	// MeasurementMeasured means the svg element's bounding box was used.
	MeasurementMeasured Measurement = iota
	// MeasurementFallback means no svg was found and the fallback box was used.
	MeasurementFallback
)

// String returns the measurement name.
func (m Measurement) String() string {
	switch m {
	case MeasurementMeasured:
		return "measured"
	case MeasurementFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Measurement(%d)", int(m))
	}
}

// Result holds the outcome of a successful render.
type Result struct {
	PNG         []byte        // Encoded image
	HTML        []byte        // Generated document, only set with WithKeepHTML
	Box         BoundingBox   // Graphic extent (or the fallback box)
	Clip        ClipRect      // Captured region
	Measurement Measurement   // Measured or fallback
	Width       int           // Image width in pixels, read from the PNG header
	Height      int           // Image height in pixels
	Duration    time.Duration // Wall time of the render
}

// Theme configures Mermaid's look and the page around the diagram.
type Theme struct {
	Name       string            // Mermaid theme: base, default, neutral, forest, dark
	FontFamily string            // Diagram and page font
	FontSize   string            // CSS size, e.g. "14px"
	Background string            // Page background color
	Variables  map[string]string // Mermaid themeVariables
}

// DefaultTheme returns the built-in corporate palette: light blue nodes with
// blue borders on white, Arial 14px.
func DefaultTheme() *Theme {
	t, err := assets.LoadTheme(assets.DefaultThemeName)
	if err != nil {
		// Embedded assets are compiled in; a failure here is a build defect.
		panic("mmd2png: embedded default theme: " + err.Error())
	}
	return fromAssetTheme(t)
}

// ThemeNames returns the built-in theme names in sorted order.
func ThemeNames() []string {
	return assets.ThemeNames()
}

// Validate checks that the theme names a Mermaid theme.
// Returns nil if t is nil (nil means use the renderer default).
func (t *Theme) Validate() error {
	if t == nil {
		return nil
	}
	if !isValidMermaidTheme(t.Name) {
		return fmt.Errorf("%w: unknown mermaid theme %q (must be base, default, neutral, forest, or dark)", ErrInvalidTheme, t.Name)
	}
	return nil
}

// themeVariables merges the page-level fields into Mermaid's themeVariables.
// Explicit variables win over the derived ones.
func (t *Theme) themeVariables() map[string]string {
	vars := make(map[string]string, len(t.Variables)+3)
	if t.Background != "" {
		vars["background"] = t.Background
	}
	if t.FontSize != "" {
		vars["fontSize"] = t.FontSize
	}
	if t.FontFamily != "" {
		vars["fontFamily"] = t.FontFamily
	}
	maps.Copy(vars, t.Variables)
	return vars
}

// isValidMermaidTheme checks if name is a Mermaid built-in theme (case-sensitive,
// as Mermaid itself is).
func isValidMermaidTheme(name string) bool {
	switch name {
	case MermaidThemeBase, MermaidThemeDefault, MermaidThemeNeutral, MermaidThemeForest, MermaidThemeDark:
		return true
	}
	return false
}

// fromAssetTheme converts a loaded theme file to the public Theme type.
func fromAssetTheme(t *assets.Theme) *Theme {
	return &Theme{
		Name:       t.Name,
		FontFamily: t.FontFamily,
		FontSize:   t.FontSize,
		Background: t.Background,
		Variables:  maps.Clone(t.Variables),
	}
}

// String summarizes the theme for logs.
func (t *Theme) String() string {
	if t == nil {
		return "<nil>"
	}
	keys := slices.Sorted(maps.Keys(t.Variables))
	return fmt.Sprintf("%s (%s %s, background %s, variables: %s)",
		t.Name, t.FontFamily, t.FontSize, t.Background, strings.Join(keys, ","))
}
