package assets

import (
	"fmt"

	"github.com/alnah/go-mmd2png/internal/yamlutil"
)

// DefaultThemeName is the name of the built-in theme used when none is chosen.
const DefaultThemeName = "corporate"

// DocumentTemplateName is the name of the built-in HTML wrapper template.
const DocumentTemplateName = "document"

// Theme holds the Mermaid theme settings loaded from a theme file.
type Theme struct {
	Name       string            `yaml:"name"`       // Mermaid theme: base, default, neutral, forest, dark
	FontFamily string            `yaml:"fontFamily"` // Page and diagram font
	FontSize   string            `yaml:"fontSize"`   // CSS size, e.g. "14px"
	Background string            `yaml:"background"` // Page background color
	Variables  map[string]string `yaml:"variables"`  // Mermaid themeVariables
}

// ParseTheme decodes theme YAML. Unknown keys are rejected.
func ParseTheme(data []byte) (*Theme, error) {
	var theme Theme
	if err := yamlutil.UnmarshalStrict(data, &theme); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThemeParse, err)
	}
	if theme.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrThemeParse)
	}
	return &theme, nil
}
