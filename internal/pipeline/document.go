package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Sentinel errors for document generation.
var (
	ErrDocumentRender    = errors.New("document template rendering failed")
	ErrNilDocumentData   = errors.New("document data cannot be nil")
	ErrInvalidLibraryURL = errors.New("library URL must use the file scheme")
)

// Mermaid security levels accepted by mermaid.initialize.
const (
	SecurityLevelLoose  = "loose"
	SecurityLevelStrict = "strict"
)

// FlowchartConfig holds the flowchart layout options passed to Mermaid.
type FlowchartConfig struct {
	UseMaxWidth bool `json:"useMaxWidth"`
	HTMLLabels  bool `json:"htmlLabels"`
}

// MermaidConfig mirrors the object passed to mermaid.initialize.
// startOnLoad is always false: the page calls mermaid.run() itself so it can
// raise the readiness flag once rendering completes.
type MermaidConfig struct {
	StartOnLoad    bool              `json:"startOnLoad"`
	SecurityLevel  string            `json:"securityLevel"`
	Theme          string            `json:"theme"`
	Flowchart      FlowchartConfig   `json:"flowchart"`
	ThemeVariables map[string]string `json:"themeVariables,omitempty"`
}

// DocumentData holds the values substituted into the document template.
type DocumentData struct {
	Diagram    string // raw diagram source, escaped on output
	LibraryURL string // file:// URL of mermaid.min.js
	Background string // page background color
	FontFamily string // page font family
	Config     MermaidConfig
}

// documentView is the template-facing projection of DocumentData.
// LibraryURL is pre-validated, so it is marked trusted for the src attribute.
type documentView struct {
	Diagram    string
	LibraryURL template.URL
	Background string
	FontFamily string
	Config     MermaidConfig
}

// DocumentBuilder defines the contract for wrapping a diagram in an HTML page.
type DocumentBuilder interface {
	BuildDocument(ctx context.Context, data *DocumentData) (string, error)
}

// TemplateDocument renders the HTML wrapper from an html/template.
// The diagram source lands in a text context and is entity-escaped; Mermaid
// decodes entities before parsing, so the diagram it sees is the original text.
type TemplateDocument struct {
	tmpl *template.Template
}

// NewTemplateDocument creates a TemplateDocument from template content.
// Returns error if the template cannot be parsed.
func NewTemplateDocument(tmplContent string) (*TemplateDocument, error) {
	tmpl, err := template.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	return &TemplateDocument{tmpl: tmpl}, nil
}

// BuildDocument renders the complete HTML page for one diagram.
func (d *TemplateDocument) BuildDocument(ctx context.Context, data *DocumentData) (string, error) {
	if data == nil {
		return "", ErrNilDocumentData
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if !strings.HasPrefix(data.LibraryURL, "file://") {
		return "", fmt.Errorf("%w: %q", ErrInvalidLibraryURL, data.LibraryURL)
	}

	view := documentView{
		Diagram:    data.Diagram,
		LibraryURL: template.URL(data.LibraryURL), // #nosec G203 -- scheme checked above
		Background: data.Background,
		FontFamily: data.FontFamily,
		Config:     data.Config,
	}

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}
