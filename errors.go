package mmd2png

import "errors"

// Sentinel errors for library operations.
var (
	ErrReadDiagram    = errors.New("failed to read diagram")
	ErrEmptyDiagram   = errors.New("diagram source cannot be empty")
	ErrWriteDocument  = errors.New("failed to write render document")
	ErrWritePNG       = errors.New("failed to write PNG")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("screenshot capture failed")

	// Render outcome errors.
	ErrRenderTimeout = errors.New("diagram did not finish rendering in time")
	ErrDiagramSyntax = errors.New("mermaid rejected the diagram")
	ErrNoGraphic     = errors.New("no svg element found on page")

	// Renderer option validation errors.
	ErrLibraryNotFound  = errors.New("mermaid library not found")
	ErrInvalidTimeout   = errors.New("invalid timeout")
	ErrInvalidViewport  = errors.New("invalid viewport")
	ErrInvalidScale     = errors.New("invalid scale")
	ErrInvalidPadding   = errors.New("invalid padding")
	ErrInvalidFallback  = errors.New("invalid fallback box")
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
