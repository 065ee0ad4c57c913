package main

import (
	"errors"
	"os"

	mmd2png "github.com/alnah/go-mmd2png"
	"github.com/alnah/go-mmd2png/internal/config"
)

// Exit codes for mmd2png CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitRender  = 5 // Mermaid did not produce a usable diagram
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Usage is checked before I/O: a theme file that does not exist is a usage error.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render outcome errors (exit 5)
	if errors.Is(err, mmd2png.ErrRenderTimeout) ||
		errors.Is(err, mmd2png.ErrDiagramSyntax) ||
		errors.Is(err, mmd2png.ErrNoGraphic) {
		return ExitRender
	}

	// Browser errors (exit 4)
	if errors.Is(err, mmd2png.ErrBrowserConnect) ||
		errors.Is(err, mmd2png.ErrPageCreate) ||
		errors.Is(err, mmd2png.ErrPageLoad) ||
		errors.Is(err, mmd2png.ErrScreenshot) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mmd2png.ErrEmptyDiagram) ||
		errors.Is(err, mmd2png.ErrLibraryNotFound) ||
		errors.Is(err, mmd2png.ErrInvalidTimeout) ||
		errors.Is(err, mmd2png.ErrInvalidViewport) ||
		errors.Is(err, mmd2png.ErrInvalidScale) ||
		errors.Is(err, mmd2png.ErrInvalidPadding) ||
		errors.Is(err, mmd2png.ErrInvalidFallback) ||
		errors.Is(err, mmd2png.ErrInvalidTheme) ||
		errors.Is(err, mmd2png.ErrInvalidAssetPath) ||
		errors.Is(err, ErrNoDiagrams) ||
		errors.Is(err, ErrTooManyArgs) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mmd2png.ErrReadDiagram) ||
		errors.Is(err, mmd2png.ErrWriteDocument) ||
		errors.Is(err, mmd2png.ErrWritePNG) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}
