// Package fileutil provides file and path helpers for render artifacts.
package fileutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrEmptyPath              = errors.New("path cannot be empty")
)

// TempHTMLSuffix replaces the .png extension in transient document names.
const TempHTMLSuffix = "_tmp.html"

// tempFilePermissions keeps transient documents private to the user.
const tempFilePermissions = 0o600

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "mmd2png-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// WriteFileWithCleanup writes content to a caller-chosen path and returns a
// cleanup function that removes it. Nothing is left behind on error.
func WriteFileWithCleanup(path, content string) (cleanup func(), err error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if err := os.WriteFile(path, []byte(content), tempFilePermissions); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	return func() { _ = os.Remove(path) }, nil
}

// TempHTMLPath derives the transient document path from a PNG output path.
//
// Examples:
//   - "out/flow.png" -> "out/flow_tmp.html"
//   - "out/FLOW.PNG" -> "out/FLOW_tmp.html"
//   - "out/flow"     -> "out/flow_tmp.html"
//   - "a.png/b.png"  -> "a.png/b_tmp.html" (only the final extension changes)
func TempHTMLPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	if strings.EqualFold(ext, ".png") {
		return strings.TrimSuffix(outputPath, ext) + TempHTMLSuffix
	}
	return outputPath + TempHTMLSuffix
}

// ReplaceExt swaps the extension of path for ext (which includes the dot).
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// FileURL converts a filesystem path to an absolute file:// URL.
// Spaces and other reserved characters are percent-encoded.
func FileURL(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	slashed := filepath.ToSlash(abs)
	// Windows drive paths ("C:/...") need a leading slash in URLs
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}

	u := url.URL{Scheme: "file", Path: slashed}
	return u.String(), nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "corporate" -> false (name)
//   - "./brand.yaml" -> true (relative path)
//   - "/absolute/theme.yaml" -> true (absolute)
//   - "C:\themes\brand.yaml" -> true (Windows)
//   - "my-theme" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
