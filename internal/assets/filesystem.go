package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads theme and template overrides from a directory laid
// out like the embedded assets: <dir>/themes/<name>.yaml and
// <dir>/templates/<name>.html.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader opens basePath as an override directory.
// The path is made absolute with symlinks resolved, so containment checks
// compare like with like. Returns ErrInvalidBasePath unless basePath is a
// readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	dir, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}

	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, dir)
	case err != nil && entries == nil:
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, dir)
		}
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: dir}, nil
}

// LoadTheme reads <basePath>/themes/<name>.yaml.
func (f *FilesystemLoader) LoadTheme(name string) (*Theme, error) {
	content, err := f.read("themes", name, ".yaml", ErrThemeNotFound)
	if err != nil {
		return nil, err
	}
	return ParseTheme(content)
}

// LoadTemplate reads <basePath>/templates/<name>.html.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	content, err := f.read("templates", name, ".html", ErrTemplateNotFound)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// read loads one asset file after validating its name and checking that the
// resolved path stays inside basePath. A missing file maps to notFound so the
// resolver can fall back to the embedded copy.
func (f *FilesystemLoader) read(kind, name, ext string, notFound error) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(f.basePath, kind, name+ext)
	if err := f.contains(path); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- name validated, path contained
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", notFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return content, nil
}

// contains returns ErrPathTraversal when path, after symlink resolution,
// lies outside basePath. A path that does not exist yet is checked as given.
func (f *FilesystemLoader) contains(path string) error {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}

	rel, err := filepath.Rel(f.basePath, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
