package assets

import (
	"errors"
)

// AssetResolver layers a custom directory over the embedded assets.
// A theme or template missing from the custom directory is taken from the
// embedded copy; any other custom-side failure is returned as-is.
type AssetResolver struct {
	custom   AssetLoader // nil when no directory is configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath means
// embedded assets only. Returns ErrInvalidBasePath when customBasePath is set
// but not a readable directory.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}

	fsLoader, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = fsLoader
	return r, nil
}

// LoadTheme loads a theme from the custom directory, then the embedded set.
func (r *AssetResolver) LoadTheme(name string) (*Theme, error) {
	return resolve(r, func(l AssetLoader) (*Theme, error) { return l.LoadTheme(name) })
}

// LoadTemplate loads a template from the custom directory, then the embedded set.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return resolve(r, func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// resolve runs load against the custom loader and falls back to the embedded
// loader only for not-found errors.
func resolve[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom != nil {
		v, err := load(r.custom)
		if err == nil || !isNotFound(err) {
			return v, err
		}
	}
	return load(r.embedded)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrThemeNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
