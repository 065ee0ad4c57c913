package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTheme loads a theme by name using the default embedded loader.
// The name should not include the .yaml extension or path components.
// Returns ErrThemeNotFound if the theme does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadTheme(name string) (*Theme, error) {
	return defaultLoader.LoadTheme(name)
}

// LoadTemplate loads an HTML template by name using the default embedded loader.
// Returns ErrTemplateNotFound if the template does not exist.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// ThemeNames lists the built-in theme names.
func ThemeNames() []string {
	return defaultLoader.ThemeNames()
}
