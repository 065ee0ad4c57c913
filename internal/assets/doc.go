// Package assets provides Mermaid themes and the HTML document template.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides built-in themes (corporate, default, neutral,
// forest, dark) and the document template embedded at compile time.
//
// FilesystemLoader allows users to provide custom assets from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver is the loader used by the CLI. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is not
// found. This enables overriding one theme while keeping the others.
//
// # Directory Structure
//
// Assets are organized by type:
//
//	{basePath}/
//	├── themes/
//	│   └── {name}.yaml          # Mermaid theme (e.g., corporate.yaml)
//	└── templates/
//	    └── {name}.html          # HTML wrapper (e.g., document.html)
//
// # Theme Format
//
// Themes are strict YAML; unknown keys are rejected:
//
//	name: base                   # Mermaid theme the variables apply to
//	fontFamily: Arial
//	fontSize: 14px
//	background: "#FFFFFF"
//	variables:
//	  primaryColor: "#DEEAF1"
//	  lineColor: "#2E75B6"
//
// # Security
//
// Asset names are validated to reject path separators and dots, and
// FilesystemLoader verifies that resolved paths stay within the base path.
package assets
