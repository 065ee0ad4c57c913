// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-mmd2png/internal/fileutil"
)

// ciVars are set by common CI providers.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// ForBrowserConnect returns hints for a browser that failed to launch.
// In CI or a container without ROD_NO_SANDBOX it suggests disabling the
// sandbox; without ROD_BROWSER_BIN it suggests pointing at a local Chrome.
func ForBrowserConnect(getenv func(string) string) string {
	var hints []string

	if (inCI(getenv) || inContainer(getenv)) && getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

func inCI(getenv func(string) string) bool {
	for _, v := range ciVars {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// inContainer checks the explicit MMD2PNG_CONTAINER switch, the container
// variable set by podman and systemd-nspawn, and Docker's /.dockerenv.
func inContainer(getenv func(string) string) bool {
	return getenv("MMD2PNG_CONTAINER") == "1" ||
		getenv("container") != "" ||
		fileutil.FileExists("/.dockerenv")
}

// ForTimeout returns a hint about raising the render timeout.
func ForTimeout() string {
	return format("for large diagrams, use --timeout (e.g. --timeout 30s)")
}

// ForLibraryNotFound returns hints for a missing mermaid.min.js.
// Mentions npm only when the default install location was searched.
func ForLibraryNotFound(path, defaultPath string) string {
	hint := "use --mermaid-js /path/to/mermaid.min.js or set MMD2PNG_MERMAID_JS"
	if path == defaultPath {
		hint += "; install with: npm install -g @mermaid-js/mermaid-cli"
	}
	return format(hint)
}

// ForDiagramSyntax returns a hint for diagrams Mermaid refused to parse.
func ForDiagramSyntax() string {
	return format("check the first line declares a diagram type (e.g. graph TD, sequenceDiagram)")
}

// ForNoGraphic returns a hint for strict mode measurement failures.
func ForNoGraphic() string {
	return format("drop --strict to capture the fallback region instead")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mmd2png/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mmd2png") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound returns hints for theme not found errors.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
