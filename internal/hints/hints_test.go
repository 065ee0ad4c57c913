package hints

// Notes:
// - ForBrowserConnect reads the environment through an injected getenv, so
//   all tests run in parallel. /.dockerenv is the one signal read from disk;
//   cases that expect no sandbox hint are skipped when it exists.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"strings"
	"testing"

	"github.com/alnah/go-mmd2png/internal/fileutil"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		vars        map[string]string
		wantSandbox bool
		wantBin     bool
		hostSignal  bool // result depends on /.dockerenv being absent
	}{
		{"ci", map[string]string{"CI": "true"}, true, true, false},
		{"github actions", map[string]string{"GITHUB_ACTIONS": "true"}, true, true, false},
		{"explicit container", map[string]string{"MMD2PNG_CONTAINER": "1"}, true, true, false},
		{"podman", map[string]string{"container": "podman"}, true, true, false},
		{"sandbox already off", map[string]string{"CI": "true", "ROD_NO_SANDBOX": "1"}, false, true, false},
		{"browser bin set", map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chromium"}, false, false, true},
		{"plain host", map[string]string{}, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.hostSignal && fileutil.FileExists("/.dockerenv") {
				t.Skip("running inside Docker")
			}

			hint := ForBrowserConnect(envOf(tt.vars))

			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("sandbox hint = %v, want %v (%q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("browser bin hint = %v, want %v (%q)", got, tt.wantBin, hint)
			}
		})
	}

	t.Run("fully configured gives no hint", func(t *testing.T) {
		t.Parallel()

		hint := ForBrowserConnect(envOf(map[string]string{
			"CI":              "true",
			"ROD_NO_SANDBOX":  "1",
			"ROD_BROWSER_BIN": "/usr/bin/chromium",
		}))
		if hint != "" {
			t.Errorf("expected empty hint, got %q", hint)
		}
	})
}

// ---------------------------------------------------------------------------
// TestForLibraryNotFound
// ---------------------------------------------------------------------------

func TestForLibraryNotFound(t *testing.T) {
	t.Parallel()

	const def = "/usr/local/lib/mermaid.min.js"

	tests := []struct {
		name    string
		path    string
		wantNpm bool
	}{
		{name: "default path", path: def, wantNpm: true},
		{name: "custom path", path: "/opt/mermaid.min.js", wantNpm: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForLibraryNotFound(tt.path, def)
			for _, want := range []string{"--mermaid-js", "MMD2PNG_MERMAID_JS"} {
				if !strings.Contains(hint, want) {
					t.Errorf("hint should mention %s, got %q", want, hint)
				}
			}
			if got := strings.Contains(hint, "npm install"); got != tt.wantNpm {
				t.Errorf("npm mention = %v, want %v (%q)", got, tt.wantNpm, hint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestForConfigNotFound / TestForThemeNotFound
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForConfigNotFound(nil); !strings.Contains(hint, "--config") || strings.Contains(hint, "create") {
		t.Errorf("without search paths only --config is suggested, got %q", hint)
	}

	hint := ForConfigNotFound([]string{"./work.yaml", "/home/u/.config/go-mmd2png/work.yaml"})
	if !strings.Contains(hint, "create /home/u/.config/go-mmd2png/work.yaml") {
		t.Errorf("hint should suggest the user config path, got %q", hint)
	}
}

func TestForThemeNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForThemeNotFound(nil); hint != "" {
		t.Errorf("no themes should give no hint, got %q", hint)
	}
	if hint := ForThemeNotFound([]string{"corporate", "dark"}); !strings.Contains(hint, "available: corporate, dark") {
		t.Errorf("hint should list themes, got %q", hint)
	}
}

// ---------------------------------------------------------------------------
// TestFormat - Shared shape of every hint
// ---------------------------------------------------------------------------

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hint    string
		mention string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"output directory", ForOutputDirectory(), "parent directory"},
		{"diagram syntax", ForDiagramSyntax(), "diagram type"},
		{"no graphic", ForNoGraphic(), "--strict"},
		{"library", ForLibraryNotFound("a", "b"), "--mermaid-js"},
		{"config", ForConfigNotFound(nil), "--config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.hint, "\n  hint: ") {
				t.Errorf("hint format inconsistent: %q", tt.hint)
			}
			if !strings.Contains(tt.hint, tt.mention) {
				t.Errorf("hint should mention %q, got %q", tt.mention, tt.hint)
			}
		})
	}

	if format("") != "" || formatHints(nil) != "" {
		t.Error("empty input should format to empty string")
	}
}
