package main

// Notes:
// - loadEnvConfig takes a getenv function, so tests run in parallel without
//   touching the process environment.
// - warnUnknownEnvVars: asserted through the logger output.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-mmd2png/internal/config"
)

func mapGetenv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want envConfig
	}{
		{
			name: "empty",
			vars: map[string]string{},
			want: envConfig{},
		},
		{
			name: "all set",
			vars: map[string]string{
				envConfigPath: "work",
				envMermaidJS:  "/opt/mermaid.min.js",
				envTheme:      "dark",
				envTimeout:    "45s",
				envOutputDir:  "build",
				envWorkers:    "3",
			},
			want: envConfig{
				ConfigPath:  "work",
				LibraryPath: "/opt/mermaid.min.js",
				Theme:       "dark",
				Timeout:     45 * time.Second,
				OutputDir:   "build",
				Workers:     3,
			},
		},
		{
			name: "malformed numbers ignored",
			vars: map[string]string{envTimeout: "soon", envWorkers: "-2"},
			want: envConfig{},
		},
		{
			name: "zero timeout ignored",
			vars: map[string]string{envTimeout: "0s"},
			want: envConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := loadEnvConfig(mapGetenv(tt.vars))
			if *got != tt.want {
				t.Errorf("loadEnvConfig() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides config file", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Mermaid.LibraryPath = "/from/config.js"
		cfg.Theme.Name = "forest"

		applyEnvConfig(&envConfig{
			LibraryPath: "/from/env.js",
			Theme:       "dark",
			Timeout:     90 * time.Second,
			OutputDir:   "out",
			Workers:     2,
		}, cfg)

		if cfg.Mermaid.LibraryPath != "/from/env.js" {
			t.Errorf("LibraryPath = %q, want env value", cfg.Mermaid.LibraryPath)
		}
		if cfg.Theme.Name != "dark" {
			t.Errorf("Theme = %q, want dark", cfg.Theme.Name)
		}
		if cfg.Render.Timeout != "1m30s" {
			t.Errorf("Timeout = %q, want 1m30s", cfg.Render.Timeout)
		}
		if cfg.Output.DefaultDir != "out" || cfg.Workers != 2 {
			t.Errorf("output/workers not applied: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("config should stay valid: %v", err)
		}
	})

	t.Run("unset env keeps config file", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Mermaid.LibraryPath = "/from/config.js"
		cfg.Render.Timeout = "20s"

		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Mermaid.LibraryPath != "/from/config.js" || cfg.Render.Timeout != "20s" {
			t.Errorf("config changed by empty env: %+v", cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	warnUnknownEnvVars([]string{
		"PATH=/usr/bin",
		"MMD2PNG_MERMAID_JS=/opt/m.js",
		"MMD2PNG_MERMAIDJS=/opt/m.js",
		"MMD2PNG_THEME=dark",
	}, logger)

	out := buf.String()
	if !strings.Contains(out, "MMD2PNG_MERMAIDJS") {
		t.Errorf("typo should be reported, got: %s", out)
	}
	if strings.Count(out, "unknown environment variable") != 1 {
		t.Errorf("exactly one warning expected, got: %s", out)
	}
}
