package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-mmd2png/internal/config"
)

// Environment variables read by the CLI.
const (
	envConfigPath = "MMD2PNG_CONFIG"
	envMermaidJS  = "MMD2PNG_MERMAID_JS"
	envTheme      = "MMD2PNG_THEME"
	envTimeout    = "MMD2PNG_TIMEOUT"
	envOutputDir  = "MMD2PNG_OUTPUT_DIR"
	envWorkers    = "MMD2PNG_WORKERS"
	envContainer  = "MMD2PNG_CONTAINER"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // MMD2PNG_CONFIG: config file name or path
	LibraryPath string        // MMD2PNG_MERMAID_JS: mermaid.min.js location
	Theme       string        // MMD2PNG_THEME: theme name or path
	Timeout     time.Duration // MMD2PNG_TIMEOUT: render timeout
	OutputDir   string        // MMD2PNG_OUTPUT_DIR: default output directory
	Workers     int           // MMD2PNG_WORKERS: parallel renderers
}

// knownEnvVars lists valid MMD2PNG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath: true,
	envMermaidJS:  true,
	envTheme:      true,
	envTimeout:    true,
	envOutputDir:  true,
	envWorkers:    true,
	envContainer:  true,
}

// loadEnvConfig reads configuration through getenv.
// Malformed durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:  getenv(envConfigPath),
		LibraryPath: getenv(envMermaidJS),
		Theme:       getenv(envTheme),
		OutputDir:   getenv(envOutputDir),
	}

	if timeout := getenv(envTimeout); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv(envWorkers); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MMD2PNG_* variables.
// Helps catch typos like MMD2PNG_MERMAIDJS instead of MMD2PNG_MERMAID_JS.
func warnUnknownEnvVars(environ []string, logger *log.Logger) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "MMD2PNG_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.LibraryPath != "" {
		cfg.Mermaid.LibraryPath = env.LibraryPath
	}
	if env.Theme != "" {
		cfg.Theme.Name = env.Theme
	}
	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
