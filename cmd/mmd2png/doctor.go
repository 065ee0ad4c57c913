package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	mmd2png "github.com/alnah/go-mmd2png"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Chrome   chromeInfo  `json:"chrome"`
	Mermaid  mermaidInfo `json:"mermaid"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// mermaidInfo holds mermaid.min.js detection results.
type mermaidInfo struct {
	Found  bool   `json:"found"`
	Path   string `json:"path"`
	Source string `json:"source"` // "env" or "default"
	Size   int64  `json:"size,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorProbe holds the lookups doctor performs, replaceable in tests.
type doctorProbe struct {
	getenv         func(string) string
	lookPath       func() (string, bool)
	browserVersion func(path string) (string, error)
	fileExists     func(path string) bool
}

// defaultProbe returns a probe backed by the real system.
func defaultProbe(getenv func(string) string) doctorProbe {
	return doctorProbe{
		getenv:         getenv,
		lookPath:       launcher.LookPath,
		browserVersion: chromeVersion,
		fileExists:     func(path string) bool { _, err := os.Stat(path); return err == nil },
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(defaultProbe(env.Getenv))

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(probe doctorProbe) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  probe.getenv("ROD_NO_SANDBOX"),
			BrowserBin: probe.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result, probe)
	checkMermaid(result, probe)
	checkEnvironment(result, probe)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult, probe doctorProbe) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = probe.lookPath()
		if !found {
			// Rod downloads Chromium on first render, so this is not fatal
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; a managed Chromium will be downloaded on first render")
			return
		}
	}

	if !probe.fileExists(chromePath) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	version, err := probe.browserVersion(chromePath)
	if err == nil {
		result.Chrome.Version = version
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// chromeVersion runs the browser with --version.
func chromeVersion(path string) (string, error) {
	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path from ROD_BROWSER_BIN or launcher lookup
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkMermaid verifies the library the render command would load.
func checkMermaid(result *doctorResult, probe doctorProbe) {
	result.Mermaid.Path = mmd2png.DefaultLibraryPath
	result.Mermaid.Source = "default"
	if p := probe.getenv(envMermaidJS); p != "" {
		result.Mermaid.Path = p
		result.Mermaid.Source = "env"
	}

	info, err := os.Stat(result.Mermaid.Path)
	if err != nil || info.IsDir() {
		result.Errors = append(result.Errors,
			fmt.Sprintf("mermaid.min.js not found at %s. Set %s or use --mermaid-js", result.Mermaid.Path, envMermaidJS))
		return
	}

	result.Mermaid.Found = true
	result.Mermaid.Size = info.Size()
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, probe doctorProbe) {
	result.Env.Container, result.Env.ContainerHint = isContainer(probe)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if probe.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(probe doctorProbe) (bool, string) {
	if probe.getenv(envContainer) == "1" {
		return true, envContainer + "=1"
	}
	if probe.fileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := probe.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if probe.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for render documents is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mmd2png-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mmd2png doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Mermaid")
	if r.Mermaid.Found {
		fmt.Fprintf(w, "  [OK] Found at %s (%s, %d bytes)\n", r.Mermaid.Path, r.Mermaid.Source, r.Mermaid.Size)
	} else {
		fmt.Fprintf(w, "  [ERROR] Not found at %s\n", r.Mermaid.Path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
