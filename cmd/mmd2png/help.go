package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mmd2png <command> [flags] [args]")
	fmt.Fprintln(w, "       mmd2png <input> [output.png] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render a Mermaid diagram (or Markdown diagrams) to PNG")
	fmt.Fprintln(w, "  doctor     Check Chrome, mermaid.min.js and the environment")
	fmt.Fprintln(w, "  config     Print the effective configuration as YAML")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mmd2png help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mmd2png render <input> [output.png] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a Mermaid diagram to a PNG cropped to the diagram.")
	fmt.Fprintln(w, "A .md input renders every ```mermaid block to <output-base>-<n>.png.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input     Diagram file (.mmd) or Markdown file (.md, .markdown)")
	fmt.Fprintln(w, "  output    PNG file or directory (default: <input-base>.png)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PNG file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers for Markdown (0 = auto)")
	fmt.Fprintln(w, "      --html                Keep the generated HTML as <output-base>.html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mermaid:")
	fmt.Fprintln(w, "      --mermaid-js <path>   Path to mermaid.min.js (env: MMD2PNG_MERMAID_JS)")
	fmt.Fprintln(w, "      --theme <name>        Theme name or YAML file: corporate, default,")
	fmt.Fprintln(w, "                            neutral, forest, dark")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with themes/ and templates/ overrides")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Timing:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout (default 15s)")
	fmt.Fprintln(w, "      --settle <d>          Delay after the ready signal (default 600ms)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "      --scale <f>           Device scale factor (default 2)")
	fmt.Fprintln(w, "      --padding <f>         CSS px around the diagram (default 32)")
	fmt.Fprintln(w, "      --width <n>           Viewport width in CSS px (default 3000)")
	fmt.Fprintln(w, "      --height <n>          Viewport height in CSS px (default 4000)")
	fmt.Fprintln(w, "      --strict              Fail when no svg is found")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 general, 2 usage/config, 3 I/O, 4 browser, 5 render")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mmd2png doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, mermaid.min.js, container/CI settings and the temp directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print results as JSON")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mmd2png config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration (config file plus MMD2PNG_* overrides).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mmd2png version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mmd2png help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
