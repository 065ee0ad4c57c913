package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mmd2png/internal/yamlutil"
)

// runConfigCmd prints the effective configuration (config file plus
// environment overrides) as YAML.
func runConfigCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var configName string
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")
	fs.Usage = func() { printConfigUsage(env.Stdout) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	cfg, err := loadConfig(configName, loadEnvConfig(env.Getenv))
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: encoding config: %v\n", err)
		return ExitGeneral
	}
	_, _ = env.Stdout.Write(data)
	return ExitSuccess
}
