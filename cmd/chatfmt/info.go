package main

import (
	"fmt"
	"strings"

	chatfmt "github.com/alnah/go-chatfmt"
	"github.com/alnah/go-chatfmt/internal/yamlutil"
)

// runStyles lists page styles and highlight styles.
func runStyles(args []string, env *Environment) error {
	common, _, err := parseCommonFlags("styles", args, env.Stderr, printStylesUsage)
	if err != nil {
		return usageError(err)
	}

	cfg, err := loadSettings(common, env.Stderr)
	if err != nil {
		return err
	}
	loader, err := resolveAssetLoader(cfg, env)
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, "Page styles:")
	for _, name := range loader.StyleNames() {
		fmt.Fprintf(env.Stdout, "  %s\n", name)
	}
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Highlight styles:")
	fmt.Fprintf(env.Stdout, "  %s\n", strings.Join(chatfmt.HighlightStyles(), ", "))
	return nil
}

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	common, _, err := parseCommonFlags("config", args, env.Stderr, printConfigUsage)
	if err != nil {
		return usageError(err)
	}

	cfg, err := loadSettings(common, env.Stderr)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
