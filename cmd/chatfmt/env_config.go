package main

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-chatfmt/internal/config"
)

// envPrefix marks the environment variables read by chatfmt.
const envPrefix = "CHATFMT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // CHATFMT_CONFIG: config file name or path

	// Formatting
	Engine     string // CHATFMT_ENGINE: stream, commonmark
	Highlight  string // CHATFMT_HIGHLIGHT: chroma style for code blocks
	Marks      *bool  // CHATFMT_MARKS: enable ==text== highlights
	PreEscaped *bool  // CHATFMT_PRE_ESCAPED: input is already HTML-escaped

	// I/O
	InputDir  string // CHATFMT_INPUT_DIR: default input directory
	OutputDir string // CHATFMT_OUTPUT_DIR: default output directory
	Workers   int    // CHATFMT_WORKERS: parallel files

	// Preview pages
	Style     string // CHATFMT_STYLE: page CSS style name
	BaseURL   string // CHATFMT_BASE_URL: base for relative links
	AssetPath string // CHATFMT_ASSET_PATH: custom asset directory

	// Replay
	Delay string // CHATFMT_REPLAY_DELAY: pause between frames
}

// knownEnvVars lists valid CHATFMT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CHATFMT_CONFIG":       true,
	"CHATFMT_ENGINE":       true,
	"CHATFMT_HIGHLIGHT":    true,
	"CHATFMT_MARKS":        true,
	"CHATFMT_PRE_ESCAPED":  true,
	"CHATFMT_INPUT_DIR":    true,
	"CHATFMT_OUTPUT_DIR":   true,
	"CHATFMT_WORKERS":      true,
	"CHATFMT_STYLE":        true,
	"CHATFMT_BASE_URL":     true,
	"CHATFMT_ASSET_PATH":   true,
	"CHATFMT_REPLAY_DELAY": true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and booleans are ignored, like unset variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("CHATFMT_CONFIG"),
		Engine:     os.Getenv("CHATFMT_ENGINE"),
		Highlight:  os.Getenv("CHATFMT_HIGHLIGHT"),
		Marks:      envBool("CHATFMT_MARKS"),
		PreEscaped: envBool("CHATFMT_PRE_ESCAPED"),
		InputDir:   os.Getenv("CHATFMT_INPUT_DIR"),
		OutputDir:  os.Getenv("CHATFMT_OUTPUT_DIR"),
		Style:      os.Getenv("CHATFMT_STYLE"),
		BaseURL:    os.Getenv("CHATFMT_BASE_URL"),
		AssetPath:  os.Getenv("CHATFMT_ASSET_PATH"),
		Delay:      os.Getenv("CHATFMT_REPLAY_DELAY"),
	}

	if workers := os.Getenv("CHATFMT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// envBool parses a boolean variable; nil means unset or invalid.
func envBool(name string) *bool {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// warnUnknownEnvVars logs warnings for unrecognized CHATFMT_* variables.
// Helps catch typos like CHATFMT_HIGHLIGHTS instead of CHATFMT_HIGHLIGHT.
func warnUnknownEnvVars(w io.Writer) {
	logger := slog.New(slog.NewTextHandler(w, nil))
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies set environment variables to config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Engine != "" {
		cfg.Formatter.Engine = env.Engine
	}
	if env.Highlight != "" {
		cfg.Highlight.Style = env.Highlight
	}
	if env.Marks != nil {
		cfg.Formatter.Marks = *env.Marks
	}
	if env.PreEscaped != nil {
		cfg.Formatter.PreEscaped = *env.PreEscaped
	}

	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Workers > 0 {
		cfg.Output.Workers = env.Workers
	}

	// A page-only setting turns preview pages on.
	if env.Style != "" {
		cfg.Page.Style = env.Style
		cfg.Page.Enabled = true
	}
	if env.BaseURL != "" {
		cfg.Page.BaseURL = env.BaseURL
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}

	if env.Delay != "" {
		cfg.Replay.Delay = env.Delay
	}
}
