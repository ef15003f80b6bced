package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-chatfmt/internal/fileutil"
	"github.com/alnah/go-chatfmt/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory under the user config dir searched for named configs.
const AppDir = "go-chatfmt"

// Field length limits.
const (
	MaxPathLength   = 4096 // PATH_MAX on Linux
	MaxURLLength    = 2048 // Browser limit
	MaxTitleLength  = 200  // Preview page title
	MaxStyleLength  = 100  // Style name or short path
	MaxCursorLength = 100  // Cursor markup
	MaxDelayLength  = 20   // "250ms", "1.5s"
)

// Supported formatter engines.
var engines = []string{"stream", "commonmark"}

// Config holds all configuration for the chatfmt CLI.
type Config struct {
	Formatter FormatterConfig `yaml:"formatter"`
	Highlight HighlightConfig `yaml:"highlight"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Page      PageConfig      `yaml:"page"`
	Replay    ReplayConfig    `yaml:"replay"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// FormatterConfig defines message formatting options.
type FormatterConfig struct {
	Engine     string `yaml:"engine"`     // "stream" (default) or "commonmark"
	PreEscaped bool   `yaml:"preEscaped"` // Input already HTML-escaped upstream
	Marks      bool   `yaml:"marks"`      // Enable ==text== highlights
}

// HighlightConfig defines code block highlighting.
type HighlightConfig struct {
	Style string `yaml:"style"` // Chroma style name (empty = plain code blocks)
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Workers    int    `yaml:"workers"`    // Parallel files (0 = auto)
}

// PageConfig defines standalone preview pages.
type PageConfig struct {
	Enabled bool   `yaml:"enabled"` // Write full HTML pages instead of fragments
	Title   string `yaml:"title"`   // Page title (empty = file name)
	Style   string `yaml:"style"`   // CSS style name or path (empty = default)
	BaseURL string `yaml:"baseURL"` // Resolve relative links against this URL
}

// ReplayConfig defines streaming simulation options.
type ReplayConfig struct {
	Chunk  int    `yaml:"chunk"`  // Characters added per frame (0 = default)
	Delay  string `yaml:"delay"`  // Pause between frames, e.g. "50ms"
	Cursor string `yaml:"cursor"` // Cursor markup shown while writing
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Formatter.Engine != "" && !isEngine(c.Formatter.Engine) {
		return fmt.Errorf("%w: formatter.engine %q (must be %s)", ErrInvalidValue, c.Formatter.Engine, strings.Join(engines, " or "))
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"highlight.style", c.Highlight.Style, MaxStyleLength},
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"page.title", c.Page.Title, MaxTitleLength},
		{"page.style", c.Page.Style, MaxPathLength},
		{"page.baseURL", c.Page.BaseURL, MaxURLLength},
		{"replay.delay", c.Replay.Delay, MaxDelayLength},
		{"replay.cursor", c.Replay.Cursor, MaxCursorLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Page.BaseURL != "" && !fileutil.IsURL(c.Page.BaseURL) {
		return fmt.Errorf("%w: page.baseURL %q (must start with http:// or https://)", ErrInvalidValue, c.Page.BaseURL)
	}
	if c.Output.Workers < 0 {
		return fmt.Errorf("%w: output.workers must be >= 0, got %d", ErrInvalidValue, c.Output.Workers)
	}
	if c.Replay.Chunk < 0 {
		return fmt.Errorf("%w: replay.chunk must be >= 0, got %d", ErrInvalidValue, c.Replay.Chunk)
	}
	if _, err := c.Replay.DelayDuration(); err != nil {
		return err
	}

	return nil
}

// DelayDuration parses Replay.Delay. An empty delay is zero.
func (r ReplayConfig) DelayDuration() (time.Duration, error) {
	if r.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Delay)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: replay.delay %q (e.g. 50ms)", ErrInvalidValue, r.Delay)
	}
	return d, nil
}

func isEngine(name string) bool {
	for _, e := range engines {
		if strings.EqualFold(name, e) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given:
// stream engine, plain code blocks, fragments only.
func DefaultConfig() *Config {
	return &Config{
		Formatter: FormatterConfig{Engine: "stream"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order:
// current directory, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing search path for name.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
