package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	chatfmt "github.com/alnah/go-chatfmt"
	"github.com/alnah/go-chatfmt/internal/assets"
	"github.com/alnah/go-chatfmt/internal/config"
	"github.com/alnah/go-chatfmt/internal/hints"
	"github.com/alnah/go-chatfmt/internal/pipeline"
)

// loadSettings builds the effective configuration.
// Precedence: CLI flags > env vars > config file > defaults.
// The config name comes from --config, then CHATFMT_CONFIG.
func loadSettings(common *commonFlags, stderr io.Writer) (*config.Config, error) {
	if !common.quiet {
		warnUnknownEnvVars(stderr)
	}

	env := loadEnvConfig()

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, withConfigHint(fmt.Errorf("loading config: %w", err), name)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// withConfigHint appends search locations to a not-found error.
func withConfigHint(err error, name string) error {
	if !errors.Is(err, config.ErrConfigNotFound) {
		return err
	}
	return fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
}

// mergeFormatFlags merges formatter flags into config. CLI values win.
func mergeFormatFlags(f *formatFlags, cfg *config.Config) {
	if f.engine != "" {
		cfg.Formatter.Engine = f.engine
	}
	if f.highlight != "" {
		cfg.Highlight.Style = f.highlight
	}
	if f.marks {
		cfg.Formatter.Marks = true
	}
	if f.preEscaped {
		cfg.Formatter.PreEscaped = true
	}
}

// mergeRenderFlags merges render flags into config. CLI values win.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	mergeFormatFlags(&f.format, cfg)

	if f.workers > 0 {
		cfg.Output.Workers = f.workers
	}
	if f.page.enabled {
		cfg.Page.Enabled = true
	}
	if f.page.title != "" {
		cfg.Page.Title = f.page.title
	}
	if f.page.style != "" {
		cfg.Page.Style = f.page.style
		cfg.Page.Enabled = true
	}
	if f.page.baseURL != "" {
		cfg.Page.BaseURL = f.page.baseURL
	}
	if f.page.assetPath != "" {
		cfg.Assets.BasePath = f.page.assetPath
	}
}

// mergeReplayFlags merges replay flags into config. CLI values win.
func mergeReplayFlags(f *replayFlags, cfg *config.Config) {
	mergeFormatFlags(&f.format, cfg)

	if f.chunk > 0 {
		cfg.Replay.Chunk = f.chunk
	}
	if f.delay != "" {
		cfg.Replay.Delay = f.delay
	}
	if f.cursor != "" {
		cfg.Replay.Cursor = f.cursor
	}
}

// buildFormatter turns the formatter section of cfg into a Formatter.
// Config errors carry a hint listing the accepted values.
func buildFormatter(cfg *config.Config, env *Environment) (*chatfmt.Formatter, error) {
	engine, err := chatfmt.ParseEngine(cfg.Formatter.Engine)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForEngine(engineNames()))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []chatfmt.Option{
		chatfmt.WithLogger(env.Logger),
		chatfmt.WithEngine(engine),
	}
	if cfg.Highlight.Style != "" {
		opts = append(opts, chatfmt.WithHighlighting(cfg.Highlight.Style))
	}
	if cfg.Formatter.Marks {
		opts = append(opts, chatfmt.WithMarkHighlights())
	}
	if cfg.Formatter.PreEscaped {
		opts = append(opts, chatfmt.WithPreEscapedInput())
	}

	f, err := chatfmt.New(opts...)
	if err != nil {
		if errors.Is(err, chatfmt.ErrInvalidHighlightStyle) {
			return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(chatfmt.HighlightStyles()))
		}
		return nil, err
	}
	return f, nil
}

func engineNames() []string {
	engines := chatfmt.Engines()
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = string(e)
	}
	return names
}

// resolvePageCSS returns the stylesheet of preview pages: the page style
// followed by the highlight stylesheet. noStyle drops the page style only,
// highlighted code still needs its classes.
func resolvePageCSS(cfg *config.Config, noStyle bool, loader assets.AssetLoader) (string, error) {
	var parts []string

	if !noStyle {
		name := cfg.Page.Style
		if name == "" {
			name = assets.DefaultStyleName
		}
		css, err := loader.LoadStyle(name)
		if err != nil {
			if errors.Is(err, assets.ErrStyleNotFound) {
				return "", fmt.Errorf("page style: %w%s", err, hints.ForStyleNotFound(loader.StyleNames()))
			}
			return "", fmt.Errorf("page style: %w", err)
		}
		parts = append(parts, css)
	}

	if cfg.Highlight.Style != "" {
		css, err := chatfmt.HighlightCSS(cfg.Highlight.Style)
		if err != nil {
			return "", err
		}
		parts = append(parts, css)
	}

	return strings.Join(parts, "\n"), nil
}

// resolveAssetLoader returns a resolver over the custom asset path, or the
// environment's loader when none is configured.
func resolveAssetLoader(cfg *config.Config, env *Environment) (assets.AssetLoader, error) {
	if cfg.Assets.BasePath == "" {
		return env.AssetLoader, nil
	}
	return assets.NewAssetResolver(cfg.Assets.BasePath)
}

// validateBaseURL rejects an unusable base URL before any file is read.
func validateBaseURL(baseURL string) error {
	if _, err := pipeline.ResolveRelativeLinks("", baseURL); err != nil {
		return fmt.Errorf("%w%s", err, hints.ForBaseURL())
	}
	return nil
}

// finishFragment applies link resolution and, for preview pages, wraps the
// fragment into a styled document.
func finishFragment(ctx context.Context, fragment, title, css string, cfg *config.Config) (string, error) {
	out, err := pipeline.ResolveRelativeLinks(fragment, cfg.Page.BaseURL)
	if err != nil {
		return "", err
	}

	if !cfg.Page.Enabled {
		return out, nil
	}

	if cfg.Page.Title != "" {
		title = cfg.Page.Title
	}
	page := pipeline.WrapDocument(out, title)
	return (&pipeline.CSSInjection{}).InjectCSS(ctx, page, css), nil
}
