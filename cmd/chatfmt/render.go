package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"

	chatfmt "github.com/alnah/go-chatfmt"
	"github.com/alnah/go-chatfmt/internal/config"
	"github.com/alnah/go-chatfmt/internal/fileutil"
	"github.com/alnah/go-chatfmt/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdinArg selects standard input as the transcript.
const stdinArg = "-"

// Sentinel errors for render operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrNoFiles       = errors.New("no transcripts found")
	ErrTooManyInputs = errors.New("expected a single input")
	ErrReadInput     = errors.New("failed to read transcript")
	ErrWriteOutput   = errors.New("failed to write HTML file")
)

// MessageRenderer is the part of chatfmt.Formatter the CLI depends on.
type MessageRenderer interface {
	Render(msg chatfmt.Message) chatfmt.Fragment
}

// Compile-time interface implementation check.
var _ MessageRenderer = (*chatfmt.Formatter)(nil)

// RenderResult holds the outcome of a single file.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// renderParams groups settings shared across the batch.
type renderParams struct {
	css string
	cfg *config.Config
}

// runRender orchestrates the render command.
func runRender(ctx context.Context, positionalArgs []string, flags *renderFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, env.Stderr)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags, cfg)
	env.Config = cfg

	formatter, err := buildFormatter(cfg, env)
	if err != nil {
		return err
	}
	if err := validateBaseURL(cfg.Page.BaseURL); err != nil {
		return err
	}

	params := &renderParams{cfg: cfg}
	if cfg.Page.Enabled {
		loader, err := resolveAssetLoader(cfg, env)
		if err != nil {
			return err
		}
		if params.css, err = resolvePageCSS(cfg, flags.page.noStyle, loader); err != nil {
			return err
		}
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	outputPath := resolveOutputDir(flags.output, cfg)

	if inputPath == stdinArg {
		return renderStdin(ctx, formatter, outputPath, params, env)
	}

	files, err := discoverFiles(inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}

	workers := chatfmt.ResolveWorkers(cfg.Output.Workers)
	env.Logger.Debug("rendering", "files", len(files), "workers", workers, "engine", formatter.Engine())

	results := renderBatch(ctx, formatter, files, params, workers)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d render(s) failed", failedCount)
	}

	return nil
}

// resolveInputPath picks the input from args or the configured default dir.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	switch len(args) {
	case 0:
		if cfg.Input.DefaultDir == "" {
			return "", ErrNoInput
		}
		return cfg.Input.DefaultDir, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w, got %d", ErrTooManyInputs, len(args))
	}
}

// resolveOutputDir picks the output from the flag or the configured default dir.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// renderStdin renders standard input to outputPath, or to stdout when no
// output is given.
func renderStdin(ctx context.Context, r MessageRenderer, outputPath string, params *renderParams, env *Environment) error {
	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
	}

	out, err := renderContent(ctx, r, string(content), "Message", params)
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err := io.WriteString(env.Stdout, out+"\n")
		return err
	}
	return writeOutput(outputPath, out)
}

// renderBatch renders files concurrently, at most workers at a time.
// Results keep the order of files.
func renderBatch(ctx context.Context, r MessageRenderer, files []FileToRender, params *renderParams, workers int) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]RenderResult, len(files))
	sem := semaphore.NewWeighted(int64(max(workers, 1)))
	done := make(chan struct{}, len(files))

	for i, f := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = RenderResult{InputPath: f.InputPath, Err: err}
			done <- struct{}{}
			continue
		}
		go func() {
			defer sem.Release(1)
			results[i] = renderFile(ctx, r, f, params)
			done <- struct{}{}
		}()
	}

	for range files {
		<-done
	}
	return results
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, r MessageRenderer, f FileToRender, params *renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		result.Duration = time.Since(start)
		return result
	}

	out, err := renderContent(ctx, r, string(content), pageTitle(f.InputPath), params)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := writeOutput(f.OutputPath, out); err != nil {
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// renderContent formats a finished transcript and applies page settings.
func renderContent(ctx context.Context, r MessageRenderer, text, title string, params *renderParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fragment := r.Render(chatfmt.Message{Text: text})
	return finishFragment(ctx, fragment.HTML, title, params.css, params.cfg)
}

// writeOutput creates the parent directory and writes content atomically.
func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs render results using the provided writers.
func printResultsWithWriter(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
