package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// formatFlags holds formatter options.
type formatFlags struct {
	engine     string
	highlight  string
	marks      bool
	preEscaped bool
}

// pageFlags holds preview page flags.
type pageFlags struct {
	enabled   bool
	title     string
	style     string
	baseURL   string
	assetPath string
	noStyle   bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	format  formatFlags
	page    pageFlags
	output  string
	workers int
}

// replayFlags holds all flags for the replay command.
type replayFlags struct {
	common commonFlags
	format formatFlags
	chunk  int
	delay  string
	cursor string
	final  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addFormatFlags adds formatter flags to a FlagSet.
func addFormatFlags(fs *flag.FlagSet, f *formatFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "engine for finished messages: stream, commonmark")
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for code blocks (\"\" = plain)")
	fs.BoolVar(&f.marks, "marks", false, "render ==text== as highlights")
	fs.BoolVar(&f.preEscaped, "pre-escaped", false, "input is already HTML-escaped")
}

// addPageFlags adds preview page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.BoolVar(&f.enabled, "page", false, "write standalone HTML pages instead of fragments")
	fs.StringVar(&f.title, "title", "", "page title (\"\" = file name)")
	fs.StringVar(&f.style, "style", "", "page CSS style name")
	fs.StringVar(&f.baseURL, "base-url", "", "resolve relative links against this URL")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable page CSS")
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel files (0 = auto)")

	addCommonFlags(fs, &f.common)
	addFormatFlags(fs, &f.format)
	addPageFlags(fs, &f.page)

	fs.Usage = func() { printRenderUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseReplayFlags parses replay command flags and returns positional args.
func parseReplayFlags(args []string, stderr io.Writer) (*replayFlags, []string, error) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &replayFlags{}

	fs.IntVarP(&f.chunk, "chunk", "n", 0, "characters added per frame (0 = config or 16)")
	fs.StringVarP(&f.delay, "delay", "d", "", "pause between frames, e.g. 40ms")
	fs.StringVar(&f.cursor, "cursor", "", "cursor markup while writing (\"\" = block cursor)")
	fs.BoolVar(&f.final, "final", false, "print only the finished message")

	addCommonFlags(fs, &f.common)
	addFormatFlags(fs, &f.format)

	fs.Usage = func() { printReplayUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseCommonFlags parses commands that only take common flags.
func parseCommonFlags(name string, args []string, stderr io.Writer, usage func(io.Writer)) (*commonFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &commonFlags{}
	addCommonFlags(fs, f)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
