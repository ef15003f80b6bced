package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatfmt <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Format chat transcripts to HTML")
	fmt.Fprintln(w, "  replay     Simulate a streamed answer frame by frame")
	fmt.Fprintln(w, "  styles     List page and highlight styles")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'chatfmt help <command>' for details on a specific command.")
}

// printFormatUsage prints the formatter flags shared by render and replay.
func printFormatUsage(w io.Writer) {
	fmt.Fprintln(w, "Formatting:")
	fmt.Fprintln(w, "  -e, --engine <s>          Engine for finished messages: stream, commonmark")
	fmt.Fprintln(w, "      --highlight <s>       Chroma style for code blocks (see 'chatfmt styles')")
	fmt.Fprintln(w, "      --marks               Render ==text== as highlights")
	fmt.Fprintln(w, "      --pre-escaped         Input is already HTML-escaped")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatfmt render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Format chat transcripts (.md, .markdown, .txt) to HTML fragments.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File, directory, or - for stdin (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (stdin input: default stdout)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel files (0 = auto)")
	fmt.Fprintln(w)
	printFormatUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview Page:")
	fmt.Fprintln(w, "      --page                Write standalone HTML pages")
	fmt.Fprintln(w, "      --title <s>           Page title (\"\" = file name)")
	fmt.Fprintln(w, "      --style <name>        Page CSS style (implies --page)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-style            Disable page CSS")
	fmt.Fprintln(w, "      --base-url <url>      Resolve relative links against this URL")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printReplayUsage prints usage for the replay command.
func printReplayUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatfmt replay <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Simulate a streamed answer: format growing prefixes of the transcript")
	fmt.Fprintln(w, "with a typing cursor, then the finished message without it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Transcript file, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replay:")
	fmt.Fprintln(w, "  -n, --chunk <n>           Characters added per frame (default 16)")
	fmt.Fprintln(w, "  -d, --delay <duration>    Pause between frames, e.g. 40ms")
	fmt.Fprintln(w, "      --cursor <html>       Cursor markup while writing")
	fmt.Fprintln(w, "      --final               Print only the finished message")
	fmt.Fprintln(w)
	printFormatUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printStylesUsage prints usage for the styles command.
func printStylesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatfmt styles [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List page styles (embedded and assets.basePath) and highlight styles.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chatfmt config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after applying the config file and CHATFMT_* variables.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "replay":
		printReplayUsage(env.Stdout)
	case "styles":
		printStylesUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: chatfmt version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: chatfmt help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
