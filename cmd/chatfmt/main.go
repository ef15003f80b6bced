package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("invalid usage")
)

// commands lists the subcommand names.
var commands = []string{"render", "replay", "styles", "config", "version", "help"}

func main() {
	args := os.Args[1:]

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(args, DefaultEnv()))
}

// runMain runs one command and maps its error to an exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := dispatch(ctx, args, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		if errors.Is(err, ErrUnknownCommand) {
			printUsage(env.Stderr)
		}
	}
	return exitCodeFor(err)
}

// dispatch selects the command. A bare transcript path is shorthand for
// "render <path>".
func dispatch(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: no command", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	if !isCommand(cmd) && (cmd == stdinArg || isTranscript(cmd)) {
		cmd, rest = "render", args
	}

	switch cmd {
	case "render":
		flags, positional, err := parseRenderFlags(rest, env.Stderr)
		if err != nil {
			return usageError(err)
		}
		env.Logger = newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
		return runRender(ctx, positional, flags, env)
	case "replay":
		flags, positional, err := parseReplayFlags(rest, env.Stderr)
		if err != nil {
			return usageError(err)
		}
		env.Logger = newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
		return runReplay(ctx, positional, flags, env)
	case "styles":
		return runStyles(rest, env)
	case "config":
		return runConfig(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "go-chatfmt %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// usageError marks flag parsing failures, except help requests.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

func isCommand(name string) bool {
	return slices.Contains(commands, name)
}

// hasVerboseFlag scans raw args before any command parses them.
func hasVerboseFlag(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}
