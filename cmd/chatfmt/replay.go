package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	chatfmt "github.com/alnah/go-chatfmt"
	"github.com/alnah/go-chatfmt/internal/hints"
)

// defaultChunk is the number of characters added per frame.
const defaultChunk = 16

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// ErrInvalidChunk indicates a negative --chunk.
var ErrInvalidChunk = errors.New("invalid chunk size")

// runReplay simulates a streamed answer: the transcript is cut into growing
// prefixes, every prefix is formatted as a message still being written, and
// the last one as the finished message.
func runReplay(ctx context.Context, positionalArgs []string, flags *replayFlags, env *Environment) error {
	if flags.chunk < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidChunk, flags.chunk)
	}
	if len(positionalArgs) != 1 {
		if len(positionalArgs) == 0 {
			return ErrNoInput
		}
		return fmt.Errorf("%w, got %d", ErrTooManyInputs, len(positionalArgs))
	}

	cfg, err := loadSettings(&flags.common, env.Stderr)
	if err != nil {
		return err
	}
	mergeReplayFlags(flags, cfg)
	env.Config = cfg

	formatter, err := buildFormatter(cfg, env)
	if err != nil {
		return err
	}
	delay, err := cfg.Replay.DelayDuration()
	if err != nil {
		return err
	}

	text, err := readTranscript(positionalArgs[0], env.Stdin)
	if err != nil {
		return err
	}

	chunk := cfg.Replay.Chunk
	if chunk == 0 {
		chunk = defaultChunk
	}
	cursor := cfg.Replay.Cursor
	if cursor == "" {
		cursor = chatfmt.DefaultCursor
	}

	msgs := streamPrefixes(text, chunk)
	if flags.final {
		msgs = msgs[len(msgs)-1:]
	}
	frames := formatter.RenderAll(ctx, msgs, cfg.Output.Workers)
	if err := ctx.Err(); err != nil {
		return err
	}

	redraw := env.IsTerminal(env.Stdout) && os.Getenv("TERM") != "dumb"
	if !redraw && !flags.final && !flags.common.quiet && len(frames) > 1 {
		if hint := hints.ForReplayOutput(); hint != "" {
			fmt.Fprintf(env.Stderr, "note: printing %d frames one after another%s\n", len(frames), hint)
		}
	}
	env.Logger.Debug("replaying", "frames", len(frames), "chunk", chunk, "delay", delay, "redraw", redraw)

	return writeFrames(ctx, env, frames, cursor, delay, redraw)
}

// readTranscript reads a file, or standard input for "-".
func readTranscript(path string, stdin io.Reader) (string, error) {
	var (
		content []byte
		err     error
	)
	if path == stdinArg {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(path) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(content), nil
}

// streamPrefixes cuts text into prefixes growing by chunk runes, the way a
// chat client receives it. Only the last prefix is finished. Cuts never
// split a UTF-8 sequence.
func streamPrefixes(text string, chunk int) []chatfmt.Message {
	if chunk < 1 {
		chunk = 1
	}

	var msgs []chatfmt.Message
	runes := 0
	for i := range text {
		if runes > 0 && runes%chunk == 0 {
			msgs = append(msgs, chatfmt.Message{Text: text[:i], Writing: true})
		}
		runes++
	}
	return append(msgs, chatfmt.Message{Text: text})
}

// writeFrames prints frames. A terminal is redrawn in place; other outputs
// get every frame in sequence, separated by an HTML comment. A single frame
// is printed as is.
func writeFrames(ctx context.Context, env *Environment, frames []chatfmt.Fragment, cursor string, delay time.Duration, redraw bool) error {
	if len(frames) == 1 {
		_, err := fmt.Fprintln(env.Stdout, frames[0].Markup(cursor))
		return err
	}

	for i, frame := range frames {
		if i > 0 {
			if err := env.Sleep(ctx, delay); err != nil {
				return err
			}
		}

		var err error
		if redraw {
			_, err = fmt.Fprint(env.Stdout, clearScreen+frame.Markup(cursor)+"\n")
		} else {
			_, err = fmt.Fprintf(env.Stdout, "<!-- frame %d/%d -->\n%s\n", i+1, len(frames), frame.Markup(cursor))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
