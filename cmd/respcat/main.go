// Package main provides respcat, a tool for inspecting captured RESP traffic.
//
// respcat reads a file (or stdin) holding one or more RESP messages back to
// back, decodes every message and prints it on its own line. With --commands
// each message is also classified, and printed as the command it represents.
//
//	printf '*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n' | respcat --commands
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/mediocregopher/respcmd"
	"github.com/mediocregopher/respcmd/command"
	"github.com/mediocregopher/respcmd/resp/resp3"
	"github.com/mediocregopher/respcmd/trace"
)

// Build information, set via ldflags.
var version = "dev"

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds everything respcat's behavior depends on besides its input.
type options struct {
	Commands bool
	Exact    bool
}

func app() *cli.App {
	return &cli.App{
		Name:      "respcat",
		Usage:     "decode and print RESP messages",
		ArgsUsage: "[file]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "commands",
				Aliases: []string{"c"},
				Usage:   "classify every message as a command",
				EnvVars: []string{"RESPCAT_COMMANDS"},
			},
			&cli.BoolFlag{
				Name:    "exact",
				Aliases: []string{"x"},
				Usage:   "require the input to hold exactly one message",
				EnvVars: []string{"RESPCAT_EXACT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "minimum log level: debug, info, warn, error",
				EnvVars: []string{"RESPCAT_LOG_LEVEL"},
				Value:   "info",
			},
		},
		Action: func(c *cli.Context) error {
			logger, err := setupLogger(os.Stderr, c.String("log-level"))
			if err != nil {
				return err
			}

			in := io.Reader(os.Stdin)
			if path := c.Args().First(); path != "" && path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return errors.Wrap(err, "failed to open input")
				}
				defer f.Close()
				in = f
			}

			opts := options{
				Commands: c.Bool("commands"),
				Exact:    c.Bool("exact"),
			}
			return run(in, os.Stdout, logger, opts)
		},
	}
}

func setupLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, errors.Wrapf(err, "invalid log level %q", level)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339Nano,
	}).Level(lvl).With().Timestamp().Logger(), nil
}

// run reads all of in and prints every message found in it to out.
func run(in io.Reader, out io.Writer, logger zerolog.Logger, opts options) error {
	buf, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	logger.Debug().Int("bytes", len(buf)).Msg("read input")

	p := respcmd.Parser{Trace: parseTrace(logger)}

	// with --exact even empty input goes through the decoder once, so that it
	// is reported as missing its one message
	var n int
	for len(buf) > 0 || (opts.Exact && n == 0) {
		rest, err := next(p, buf, out, opts)
		if err != nil {
			return errors.Wrapf(err, "message %d", n)
		}
		buf = rest
		n++
	}

	logger.Info().Int("messages", n).Msg("done")
	return nil
}

// next handles the first message in buf, returning what comes after it.
func next(p respcmd.Parser, buf []byte, out io.Writer, opts options) ([]byte, error) {
	if opts.Commands {
		var cmd command.Command
		var rest []byte
		var err error
		if opts.Exact {
			cmd, err = p.Parse(buf)
		} else {
			cmd, rest, err = p.ParseNext(buf)
		}
		if err != nil {
			return nil, err
		}
		return rest, printCommand(out, cmd)
	}

	var v resp3.Value
	var rest []byte
	var err error
	if opts.Exact {
		v, err = resp3.DecodeExact(buf)
	} else {
		v, rest, err = resp3.DecodeOne(buf)
	}
	if err != nil {
		return nil, err
	}
	_, err = fmt.Fprintf(out, "%s %v\n", v.Prefix().Name(), v)
	return rest, err
}

func printCommand(out io.Writer, cmd command.Command) error {
	argv := command.Argv(cmd)
	strs := make([]string, len(argv))
	for i, arg := range argv {
		strs[i] = fmt.Sprintf("%q", arg)
	}
	_, err := fmt.Fprintln(out, strings.Join(strs, " "))
	return err
}

func parseTrace(logger zerolog.Logger) trace.ParseTrace {
	return trace.ParseTrace{
		Decoded: func(e trace.ParseDecoded) {
			logger.Debug().
				Str("type", resp3.Prefix(e.Prefix).Name()).
				Int("consumed", e.Consumed).
				Int("remaining", e.Remaining).
				Msg("decoded message")
		},
		Classified: func(e trace.ParseClassified) {
			logger.Debug().
				Str("command", e.Name).
				Int("args", e.NumArgs).
				Msg("classified command")
		},
		Failed: func(e trace.ParseFailed) {
			logger.Warn().Err(e.Err).Msg("failed to parse command")
		},
	}
}
