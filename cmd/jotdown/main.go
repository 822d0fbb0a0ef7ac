// Jotdown compiles jotdown documents to HTML, RTF, LaTeX and other formats.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"src.jotdown.dev/pkg/buildinfo"
	"src.jotdown.dev/pkg/config"
	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/logutil"
)

var logger = logutil.GetLogger("jotdown")

// CLI is the command line grammar.
type CLI struct {
	Config  string           `short:"c" type:"path" help:"Configuration file. Defaults to jotdown/config.yaml in the user configuration directory."`
	Verbose bool             `short:"v" help:"Log debug messages to stderr."`
	Log     string           `type:"path" help:"Write log messages to this file."`
	Version kong.VersionFlag `help:"Show version and exit."`

	Build BuildCmd `cmd:"" help:"Compile documents."`
	Watch WatchCmd `cmd:"" help:"Compile documents, then compile them again whenever they change."`
	LSP   LSPCmd   `cmd:"" name:"lsp" help:"Run the language server on stdin and stdout."`
}

// The process environment, bound to the Run methods of commands.
type env struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Returned by the Exit hook of kong, to unwind from --help and --version.
type exit int

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("jotdown"),
		kong.Description("Compile jotdown documents."),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": buildinfo.Value.Version},
		kong.Exit(func(code int) { panic(exit(code)) }),
		kong.UsageOnError())
	if err != nil {
		// The grammar is static.
		panic(err)
	}
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exit)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "jotdown: %v\n", err)
		return 2
	}
	if err := cli.setupLogging(stderr); err != nil {
		diag.ShowError(stderr, err)
		return 2
	}
	e := &env{ctx: ctx, stdin: stdin, stdout: stdout, stderr: stderr}
	if err := kctx.Run(&cli, e); err != nil {
		diag.ShowError(stderr, err)
		return 1
	}
	return 0
}

func (c *CLI) setupLogging(stderr io.Writer) error {
	if c.Verbose {
		logutil.SetLevel(slog.LevelDebug)
	} else {
		logutil.SetLevel(slog.LevelInfo)
	}
	switch {
	case c.Log != "":
		return logutil.SetOutputFile(c.Log)
	case c.Verbose:
		logutil.SetOutput(stderr)
	default:
		logutil.SetOutput(io.Discard)
	}
	return nil
}

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", "path", c.Config, "format", cfg.Format)
	return cfg, nil
}
