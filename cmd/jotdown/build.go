package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"src.jotdown.dev/pkg/config"
	"src.jotdown.dev/pkg/parse"
	"src.jotdown.dev/pkg/render"
	"src.jotdown.dev/pkg/store"
)

// RenderFlags override options of the configuration file.
type RenderFlags struct {
	Format       string `short:"f" help:"Output format: html, rtf, latex, jd, trace or mathml."`
	Stylesheet   string `short:"s" type:"path" help:"Stylesheet (HTML, RTF) or template (LaTeX) replacing the default."`
	Link         bool   `help:"Link the HTML stylesheet instead of embedding it."`
	Citations    bool   `help:"Render citations as numbered references with a reference list."`
	RewriteLinks bool   `help:"Rewrite links to .jd files to the output extension."`
	Title        string `help:"Document title."`
	Author       string `help:"Document author."`
	Institution  string `help:"Author's institution."`
	NoCache      bool   `help:"Neither read nor write the compile cache."`
}

func (f *RenderFlags) apply(cfg *config.Config) error {
	if f.Format != "" {
		format, err := render.ParseFormat(f.Format)
		if err != nil {
			return err
		}
		cfg.Format = format
	}
	if f.Stylesheet != "" {
		cfg.Stylesheet = f.Stylesheet
	}
	if f.Link {
		cfg.EmbedStylesheet = false
	}
	cfg.CitationStyle = cfg.CitationStyle || f.Citations
	cfg.RewriteLinks = cfg.RewriteLinks || f.RewriteLinks
	setIf(&cfg.Title, f.Title)
	setIf(&cfg.Author, f.Author)
	setIf(&cfg.Institution, f.Institution)
	if f.NoCache {
		cfg.Cache = ""
	}
	return nil
}

func setIf(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// BuildCmd compiles documents once.
type BuildCmd struct {
	RenderFlags `embed:""`
	Output string   `short:"o" help:"Output file, or - for stdout. Only valid with a single input. Defaults to the input with the extension of the format."`
	Files  []string `arg:"" type:"existingfile" help:"Documents to compile."`
}

// Run compiles every file, continuing after errors, and returns the first
// error.
func (b *BuildCmd) Run(cli *CLI, e *env) error {
	if b.Output != "" && len(b.Files) > 1 {
		return errors.New("--output needs a single input file")
	}
	c, err := newCompiler(cli, &b.RenderFlags, e.stderr)
	if err != nil {
		return err
	}
	defer c.close()
	var first error
	for _, file := range b.Files {
		err := c.compileTo(file, b.Output, e.stdout)
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Compiles files with a fixed configuration.
type compiler struct {
	cfg *config.Config
	ctx *render.Context
	// Nil when caching is disabled.
	store    store.Store
	warnings io.Writer
}

func newCompiler(cli *CLI, flags *RenderFlags, warnings io.Writer) (*compiler, error) {
	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cfg); err != nil {
		return nil, err
	}
	ctx, err := cfg.RenderContext()
	if err != nil {
		return nil, err
	}
	c := &compiler{cfg: cfg, ctx: ctx, warnings: warnings}
	if cfg.Cache != "" {
		st, err := store.NewStore(cfg.Cache)
		if err != nil {
			logger.Warn("compile cache unavailable", "path", cfg.Cache, "err", err)
		} else {
			c.store = st
		}
	}
	return c, nil
}

func (c *compiler) close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Returns the default output path for a source file.
func (c *compiler) outputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + "." + c.cfg.Format.Ext()
}

// Compiles src and writes the result to dst, which defaults to outputPath
// and may be "-" for stdout.
func (c *compiler) compileTo(src, dst string, stdout io.Writer) error {
	out, err := c.compile(src)
	if err != nil {
		return err
	}
	switch dst {
	case "-":
		_, err = io.WriteString(stdout, out)
		return err
	case "":
		dst = c.outputPath(src)
		if dst == src {
			return fmt.Errorf("%s: output would overwrite the input; use --output", src)
		}
	}
	if err := os.WriteFile(dst, []byte(out), 0644); err != nil {
		return err
	}
	logger.Info("wrote output", "file", dst)
	return nil
}

func (c *compiler) compile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	code := string(data)
	var created time.Time
	if info, err := os.Stat(path); err == nil {
		created = info.ModTime()
	}

	var key store.Key
	if c.store != nil {
		options := c.cfg.Fingerprint()
		if c.cfg.Format == render.RTF {
			// RTF output records the creation time.
			options = append(options, created.UTC().Format(time.RFC3339Nano)...)
		}
		key = store.KeyOf(c.cfg.Format.String(), options, c.ctx.Style, code)
		out, ok, err := c.store.Output(key)
		if err != nil {
			logger.Warn("reading compile cache", "err", err)
		} else if ok {
			// Parse warnings are only reported when the source is parsed.
			logger.Info("cache hit", "file", path, "key", key)
			return out, nil
		}
	}

	tree, err := parse.Parse(parse.Source{Name: path, Code: code},
		parse.Config{WarningWriter: c.warnings})
	if err != nil {
		return "", err
	}
	ctx := *c.ctx
	ctx.Registry = tree.Refs
	ctx.Created = created
	out, err := render.Emit(tree.Root, c.cfg.Format, &ctx)
	if err != nil {
		return "", err
	}

	if c.store != nil {
		if err := c.store.PutOutput(path, key, out); err != nil {
			logger.Warn("writing compile cache", "err", err)
		}
	}
	return out, nil
}
