// Package config loads the YAML configuration of the jotdown compiler.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"src.jotdown.dev/pkg/render"
	"src.jotdown.dev/pkg/tmpl"
)

// Config keeps the options that control how documents are compiled.
type Config struct {
	Format render.Format `yaml:"format"`
	// Path of a stylesheet or template replacing the default of the format.
	Stylesheet      string `yaml:"stylesheet"`
	EmbedStylesheet bool   `yaml:"embed-stylesheet"`
	CitationStyle   bool   `yaml:"citation-style"`
	// Whether links to .jd files are rewritten to the output extension.
	RewriteLinks bool `yaml:"rewrite-links"`

	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Institution string `yaml:"institution"`

	// Path of the compile cache database. Empty disables the cache.
	Cache string `yaml:"cache"`
}

// Can be overridden in tests.
var (
	currentUser = user.Current
	hostname    = os.Hostname
	configDir   = os.UserConfigDir
	cacheDir    = os.UserCacheDir
)

// Default returns the configuration used when no file sets an option.
func Default() Config {
	cfg := Config{Format: render.HTML, EmbedStylesheet: true}
	if u, err := currentUser(); err == nil {
		cfg.Author = u.Username
		if u.Name != "" {
			cfg.Author = u.Name
		}
	}
	if h, err := hostname(); err == nil {
		cfg.Institution = h
	}
	if dir, err := cacheDir(); err == nil {
		cfg.Cache = filepath.Join(dir, "jotdown", "cache.db")
	}
	return cfg
}

// DefaultPath returns the path of the configuration file used when none is
// given.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jotdown", "config.yaml"), nil
}

// Load reads the configuration file at path on top of the defaults. An empty
// path selects DefaultPath, which may not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	defaulted := path == ""
	if defaulted {
		p, err := DefaultPath()
		if err != nil {
			return &cfg, nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if defaulted && errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// RenderContext builds the emission context described by the configuration,
// loading the stylesheet or template if one is set.
func (c *Config) RenderContext() (*render.Context, error) {
	ctx := &render.Context{
		Stylesheet:      c.Stylesheet,
		EmbedStylesheet: c.EmbedStylesheet,
		CitationStyle:   c.CitationStyle,
		Title:           c.Title,
		Author:          c.Author,
		Institution:     c.Institution,
	}
	// A linked stylesheet is not read.
	if c.Format != render.HTML || c.EmbedStylesheet {
		style, err := tmpl.Load(c.Stylesheet, c.Format.String())
		if err != nil {
			return nil, err
		}
		ctx.Style = style
	}
	if c.RewriteLinks {
		ctx.RewriteLink = render.ExtRewriter(c.Format.Ext())
	}
	return ctx, nil
}

// Fingerprint returns a stable serialization of the options that affect the
// output, for use as part of a cache key.
func (c *Config) Fingerprint() []byte {
	fp := *c
	fp.Cache = ""
	data, err := yaml.Marshal(&fp)
	if err != nil {
		// Marshaling a struct of strings and bools cannot fail.
		panic(err)
	}
	return data
}
