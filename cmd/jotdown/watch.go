package main

import (
	"time"

	"src.jotdown.dev/pkg/diag"
	"src.jotdown.dev/pkg/watch"
)

// WatchCmd compiles documents whenever they change.
type WatchCmd struct {
	RenderFlags `embed:""`
	Debounce    time.Duration `default:"200ms" help:"How long to wait after a change before compiling."`
	Files       []string      `arg:"" type:"existingfile" help:"Documents to compile and watch."`
}

// Run compiles every file, then recompiles files as they change until
// interrupted. Compile errors are shown and do not stop watching.
func (w *WatchCmd) Run(cli *CLI, e *env) error {
	c, err := newCompiler(cli, &w.RenderFlags, e.stderr)
	if err != nil {
		return err
	}
	defer c.close()

	compile := func(paths []string) {
		for _, path := range paths {
			if err := c.compileTo(path, "", e.stdout); err != nil {
				diag.ShowError(e.stderr, err)
			}
		}
	}
	compile(w.Files)

	watcher, err := watch.New(w.Files, w.Debounce, compile)
	if err != nil {
		return err
	}
	defer watcher.Close()
	logger.Info("watching", "files", w.Files)
	return watcher.Run(e.ctx)
}
