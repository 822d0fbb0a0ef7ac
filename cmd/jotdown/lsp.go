package main

import (
	"io"

	"src.jotdown.dev/pkg/lsp"
)

// LSPCmd runs the language server.
type LSPCmd struct{}

// Run serves the language server protocol on stdin and stdout.
func (*LSPCmd) Run(e *env) error {
	return lsp.Serve(e.ctx, io.NopCloser(e.stdin), nopWriteCloser{e.stdout})
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
