// Package testutil contains common test utilities.
package testutil

import (
	"path/filepath"
)

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type Cleanuper interface {
	Cleanup(func())
}

// TempDirer wraps the TempDir method. It is a subset of [testing.TB], thus
// satisfied by [*testing.T] and [*testing.B].
type TempDirer interface {
	TempDir() string
}

// Dir describes the layout of a directory. Values are either a string for a
// file's content, or a nested Dir.
type Dir map[string]any

// TempTree creates a temporary directory populated with the given layout,
// and returns its path. The directory is removed when the test finishes.
func TempTree(t TempDirer, layout Dir) string {
	dir := t.TempDir()
	ApplyDir(dir, layout)
	return dir
}

// ApplyDir creates the given layout under root. It panics on error.
func ApplyDir(root string, layout Dir) {
	for name, content := range layout {
		path := filepath.Join(root, name)
		switch content := content.(type) {
		case string:
			MustWriteFile(path, content)
		case Dir:
			MustMkdirAll(path)
			ApplyDir(path, content)
		default:
			panic("file content must be string or Dir")
		}
	}
}
