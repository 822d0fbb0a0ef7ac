package store

import (
	"os"
	"path/filepath"
)

// TempDirer wraps the TempDir method. It is a subset of [testing.TB].
type TempDirer interface {
	TempDir() string
}

// Cleanuper wraps the Cleanup method. It is a subset of [testing.TB].
type Cleanuper interface {
	Cleanup(func())
}

// MustTempStore returns a Store backed by a file in a temporary directory,
// which is closed when the test finishes. It panics on error.
func MustTempStore(t interface {
	TempDirer
	Cleanuper
}) Store {
	st, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		panic(err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			os.Stderr.WriteString("failed to close store: " + err.Error() + "\n")
		}
	})
	return st
}
