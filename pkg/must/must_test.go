package must

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOK(t *testing.T) {
	require.NotPanics(t, func() { OK(nil) })
	require.Panics(t, func() { OK(errors.New("bad")) })
	require.Equal(t, 3, OK1(3, nil))
	require.Panics(t, func() { OK1(3, errors.New("bad")) })
}

func TestWriteFile_CreatesParents(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a", "b", "c.jd")
	WriteFile(name, "# Title")
	require.Equal(t, "# Title", ReadFileString(name))
	require.Panics(t, func() { ReadFileString(filepath.Join(t.TempDir(), "missing")) })
}
