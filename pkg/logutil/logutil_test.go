package logutil

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLogger_FollowsSetOutput(t *testing.T) {
	logger := GetLogger("test")
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(io.Discard) })

	logger.Info("hello", "n", 1)
	require.Contains(t, buf.String(), "msg=hello")
	require.Contains(t, buf.String(), "component=test")
	require.Contains(t, buf.String(), "n=1")
}

func TestSetLevel(t *testing.T) {
	logger := GetLogger("level")
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(io.Discard); SetLevel(slog.LevelInfo) })

	logger.Debug("hidden")
	require.Empty(t, buf.String())
	SetLevel(slog.LevelDebug)
	logger.Debug("shown")
	require.Contains(t, buf.String(), "msg=shown")
}

func TestSetOutputFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "log")
	require.NoError(t, SetOutputFile(fname))
	GetLogger("file").Info("to file")
	require.NoError(t, SetOutputFile(""))

	content, err := os.ReadFile(fname)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(content), "to file"))
}
