package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"src.jotdown.dev/pkg/buildinfo"
	"src.jotdown.dev/pkg/must"
	"src.jotdown.dev/pkg/testutil"
)

type result struct {
	code           int
	stdout, stderr string
}

func runCLI(ctx context.Context, args ...string) result {
	var stdout, stderr bytes.Buffer
	code := run(ctx, args, strings.NewReader(""), &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

// Sets up a directory with a configuration file that disables the cache, and
// returns the directory and the arguments selecting the configuration.
func setup(t *testing.T, files testutil.Dir) (string, []string) {
	files["jotdown.yaml"] = "cache: ''\nauthor: Ann\ninstitution: Lab\n"
	dir := testutil.TempTree(t, files)
	return dir, []string{"-c", filepath.Join(dir, "jotdown.yaml")}
}

func TestBuild_Stdout(t *testing.T) {
	dir, args := setup(t, testutil.Dir{"a.jd": "Hello  *world*"})
	r := runCLI(context.Background(),
		append(args, "build", "-f", "jd", "-o", "-", filepath.Join(dir, "a.jd"))...)
	require.Equal(t, result{0, "Hello  *world*\n", ""}, r)
}

func TestBuild_DefaultOutputPath(t *testing.T) {
	dir, args := setup(t, testutil.Dir{"a.jd": "Hello *world*", "b.jd": "# B"})
	r := runCLI(context.Background(), append(args, "build",
		filepath.Join(dir, "a.jd"), filepath.Join(dir, "b.jd"))...)
	require.Equal(t, 0, r.code, r.stderr)

	a := must.ReadFileString(filepath.Join(dir, "a.html"))
	require.Contains(t, a, "Hello <em>world</em>")
	require.Contains(t, a, `<meta name="author" content="Ann">`)
	require.Contains(t, must.ReadFileString(filepath.Join(dir, "b.html")), `<h1 id="B">B</h1>`)
}

func TestBuild_FlagsOverrideConfig(t *testing.T) {
	dir, args := setup(t, testutil.Dir{"a.jd": "See [x](b.jd#s)."})
	r := runCLI(context.Background(), append(args, "build",
		"-f", "latex", "--rewrite-links", "--title", "Paper", filepath.Join(dir, "a.jd"))...)
	require.Equal(t, 0, r.code, r.stderr)

	out := must.ReadFileString(filepath.Join(dir, "a.tex"))
	require.Contains(t, out, `\title{Paper}`)
	require.Contains(t, out, `\author{Ann \\ Lab}`)
	require.Contains(t, out, `\href{b.tex\#s}{x}`)
}

func TestBuild_Errors(t *testing.T) {
	dir, args := setup(t, testutil.Dir{
		"bad.jd":  "fine\n\n**open",
		"good.jd": "ok",
		"cite.jd": "[a][missing]",
	})
	ctx := context.Background()

	r := runCLI(ctx, append(args, "build", filepath.Join(dir, "bad.jd"), filepath.Join(dir, "good.jd"))...)
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "missing closing tag for bold (**)")
	require.Contains(t, r.stderr, "bad.jd, line 3")
	// Compilation continues after an error.
	require.FileExists(t, filepath.Join(dir, "good.html"))

	r = runCLI(ctx, append(args, "build", filepath.Join(dir, "cite.jd"))...)
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, `missing definition for reference "missing"`)

	r = runCLI(ctx, append(args, "build", "-f", "pdf", filepath.Join(dir, "good.jd"))...)
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, `unknown format "pdf"`)

	r = runCLI(ctx, append(args, "build", "-o", "x", filepath.Join(dir, "good.jd"), filepath.Join(dir, "bad.jd"))...)
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "--output needs a single input file")

	r = runCLI(ctx, append(args, "build", filepath.Join(dir, "nope.jd"))...)
	require.Equal(t, 2, r.code)
}

func TestBuild_Cache(t *testing.T) {
	dir := testutil.TempTree(t, testutil.Dir{"a.jd": "cached *text*"})
	cfg := filepath.Join(dir, "jotdown.yaml")
	logFile := filepath.Join(dir, "log")
	must.WriteFile(cfg, "cache: "+filepath.Join(dir, "cache.db")+"\n")
	args := []string{"-c", cfg, "--log", logFile, "build", "-o", "-", filepath.Join(dir, "a.jd")}

	first := runCLI(context.Background(), args...)
	require.Equal(t, 0, first.code, first.stderr)
	require.NotContains(t, must.ReadFileString(logFile), "cache hit")

	second := runCLI(context.Background(), args...)
	require.Equal(t, first, second)
	require.Contains(t, must.ReadFileString(logFile), "cache hit")

	third := runCLI(context.Background(), append(args[:len(args)-1], "--no-cache", filepath.Join(dir, "a.jd"))...)
	require.Equal(t, first, third)
}

func TestBuild_CacheTracksRTFCreationTime(t *testing.T) {
	dir := testutil.TempTree(t, testutil.Dir{"a.jd": "cached *text*"})
	src := filepath.Join(dir, "a.jd")
	cfg := filepath.Join(dir, "jotdown.yaml")
	logFile := filepath.Join(dir, "log")
	must.WriteFile(cfg, "cache: "+filepath.Join(dir, "cache.db")+"\n")
	args := []string{"-c", cfg, "--log", logFile, "build", "-f", "rtf", "-o", "-", src}

	setModTime := func(mtime time.Time) {
		t.Helper()
		require.NoError(t, os.Chtimes(src, mtime, mtime))
	}
	setModTime(time.Date(2020, 1, 2, 3, 4, 0, 0, time.Local))
	first := runCLI(context.Background(), args...)
	require.Equal(t, 0, first.code, first.stderr)
	require.Contains(t, first.stdout, `\creatim\yr2020\mo1\dy2\hr3\min4`)

	setModTime(time.Date(2021, 5, 6, 7, 8, 0, 0, time.Local))
	second := runCLI(context.Background(), args...)
	require.Equal(t, 0, second.code, second.stderr)
	require.Contains(t, second.stdout, `\creatim\yr2021\mo5\dy6\hr7\min8`)
	require.NotContains(t, must.ReadFileString(logFile), "cache hit")

	third := runCLI(context.Background(), args...)
	require.Equal(t, second, third)
	require.Contains(t, must.ReadFileString(logFile), "cache hit")
}

func TestVersion(t *testing.T) {
	r := runCLI(context.Background(), "--version")
	require.Equal(t, 0, r.code)
	require.Equal(t, buildinfo.Value.Version+"\n", r.stdout)
}

func TestLSP_ExitsOnEOF(t *testing.T) {
	r := runCLI(context.Background(), "lsp")
	require.Equal(t, 0, r.code, r.stderr)
}

func TestWatch(t *testing.T) {
	dir, args := setup(t, testutil.Dir{"a.jd": "one"})
	src := filepath.Join(dir, "a.jd")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan result, 1)
	go func() {
		done <- runCLI(ctx, append(args, "watch", "--debounce", "50ms", src)...)
	}()

	outputHas := func(s string) func() bool {
		return func() bool {
			data, err := os.ReadFile(filepath.Join(dir, "a.html"))
			return err == nil && strings.Contains(string(data), s)
		}
	}
	require.Eventually(t, outputHas("one"), 5*time.Second, 20*time.Millisecond)

	// The watcher starts after the first compilation.
	time.Sleep(200 * time.Millisecond)
	must.WriteFile(src, "two")
	require.Eventually(t, outputHas("two"), 5*time.Second, 20*time.Millisecond)

	cancel()
	r := <-done
	require.Equal(t, 0, r.code, r.stderr)
}

func TestBuild_RefusesToOverwriteInput(t *testing.T) {
	dir, args := setup(t, testutil.Dir{"a.jd": "x"})
	r := runCLI(context.Background(), append(args, "build", "-f", "jd", filepath.Join(dir, "a.jd"))...)
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "output would overwrite the input")
	require.Equal(t, "x", must.ReadFileString(filepath.Join(dir, "a.jd")))
}
