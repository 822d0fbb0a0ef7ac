// Package logutil provides logging utilities.
//
// All loggers obtained from GetLogger share one output, which discards
// everything until SetOutput or SetOutputFile is called.
package logutil

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu    sync.Mutex
	out   io.Writer = io.Discard
	level           = new(slog.LevelVar)
	// Opened by SetOutputFile.
	ownedFile *os.File
)

// sharedWriter forwards to the current output, so that SetOutput affects
// loggers created earlier.
type sharedWriter struct{}

func (sharedWriter) Write(p []byte) (int, error) {
	mu.Lock()
	w := out
	mu.Unlock()
	return w.Write(p)
}

// GetLogger gets a logger with the given component name.
func GetLogger(component string) *slog.Logger {
	h := slog.NewTextHandler(sharedWriter{}, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the new io.Writer. If the old output was a file opened by SetOutputFile,
// it is closed.
func SetOutput(newout io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(newout, nil)
}

func setOutput(newout io.Writer, owned *os.File) {
	if ownedFile != nil {
		ownedFile.Close()
	}
	out, ownedFile = newout, owned
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger
// to the named file. If the file doesn't exist, it is created. If the file
// does exist, log output is appended to it. An empty name discards the
// output.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	setOutput(file, file)
	return nil
}

// SetLevel sets the minimum level of all loggers.
func SetLevel(l slog.Level) {
	level.Set(l)
}
