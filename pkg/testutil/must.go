package testutil

import (
	"os"
)

// MustMkdirAll calls os.MkdirAll and panics if an error is returned.
func MustMkdirAll(names ...string) {
	for _, name := range names {
		Must(os.MkdirAll(name, 0700))
	}
}

// MustWriteFile writes data to a file with mode 0600, and panics if an error
// occurs.
func MustWriteFile(filename, data string) {
	Must(os.WriteFile(filename, []byte(data), 0600))
}

// MustReadFile reads a file and panics if an error occurs.
func MustReadFile(filename string) string {
	bs, err := os.ReadFile(filename)
	Must(err)
	return string(bs)
}

// Must panics if the error value is not nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
