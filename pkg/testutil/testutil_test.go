package testutil

import (
	"path/filepath"
	"testing"
)

func TestTempTree(t *testing.T) {
	dir := TempTree(t, Dir{
		"a.jd": "# Title",
		"sub": Dir{
			"b.jd": "text",
		},
	})
	if got := MustReadFile(filepath.Join(dir, "a.jd")); got != "# Title" {
		t.Errorf("a.jd has %q", got)
	}
	if got := MustReadFile(filepath.Join(dir, "sub", "b.jd")); got != "text" {
		t.Errorf("sub/b.jd has %q", got)
	}
}

var setValue = 1

func TestSet(t *testing.T) {
	t.Run("inner", func(t *testing.T) {
		Set(t, &setValue, 2)
		if setValue != 2 {
			t.Errorf("setValue = %d during test", setValue)
		}
	})
	if setValue != 1 {
		t.Errorf("setValue = %d after test, want 1", setValue)
	}
}
