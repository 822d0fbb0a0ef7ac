package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"src.jotdown.dev/pkg/testutil"
)

func TestKeyOf(t *testing.T) {
	k := KeyOf("html", []byte("a: 1"), "", "text")
	require.Equal(t, k, KeyOf("html", []byte("a: 1"), "", "text"))
	require.NotEqual(t, k, KeyOf("rtf", []byte("a: 1"), "", "text"))
	require.NotEqual(t, k, KeyOf("html", []byte("a: 1"), "", "text!"))
	// Moving bytes between parts changes the key.
	require.NotEqual(t, KeyOf("ab", nil, "", "c"), KeyOf("a", nil, "", "bc"))
	require.Len(t, k.String(), 64)
}

func TestOutput(t *testing.T) {
	st := MustTempStore(t)
	k := KeyOf("html", nil, "", "a")

	_, ok, err := st.Output(k)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, st.PutOutput("a.jd", k, "<p>a</p>"))
	out, ok, err := st.Output(k)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "<p>a</p>", out)
}

func TestPutOutput_EvictsPreviousOutputOfPath(t *testing.T) {
	st := MustTempStore(t)
	k1 := KeyOf("html", nil, "", "v1")
	k2 := KeyOf("html", nil, "", "v2")
	k3 := KeyOf("html", nil, "", "other")

	require.NoError(t, st.PutOutput("a.jd", k1, "1"))
	require.NoError(t, st.PutOutput("b.jd", k3, "3"))
	require.NoError(t, st.PutOutput("a.jd", k2, "2"))

	_, ok, err := st.Output(k1)
	require.NoError(t, err)
	require.False(t, ok)
	n, err := st.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Storing the same key again keeps it.
	require.NoError(t, st.PutOutput("a.jd", k2, "2"))
	_, ok, err = st.Output(k2)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPrune(t *testing.T) {
	st := MustTempStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	testutil.Set(t, &now, func() time.Time { return base })
	require.NoError(t, st.PutOutput("old.jd", KeyOf("jd", nil, "", "old"), "old"))
	testutil.Set(t, &now, func() time.Time { return base.Add(time.Hour) })
	require.NoError(t, st.PutOutput("new.jd", KeyOf("jd", nil, "", "new"), "new"))

	n, err := st.Prune(base.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, ok, _ := st.Output(KeyOf("jd", nil, "", "new"))
	require.True(t, ok)
	_, ok, _ = st.Output(KeyOf("jd", nil, "", "old"))
	require.False(t, ok)
}

func TestNewStore_Reopen(t *testing.T) {
	dbname := filepath.Join(t.TempDir(), "nested", "cache.db")
	k := KeyOf("html", nil, "", "a")

	st, err := NewStore(dbname)
	require.NoError(t, err)
	require.NoError(t, st.PutOutput("a.jd", k, "out"))
	require.NoError(t, st.Close())

	st, err = NewStore(dbname)
	require.NoError(t, err)
	defer st.Close()
	out, ok, err := st.Output(k)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "out", out)
}
