// Package store implements the persistent compile cache.
//
// The cache is a bbolt database mapping the key of a compilation, derived
// from the output format, the options and the source text, to its output.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"src.jotdown.dev/pkg/logutil"
)

var logger = logutil.GetLogger("store")

// Store is the interface of the compile cache.
type Store interface {
	// Output returns the cached output for key, and whether there is one.
	Output(key Key) (string, bool, error)
	// PutOutput caches the output for key, compiled from the source at path.
	// An earlier output compiled from the same path is evicted.
	PutOutput(path string, key Key, output string) error
	// Prune evicts outputs stored before the given time, returning how many
	// were evicted.
	Prune(before time.Time) (int, error)
	// Len returns the number of cached outputs.
	Len() (int, error)
	Close() error
}

// Key identifies a compilation.
type Key [sha256.Size]byte

// KeyOf derives the key of compiling source in the given format with the
// given serialized options and stylesheet.
func KeyOf(format string, options []byte, style, source string) Key {
	h := sha256.New()
	for _, part := range [][]byte{[]byte(format), options, []byte(style), []byte(source)} {
		// Length prefixes keep the parts from running into each other.
		fmt.Fprintf(h, "%d:", len(part))
		h.Write(part)
	}
	var k Key
	h.Sum(k[:0])
	return k
}

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Functions run when a database is opened, indexed by description.
var initDB = map[string](func(*bolt.Tx) error){}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the database at dbname, creating it and its parent
// directory if needed.
func NewStore(dbname string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbname), 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a Store backed by an open database.
func NewStoreFromDB(db *bolt.DB) (Store, error) {
	logger.Debug("initializing store", "path", db.Path())
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &dbStore{db: db}, nil
}

func (s *dbStore) Close() error {
	return s.db.Close()
}
