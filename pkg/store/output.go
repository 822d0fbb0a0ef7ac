package store

import (
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// Key -> timestamp followed by the output.
	bucketOutput = "output"
	// Source path -> key of its latest output.
	bucketSource = "source"
)

func init() {
	initDB["initialize output table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketOutput))
		return err
	}
	initDB["initialize source table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSource))
		return err
	}
}

// Can be overridden in tests.
var now = time.Now

func (s *dbStore) Output(key Key) (string, bool, error) {
	var (
		output string
		ok     bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketOutput)).Get(key[:])
		if v == nil {
			return nil
		}
		_, output, ok = unmarshalOutput(v)
		return nil
	})
	return output, ok, err
}

func (s *dbStore) PutOutput(path string, key Key, output string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		outputs := tx.Bucket([]byte(bucketOutput))
		sources := tx.Bucket([]byte(bucketSource))
		if old := sources.Get([]byte(path)); old != nil && string(old) != string(key[:]) {
			if err := outputs.Delete(old); err != nil {
				return err
			}
		}
		if err := sources.Put([]byte(path), key[:]); err != nil {
			return err
		}
		return outputs.Put(key[:], marshalOutput(now(), output))
	})
}

func (s *dbStore) Prune(before time.Time) (int, error) {
	var n int
	err := s.db.Update(func(tx *bolt.Tx) error {
		outputs := tx.Bucket([]byte(bucketOutput))
		var stale [][]byte
		c := outputs.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if t, _, ok := unmarshalOutput(v); !ok || t.Before(before) {
				// Deleting under a cursor skips the next entry.
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := outputs.Delete(k); err != nil {
				return err
			}
		}
		n = len(stale)
		return nil
	})
	if n > 0 {
		logger.Info("pruned outputs", "count", n)
	}
	return n, err
}

func (s *dbStore) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketOutput)).Stats().KeyN
		return nil
	})
	return n, err
}

func marshalOutput(t time.Time, output string) []byte {
	b := make([]byte, 8, 8+len(output))
	binary.BigEndian.PutUint64(b, uint64(t.UnixNano()))
	return append(b, output...)
}

func unmarshalOutput(v []byte) (time.Time, string, bool) {
	if len(v) < 8 {
		return time.Time{}, "", false
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(v))), string(v[8:]), true
}
