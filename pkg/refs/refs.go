// Package refs implements the registry of reference definitions and
// citations of a document.
//
// A key enters the registry either when it is cited with [text][key] or when
// it is defined with [key]: target. Citing an unknown key inserts a
// placeholder entry; defining a key resolves it, overwriting any earlier
// definition. All methods are safe for concurrent use.
package refs

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"src.jotdown.dev/pkg/ast"
)

// Entry is one reference.
type Entry struct {
	Key string
	// Parsed inline content of the definition.
	Content []*ast.Node
	// Raw target text of the definition.
	Target string
	// Line of the definition, or of the first citation for a placeholder.
	Line int
	// Whether the key has been defined. An entry that has only been cited is
	// a placeholder.
	Defined bool
	// Whether the key has been cited.
	Cited bool
}

// Registry maps reference keys to entries, remembering the order in which
// keys were first seen and first cited.
type Registry struct {
	mu            sync.RWMutex
	entries       *linkedhashmap.Map
	cited         []string
	redefinitions []Redefinition
}

// Redefinition records a definition that replaced an earlier one.
type Redefinition struct {
	Key      string
	Line     int
	Previous int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: linkedhashmap.New()}
}

// Cite records a citation of key on the given line. Citing a key is
// idempotent and never changes its definition.
func (r *Registry) Cite(key string, line int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.get(key)
	if !ok {
		e = Entry{Key: key, Line: line}
	}
	if !e.Cited {
		e.Cited = true
		r.cited = append(r.cited, key)
	}
	r.entries.Put(key, e)
}

// Define resolves key to the given content and target. A later definition of
// the same key replaces an earlier one.
func (r *Registry) Define(key string, content []*ast.Node, target string, line int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, _ := r.get(key)
	if e.Defined {
		r.redefinitions = append(r.redefinitions, Redefinition{key, line, e.Line})
	}
	r.entries.Put(key, Entry{
		Key: key, Content: content, Target: target, Line: line,
		Defined: true, Cited: e.Cited,
	})
}

// Lookup returns the entry for key.
func (r *Registry) Lookup(key string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(key)
}

func (r *Registry) get(key string) (Entry, bool) {
	v, ok := r.entries.Get(key)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Len returns the number of keys in the registry.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries.Size()
}

// Ordinal returns the 1-based citation number of key, or 0 if key is not in
// the registry. Cited keys are numbered in the order of their first
// citation, followed by keys that are only defined, in the order they were
// first seen.
func (r *Registry) Ordinal(key string) int {
	for i, e := range r.Entries() {
		if e.Key == key {
			return i + 1
		}
	}
	return 0
}

// Entries returns all entries ordered by their citation number.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, r.entries.Size())
	for _, key := range r.cited {
		e, _ := r.get(key)
		entries = append(entries, e)
	}
	it := r.entries.Iterator()
	for it.Next() {
		if e := it.Value().(Entry); !e.Cited {
			entries = append(entries, e)
		}
	}
	return entries
}

// Unresolved returns the entries that have been cited but never defined, in
// citation order.
func (r *Registry) Unresolved() []Entry {
	var unresolved []Entry
	for _, e := range r.Entries() {
		if !e.Defined {
			unresolved = append(unresolved, e)
		}
	}
	return unresolved
}

// Redefinitions returns the definitions that replaced an earlier definition
// of the same key, in the order they happened.
func (r *Registry) Redefinitions() []Redefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Redefinition(nil), r.redefinitions...)
}
