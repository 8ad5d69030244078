// Package ident provides the shared string interner used across every
// phase of the core: identifiers, field names, trait names, and variant
// names all flow through here so that equality is a pointer-cheap integer
// comparison rather than a string comparison.
package ident

import (
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Name is an opaque handle into the interner. Handle 0 always denotes
// the empty string, which New pre-interns.
type Name uint32

// Empty is the interned handle for "".
const Empty Name = 0

// Interner is a process-lifetime, append-only string table. It is safe
// for concurrent use: per §5 of the core contract, a driver may read the
// interner from multiple compilation units concurrently even though any
// single core invocation only ever touches it from one goroutine.
type Interner struct {
	mu   sync.RWMutex
	strs []string
	ids  map[string]Name
}

// New creates an interner with "" pre-interned at Empty.
func New() *Interner {
	in := &Interner{
		strs: make([]string, 0, 64),
		ids:  make(map[string]Name, 64),
	}
	in.intern("")
	return in
}

// Intern normalizes s to NFC and returns its handle, interning it if this
// is the first time s has been seen.
func (in *Interner) Intern(s string) Name {
	normalized := norm.NFC.String(s)
	return in.intern(normalized)
}

func (in *Interner) intern(s string) Name {
	in.mu.RLock()
	if id, ok := in.ids[s]; ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := Name(len(in.strs))
	in.strs = append(in.strs, s)
	in.ids[s] = id
	return id
}

// Lookup returns the string for a handle. Panics on an out-of-range
// handle, which indicates a bug in the caller (names never outlive their
// interner within a session).
func (in *Interner) Lookup(n Name) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.strs[n]
}

// Len reports how many distinct strings have been interned, including "".
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strs)
}
