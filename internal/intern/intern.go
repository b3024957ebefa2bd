// Package intern canonicalizes repeated parser strings (parameter names,
// type tags, command names) so that alias lookups during a parse reuse one
// backing allocation per distinct name.
package intern

import (
	"sync"
	"unsafe"
)

// Table is a thread-safe string interning table.
type Table struct {
	entries map[string]string
	mu      sync.RWMutex
}

// New returns a Table with room for about capacity entries.
func New(capacity int) *Table {
	if capacity <= 0 {
		capacity = 64
	}
	return &Table{entries: make(map[string]string, capacity)}
}

// Get returns the canonical copy of s, storing s on first sight.
func (t *Table) Get(s string) string {
	t.mu.RLock()
	if canon, ok := t.entries[s]; ok {
		t.mu.RUnlock()
		return canon
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if canon, ok := t.entries[s]; ok {
		return canon
	}
	t.entries[s] = s
	return s
}

// GetBytes interns a byte slice, converting without allocation for the
// lookup. The caller must not mutate b after the call.
func (t *Table) GetBytes(b []byte) string {
	return t.Get(bytesToString(b))
}

// GetByte interns a single byte, served from a fixed table for the
// alphanumeric range short aliases live in.
func (t *Table) GetByte(b byte) string {
	switch {
	case b >= 'a' && b <= 'z':
		return singleChars[b-'a']
	case b >= 'A' && b <= 'Z':
		return singleChars[26+b-'A']
	case b >= '0' && b <= '9':
		return singleChars[52+b-'0']
	}
	return t.Get(string(rune(b)))
}

// Seed stores every string in ss ahead of time.
func (t *Table) Seed(ss []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range ss {
		t.entries[s] = s
	}
}

// Len reports the number of interned strings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Reset drops every entry while keeping the map's capacity.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.entries {
		delete(t.entries, k)
	}
}

// a-z (0-25), A-Z (26-51), 0-9 (52-61)
var singleChars = [62]string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
}

// CommonNames seeds the default table with names and type tags that show
// up in nearly every declaration set.
var CommonNames = []string{
	"help", "h", "H", "verbose", "v", "quiet", "q", "version",
	"int", "float", "str", "bool", "auto", "count", "path", "py",
	"json", "choice", "list", "ns", "reset", "file", "config",
	"i", "f", "s", "b", "c", "l", "p", "j", "r", "_",
}

func bytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// Default is the shared table used by the parser; seeded at startup with
// CommonNames.
var Default *Table

//nolint:gochecknoinits // the shared table must be seeded before first use
func init() {
	Default = New(128)
	Default.Seed(CommonNames)
}

// Get interns s in the shared table.
func Get(s string) string {
	return Default.Get(s)
}

// GetBytes interns b in the shared table.
func GetBytes(b []byte) string {
	return Default.GetBytes(b)
}

// GetByte interns b in the shared table.
func GetByte(b byte) string {
	return Default.GetByte(b)
}
