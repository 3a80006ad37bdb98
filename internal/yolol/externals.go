package yolol

import (
	"strings"

	"github.com/roach88/yololtest/internal/value"
)

// ExternalsMap assigns external variables to slots in the external buffer.
// Slots are handed out in order of first appearance during compilation.
//
// Names are case-insensitive and include the leading ':'.
type ExternalsMap struct {
	index map[string]int
	names []string
}

// NewExternalsMap returns an empty map.
func NewExternalsMap() *ExternalsMap {
	return &ExternalsMap{index: make(map[string]int)}
}

// Count is the number of external slots; the external buffer must be at
// least this long.
func (m *ExternalsMap) Count() int {
	return len(m.names)
}

// Contains reports whether name was referenced by a compiled program.
func (m *ExternalsMap) Contains(name string) bool {
	_, ok := m.index[normalizeName(name)]
	return ok
}

// Index returns the slot of name, or -1 when it is not mapped.
func (m *ExternalsMap) Index(name string) int {
	if i, ok := m.index[normalizeName(name)]; ok {
		return i
	}
	return -1
}

// ChangeSetKey returns the change detection key of name. Unmapped names get
// the empty key, which never matches a write.
func (m *ExternalsMap) ChangeSetKey(name string) value.ChangeSetKey {
	i := m.Index(name)
	if i < 0 {
		return 0
	}
	return keyForSlot(i)
}

// Names returns the mapped names in slot order.
func (m *ExternalsMap) Names() []string {
	return append([]string(nil), m.names...)
}

func (m *ExternalsMap) add(name string) int {
	name = normalizeName(name)
	if i, ok := m.index[name]; ok {
		return i
	}
	i := len(m.names)
	m.index[name] = i
	m.names = append(m.names, name)
	return i
}

// Slots share key bits modulo 64; a shared bit can only cause an extra
// early return, never a missed one.
func keyForSlot(i int) value.ChangeSetKey {
	return value.ChangeSetKey(1) << (uint(i) % 64)
}

func normalizeName(name string) string {
	return strings.ToLower(name)
}
