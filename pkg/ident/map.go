package ident

// Map is a case-insensitive map keyed by REXX identifiers. Keys are
// normalized on every access, and the most recent original spelling of each
// key is kept so diagnostics can echo what the program actually wrote.
type Map[T any] struct {
	entries map[string]mapEntry[T]
}

type mapEntry[T any] struct {
	origKey string
	value   T
}

// NewMap creates an empty Map.
func NewMap[T any]() *Map[T] {
	return &Map[T]{entries: make(map[string]mapEntry[T])}
}

// NewMapWithCapacity creates an empty Map sized for n entries.
func NewMapWithCapacity[T any](n int) *Map[T] {
	return &Map[T]{entries: make(map[string]mapEntry[T], n)}
}

// Set stores value under the normalized form of key, remembering the
// original spelling. An existing entry is overwritten.
func (m *Map[T]) Set(key string, value T) {
	m.entries[Normalize(key)] = mapEntry[T]{origKey: key, value: value}
}

// Get retrieves the value stored under key, matching case-insensitively.
func (m *Map[T]) Get(key string) (T, bool) {
	e, ok := m.entries[Normalize(key)]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Has reports whether key is present, matching case-insensitively.
func (m *Map[T]) Has(key string) bool {
	_, ok := m.entries[Normalize(key)]
	return ok
}

// Delete removes the entry for key, matching case-insensitively.
func (m *Map[T]) Delete(key string) {
	delete(m.entries, Normalize(key))
}

// Len returns the number of entries.
func (m *Map[T]) Len() int {
	return len(m.entries)
}

// GetOriginalKey returns the spelling the key was last stored with,
// or the empty string if the key is absent.
func (m *Map[T]) GetOriginalKey(key string) string {
	e, ok := m.entries[Normalize(key)]
	if !ok {
		return ""
	}
	return e.origKey
}

// Range calls f for each entry with the original key spelling and the value.
// Iteration stops early if f returns false. Order is unspecified.
func (m *Map[T]) Range(f func(key string, value T) bool) {
	for _, e := range m.entries {
		if !f(e.origKey, e.value) {
			return
		}
	}
}

// Keys returns the original spellings of all keys. Order is unspecified.
func (m *Map[T]) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		keys = append(keys, e.origKey)
	}
	return keys
}
