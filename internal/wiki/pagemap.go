package wiki

// PageMap maps a document's original relative path to its flat page name.
// Iteration order is insertion order; link resolution depends on it.
type PageMap struct {
	keys  []string
	names map[string]string
}

// NewPageMap creates an empty PageMap.
func NewPageMap() *PageMap {
	return &PageMap{names: make(map[string]string)}
}

// PageMapOf builds a PageMap from alternating path, name pairs.
func PageMapOf(pairs ...string) *PageMap {
	m := NewPageMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set records or replaces the page name for path. Replacing keeps the original position.
func (m *PageMap) Set(path, name string) {
	if _, ok := m.names[path]; !ok {
		m.keys = append(m.keys, path)
	}
	m.names[path] = name
}

// Get returns the page name recorded for path.
func (m *PageMap) Get(path string) (string, bool) {
	if m == nil {
		return "", false
	}
	name, ok := m.names[path]
	return name, ok
}

// Delete removes path from the map.
func (m *PageMap) Delete(path string) {
	if _, ok := m.names[path]; !ok {
		return
	}
	delete(m.names, path)
	for i, k := range m.keys {
		if k == path {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *PageMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Paths returns the original paths in insertion order.
func (m *PageMap) Paths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *PageMap) Range(fn func(path, name string) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.names[k]) {
			return
		}
	}
}

// HasName reports whether any entry maps to name.
func (m *PageMap) HasName(name string) bool {
	found := false
	m.Range(func(_, n string) bool {
		found = n == name
		return !found
	})
	return found
}
