package value

// Table is a string-keyed mapping that preserves insertion order, matching
// the language's requirement that table iteration see keys in the order
// they were first set.
type Table struct {
	keys []string
	vals map[string]Value
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{vals: make(map[string]Value)}
}

// Len returns the number of keys.
func (t *Table) Len() int { return len(t.keys) }

// Get returns the value for key, or Nil if absent.
func (t *Table) Get(key string) Value {
	v, ok := t.vals[key]
	if !ok {
		return Nil
	}
	return v
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.vals[key]
	return ok
}

// Set assigns key to v, appending key to the insertion order on first
// write. Returns true if this was a new key (the caller may want to charge
// the allocator for the extra key slot).
func (t *Table) Set(key string, v Value) bool {
	_, existed := t.vals[key]
	if !existed {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
	return !existed
}

// Delete removes key, compacting the order slice.
func (t *Table) Delete(key string) {
	if _, ok := t.vals[key]; !ok {
		return
	}
	delete(t.vals, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}
