package mapping

// UniqueMap is a mapping from key to value where values are unique.
//
// Keys are reported in insertion order. Re-assigning an existing key keeps its
// original position.
type UniqueMap[K comparable, V comparable] struct {
	values map[K]V
	owners map[V]K
	order  []K
}

// NewUniqueMap creates an empty UniqueMap.
func NewUniqueMap[K comparable, V comparable]() *UniqueMap[K, V] {
	return &UniqueMap[K, V]{
		values: make(map[K]V),
		owners: make(map[V]K),
	}
}

// Set assigns value to key.
//
// If value is already held by a different key, that key is removed first.
// If key already holds a different value, the old value is released.
// Setting a pair that is already present is a no-op.
func (m *UniqueMap[K, V]) Set(key K, value V) {
	if owner, ok := m.owners[value]; ok {
		if owner == key {
			return
		}
		m.Delete(owner)
	}

	if old, ok := m.values[key]; ok {
		delete(m.owners, old)
	} else {
		m.order = append(m.order, key)
	}

	m.values[key] = value
	m.owners[value] = key
}

// Get returns the value held by key.
func (m *UniqueMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// KeyOf returns the key currently holding value.
func (m *UniqueMap[K, V]) KeyOf(value V) (K, bool) {
	k, ok := m.owners[value]
	return k, ok
}

// Contains reports whether key is present.
func (m *UniqueMap[K, V]) Contains(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes key and releases its value. Deleting an absent key is a no-op.
func (m *UniqueMap[K, V]) Delete(key K) {
	v, ok := m.values[key]
	if !ok {
		return
	}
	delete(m.values, key)
	delete(m.owners, v)

	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *UniqueMap[K, V]) Len() int {
	return len(m.values)
}

// Keys returns the keys in insertion order.
func (m *UniqueMap[K, V]) Keys() []K {
	keys := make([]K, len(m.order))
	copy(keys, m.order)
	return keys
}
