package mapping

// BiMap is a bidirectional mapping: a forward UniqueMap (key → value) and an
// inverse UniqueMap (value → key) kept consistent under every mutation.
type BiMap[K comparable, V comparable] struct {
	forward *UniqueMap[K, V]
	inverse *UniqueMap[V, K]
}

// NewBiMap creates an empty BiMap.
func NewBiMap[K comparable, V comparable]() *BiMap[K, V] {
	return &BiMap[K, V]{
		forward: NewUniqueMap[K, V](),
		inverse: NewUniqueMap[V, K](),
	}
}

// Set maps key to value in both directions.
//
// Any existing entry for key and any existing entry for value are removed
// (together with their counterparts) before the new pair is inserted.
func (b *BiMap[K, V]) Set(key K, value V) {
	if old, ok := b.forward.Get(key); ok {
		if old == value {
			return
		}
		b.inverse.Delete(old)
		b.forward.Delete(key)
	}
	if owner, ok := b.inverse.Get(value); ok {
		b.forward.Delete(owner)
		b.inverse.Delete(value)
	}

	b.forward.Set(key, value)
	b.inverse.Set(value, key)
}

// Get returns the value mapped from key.
func (b *BiMap[K, V]) Get(key K) (V, bool) {
	return b.forward.Get(key)
}

// GetKey returns the key mapped to value.
func (b *BiMap[K, V]) GetKey(value V) (K, bool) {
	return b.inverse.Get(value)
}

// Contains reports whether key is present.
func (b *BiMap[K, V]) Contains(key K) bool {
	return b.forward.Contains(key)
}

// ContainsValue reports whether value is present.
func (b *BiMap[K, V]) ContainsValue(value V) bool {
	return b.inverse.Contains(value)
}

// Delete removes key and its value from both directions.
func (b *BiMap[K, V]) Delete(key K) {
	v, ok := b.forward.Get(key)
	if !ok {
		return
	}
	b.forward.Delete(key)
	b.inverse.Delete(v)
}

// DeleteValue removes value and its key from both directions.
func (b *BiMap[K, V]) DeleteValue(value V) {
	k, ok := b.inverse.Get(value)
	if !ok {
		return
	}
	b.Delete(k)
}

// Len returns the number of pairs.
func (b *BiMap[K, V]) Len() int {
	return b.forward.Len()
}

// Keys returns the keys in insertion order.
func (b *BiMap[K, V]) Keys() []K {
	return b.forward.Keys()
}

// Inverse returns a read-only view of the value → key direction.
func (b *BiMap[K, V]) Inverse() View[V, K] {
	return View[V, K]{m: b.inverse}
}

// View is a read-only view of a UniqueMap. It reflects later changes to the
// underlying map but cannot modify it.
type View[K comparable, V comparable] struct {
	m *UniqueMap[K, V]
}

// Get returns the value stored for key.
func (v View[K, V]) Get(key K) (V, bool) {
	return v.m.Get(key)
}

// Contains reports whether key is present.
func (v View[K, V]) Contains(key K) bool {
	return v.m.Contains(key)
}

// Len returns the number of entries.
func (v View[K, V]) Len() int {
	return v.m.Len()
}

// Keys returns a copy of the keys in insertion order.
func (v View[K, V]) Keys() []K {
	return v.m.Keys()
}
