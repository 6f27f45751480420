// Package symbols provides the symbol model and symbol tables.
package symbols

import (
	"cmp"
	"sort"

	"github.com/retroenv/retrogolib/set"
)

// Manager provides generic item tracking with a used marker per key.
// K is the lookup key and T the type of item being managed.
type Manager[K cmp.Ordered, T any] struct {
	items map[K]T
	used  set.Set[K]
}

// NewManager creates a new item manager.
func NewManager[K cmp.Ordered, T any]() *Manager[K, T] {
	return &Manager[K, T]{
		items: make(map[K]T),
		used:  set.New[K](),
	}
}

// Get returns the item for the given key.
func (m *Manager[K, T]) Get(key K) (T, bool) {
	item, ok := m.items[key]
	return item, ok
}

// Set sets the item for the given key.
func (m *Manager[K, T]) Set(key K, item T) {
	m.items[key] = item
}

// Has returns whether an item exists for the given key.
func (m *Manager[K, T]) Has(key K) bool {
	_, ok := m.items[key]
	return ok
}

// Len returns the number of items in the manager.
func (m *Manager[K, T]) Len() int {
	return len(m.items)
}

// Keys returns all keys in ascending order.
func (m *Manager[K, T]) Keys() []K {
	keys := make([]K, 0, len(m.items))
	for key := range m.items {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// SortedBy returns all items as a slice sorted by the given less function.
// Items that compare equal keep the order of their keys.
func (m *Manager[K, T]) SortedBy(less func(a, b T) bool) []T {
	keys := m.Keys()
	items := make([]T, 0, len(keys))
	for _, key := range keys {
		items = append(items, m.items[key])
	}
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
	return items
}

// MarkUsed marks a key as used.
func (m *Manager[K, T]) MarkUsed(key K) {
	m.used.Add(key)
}

// IsUsed returns whether a key is marked as used.
func (m *Manager[K, T]) IsUsed(key K) bool {
	return m.used.Contains(key)
}
