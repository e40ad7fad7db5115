// Package typeutil holds small generic helpers over maps and slices.
// All of them are total and never mutate their input.
package typeutil

import (
	"cmp"
	"slices"
)

// Entry is a key/value pair returned by TypedEntries.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// TypedKeys returns the keys of m in ascending order.
func TypedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// TypedEntries returns the entries of m ordered by key.
func TypedEntries[M ~map[K]V, K cmp.Ordered, V any](m M) []Entry[K, V] {
	entries := make([]Entry[K, V], 0, len(m))
	for _, k := range TypedKeys(m) {
		entries = append(entries, Entry[K, V]{Key: k, Value: m[k]})
	}
	return entries
}

// TypedIn reports whether key is present in m.
func TypedIn[M ~map[K]V, K comparable, V any](m M, key K) bool {
	_, ok := m[key]
	return ok
}

// TypedInclude reports whether v is an element of s.
func TypedInclude[S ~[]E, E comparable](s S, v E) bool {
	return slices.Contains(s, v)
}

// ToArray normalizes v to a slice: a []T is returned unchanged, a T becomes
// a one-element slice, anything else yields nil.
func ToArray[T any](v any) []T {
	switch x := v.(type) {
	case []T:
		return x
	case T:
		return []T{x}
	default:
		return nil
	}
}

// IsObjectEmpty reports whether m has no entries. A nil map is empty.
func IsObjectEmpty[M ~map[K]V, K comparable, V any](m M) bool {
	return len(m) == 0
}
