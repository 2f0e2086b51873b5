package dag

import "sort"

// Set is a set of workflow keys.
type Set map[string]struct{}

// NewSet builds a Set from the given keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, key := range keys {
		s.Add(key)
	}
	return s
}

// Add inserts key into the set.
func (s Set) Add(key string) {
	s[key] = struct{}{}
}

// AddAll inserts every key of other into the set.
func (s Set) AddAll(other Set) {
	for key := range other {
		s[key] = struct{}{}
	}
}

// Has reports whether key is in the set.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Intersects reports whether the two sets share at least one key.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for key := range small {
		if large.Has(key) {
			return true
		}
	}
	return false
}

// Sorted returns the set's keys in lexicographic order. It always returns a
// non-nil slice so callers can hand it straight to JSON encoding.
func (s Set) Sorted() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
