package machine

import "github.com/dolthub/swiss"

// Stash is the runtime-managed integer-keyed map manipulated exclusively by
// the stash_add/stash_get/stash_delete built-ins (spec.md §3). It is
// backed by github.com/dolthub/swiss, the exact library the teacher's own
// lang/machine.Map type uses for its Value-keyed map (lang/machine/map.go)
// — here specialized to the int64-to-int64 shape spec.md's Stash actually
// needs, since this runtime has no general Value type.
type Stash struct {
	m *swiss.Map[int64, int64]
}

// NewStash returns an empty Stash.
func NewStash() *Stash {
	return &Stash{m: swiss.NewMap[int64, int64](0)}
}

// Add sets stash[key] = value.
func (s *Stash) Add(key, value int64) {
	s.m.Put(key, value)
}

// Get returns stash[key] and whether it was present.
func (s *Stash) Get(key int64) (int64, bool) {
	return s.m.Get(key)
}

// Delete removes stash[key] and reports whether it was present.
func (s *Stash) Delete(key int64) bool {
	if _, ok := s.m.Get(key); !ok {
		return false
	}
	s.m.Delete(key)
	return true
}
