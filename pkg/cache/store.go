package cache

import "github.com/pseudomuto/snapdiff/pkg/database"

// Store hands out one Cache per metadata kind.
type Store struct {
	dialect *database.Dialect
	opts    []Option
	caches  map[string]*Cache
}

// NewStore creates an empty store. Options apply to every cache it creates.
func NewStore(d *database.Dialect, opts ...Option) *Store {
	return &Store{
		dialect: d,
		opts:    opts,
		caches:  make(map[string]*Cache),
	}
}

// For returns the cache for name, creating it on first use.
func (s *Store) For(name string) *Cache {
	c, ok := s.caches[name]
	if !ok {
		c = New(name, s.dialect, s.opts...)
		s.caches[name] = c
	}
	return c
}

// Stats returns per-cache query counts.
func (s *Store) Stats() map[string]Stats {
	out := make(map[string]Stats, len(s.caches))
	for name, c := range s.caches {
		out[name] = c.Stats()
	}
	return out
}
