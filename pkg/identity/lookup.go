package identity

import (
	"cmp"
	"slices"

	"github.com/pseudomuto/snapdiff/pkg/object"
)

// Buckets files objects of one type under their hash keys.
type Buckets map[string][]object.Object

// File adds o under each of its hash keys.
func (c *Comparator) File(b Buckets, o object.Object) {
	for _, key := range c.Hash(o) {
		b[key] = append(b[key], o)
	}
}

// Find returns the object in b that is the same as example, or nil when
// there is none. Candidate sets are searched smallest first.
//
// Example:
//
//	found, err := comparator.Find(buckets, &object.Table{Name: "users"})
func (c *Comparator) Find(b Buckets, example object.Object) (object.Object, error) {
	if err := c.Validate(example); err != nil {
		return nil, err
	}

	var sets [][]object.Object
	for _, key := range c.Hash(example) {
		if set, ok := b[key]; ok && len(set) > 0 {
			sets = append(sets, set)
		}
	}

	slices.SortStableFunc(sets, func(x, y []object.Object) int {
		return cmp.Compare(len(x), len(y))
	})

	for _, set := range sets {
		for _, candidate := range set {
			if c.IsSameObject(example, candidate) {
				return candidate, nil
			}
		}
	}

	return nil, nil
}
