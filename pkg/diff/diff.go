package diff

import (
	"log/slog"
	"slices"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/filter"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

type (
	// Options scopes a comparison.
	Options struct {
		// Types limits the compared object types. Empty compares all types.
		Types []object.Type

		// Filter drops objects from all three result sets. Catalogs and
		// schemas are only compared when the filter names their type.
		Filter *filter.Filter
	}

	// Change is an object present in both snapshots with differing fields.
	Change struct {
		Reference   object.Object
		Comparison  object.Object
		Differences []Difference
	}

	// Result holds the outcome of Compare.
	Result struct {
		Reference  *snapshot.Snapshot
		Comparison *snapshot.Snapshot

		compared   []object.Type
		missing    map[object.Type][]object.Object
		unexpected map[object.Type][]object.Object
		changed    map[object.Type][]*Change
	}
)

// Compare diffs reference against comparison. Missing objects are looked up
// with the comparison snapshot's identity rules and unexpected ones with the
// reference snapshot's.
//
// Example:
//
//	result, err := diff.Compare(reference, target, diff.Options{})
//	if err != nil {
//		return err
//	}
//	if result.IsEmpty() {
//		fmt.Println("databases match")
//	}
func Compare(reference, comparison *snapshot.Snapshot, opts Options) (*Result, error) {
	r := &Result{
		Reference:  reference,
		Comparison: comparison,
		missing:    make(map[object.Type][]object.Object),
		unexpected: make(map[object.Type][]object.Object),
		changed:    make(map[object.Type][]*Change),
	}

	for _, t := range object.Types() {
		if !inScope(t, opts) {
			continue
		}

		if err := r.compareType(t, opts.Filter); err != nil {
			return nil, err
		}
		r.compared = append(r.compared, t)
	}

	slog.Debug("Compared snapshots",
		"missing", countAll(r.missing),
		"unexpected", countAll(r.unexpected),
		"changed", countAll(r.changed),
	)

	return r, nil
}

func inScope(t object.Type, opts Options) bool {
	if len(opts.Types) > 0 && !slices.Contains(opts.Types, t) {
		return false
	}
	if t == object.TypeCatalog || t == object.TypeSchema {
		return opts.Filter.Mentions(t)
	}
	return true
}

func (r *Result) compareType(t object.Type, f *filter.Filter) error {
	for _, ref := range r.Reference.All(t) {
		if !f.Include(ref) {
			continue
		}

		match, err := r.Comparison.Get(ref)
		if err != nil {
			return errors.Wrapf(err, "failed to match %s %q", t, ref.GetName())
		}

		if match == nil {
			r.missing[t] = append(r.missing[t], ref)
			continue
		}

		if diffs := findDifferences(r.Reference.Dialect(), ref, match); len(diffs) > 0 {
			r.changed[t] = append(r.changed[t], &Change{Reference: ref, Comparison: match, Differences: diffs})
		}
	}

	for _, cmp := range r.Comparison.All(t) {
		if !f.Include(cmp) {
			continue
		}

		match, err := r.Reference.Get(cmp)
		if err != nil {
			return errors.Wrapf(err, "failed to match %s %q", t, cmp.GetName())
		}

		if match == nil {
			r.unexpected[t] = append(r.unexpected[t], cmp)
		}
	}

	return nil
}

// ComparedTypes returns the object types that were in scope.
func (r *Result) ComparedTypes() []object.Type {
	return slices.Clone(r.compared)
}

// Missing returns the objects of type t found only in the reference snapshot.
func (r *Result) Missing(t object.Type) []object.Object {
	return r.missing[t]
}

// Unexpected returns the objects of type t found only in the comparison
// snapshot.
func (r *Result) Unexpected(t object.Type) []object.Object {
	return r.unexpected[t]
}

// Changed returns the objects of type t found in both snapshots with
// differing fields.
func (r *Result) Changed(t object.Type) []*Change {
	return r.changed[t]
}

// IsEmpty reports whether the snapshots matched.
func (r *Result) IsEmpty() bool {
	return countAll(r.missing)+countAll(r.unexpected)+countAll(r.changed) == 0
}

// Types returns the object types with at least one result, containers first.
func (r *Result) Types() []object.Type {
	var out []object.Type
	for _, t := range object.Types() {
		if len(r.missing[t])+len(r.unexpected[t])+len(r.changed[t]) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Difference returns the difference recorded for field, if any.
func (c *Change) Difference(field string) (Difference, bool) {
	for _, d := range c.Differences {
		if d.Field == field {
			return d, true
		}
	}
	return Difference{}, false
}

// MissingOf returns the missing objects of T's type.
//
// Example:
//
//	for _, t := range diff.MissingOf[*object.Table](result) {
//		fmt.Println("create", t.Name)
//	}
func MissingOf[T object.Object](r *Result) []T {
	var zero T
	return typed[T](r.missing[zero.ObjectType()])
}

// UnexpectedOf returns the unexpected objects of T's type.
func UnexpectedOf[T object.Object](r *Result) []T {
	var zero T
	return typed[T](r.unexpected[zero.ObjectType()])
}

func typed[T object.Object](objs []object.Object) []T {
	out := make([]T, 0, len(objs))
	for _, o := range objs {
		if v, ok := o.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func countAll[V any](m map[object.Type][]V) int {
	var n int
	for _, v := range m {
		n += len(v)
	}
	return n
}
