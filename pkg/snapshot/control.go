package snapshot

import (
	"slices"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/filter"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// Control selects the object types a snapshot captures and an optional name
// filter.
type Control struct {
	types  []object.Type
	filter *filter.Filter
}

// NewControl returns a Control for types, or for the dialect's standard types
// when none are given. Catalogs and schemas are always included since every
// other object is found through them.
func NewControl(d *database.Dialect, types ...object.Type) *Control {
	if len(types) == 0 {
		types = d.StandardTypes()
	}

	c := &Control{}
	for _, t := range object.Types() {
		if t == object.TypeCatalog || t == object.TypeSchema || slices.Contains(types, t) {
			c.types = append(c.types, t)
		}
	}

	return c
}

// WithFilter sets the filter applied to included objects.
func (c *Control) WithFilter(f *filter.Filter) *Control {
	c.filter = f
	return c
}

// Filter returns the configured filter, possibly nil.
func (c *Control) Filter() *filter.Filter {
	return c.filter
}

// ShouldInclude reports whether objects of type t are captured.
func (c *Control) ShouldInclude(t object.Type) bool {
	return slices.Contains(c.types, t)
}

// Types returns the captured types, containers first.
func (c *Control) Types() []object.Type {
	return slices.Clone(c.types)
}
