package identity

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// ErrInvalidExample is returned for example objects that lack the minimum
// identity needed to search for them.
var ErrInvalidExample = errors.New("invalid example object")

// Comparator applies a dialect's identity rules.
type Comparator struct {
	dialect *database.Dialect
}

// New creates a Comparator for d.
func New(d *database.Dialect) *Comparator {
	return &Comparator{dialect: d}
}

// Dialect returns the dialect whose rules apply.
func (c *Comparator) Dialect() *database.Dialect {
	return c.dialect
}

// Validate returns ErrInvalidExample when o cannot be searched for.
func (c *Comparator) Validate(o object.Object) error {
	if o == nil {
		return errors.Wrap(ErrInvalidExample, "nil object")
	}

	ok := true
	switch v := o.(type) {
	case *object.Table, *object.View, *object.Sequence:
		ok = o.GetName() != ""
	case *object.Column:
		ok = v.Name != ""
	case *object.Index:
		ok = v.Name != "" || (v.Table != nil && len(v.Columns) > 0)
	case *object.PrimaryKey:
		ok = v.Name != "" || v.Table != nil
	case *object.UniqueConstraint:
		ok = v.Name != "" || len(v.Columns) > 0
	case *object.ForeignKey:
		ok = v.Name != "" || fkComplete(v)
	}

	if !ok {
		return errors.Wrapf(ErrInvalidExample, "%s %q has neither a name nor an owner to match on", o.ObjectType(), o.GetName())
	}

	return nil
}

// Hash returns the bucket keys for o.
func (c *Comparator) Hash(o object.Object) []string {
	var keys []string
	add := func(k string) {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}

	switch v := o.(type) {
	case *object.Catalog:
		add(c.catalogKey(v))
	case *object.Schema:
		add(c.schemaKey(v))
	case *object.Table, *object.View, *object.Sequence:
		name := lower(o.GetName())
		add(name)
		add(c.schemaKey(object.SchemaOf(o)) + "/" + name)
	case *object.Column:
		name := lower(v.Name)
		add(name)
		if v.Relation != nil {
			add(c.relationKey(v.Relation) + "/" + name)
		}
	case *object.Index:
		c.hashNamedColumns(add, v.Name, v.Table, v.Columns)
	case *object.UniqueConstraint:
		c.hashNamedColumns(add, v.Name, v.Table, v.Columns)
	case *object.PrimaryKey:
		if v.Name != "" {
			add(lower(v.Name))
		}
		if v.Table != nil {
			add(c.relationKey(v.Table))
		}
	case *object.ForeignKey:
		if v.Name != "" {
			add(lower(v.Name))
		}
		if v.Table != nil && v.ReferencedTable != nil {
			add(c.relationKey(v.Table) + "->" + c.relationKey(v.ReferencedTable))
		}
	}

	return keys
}

// IsSameObject reports whether a and b describe the same database object.
// It is symmetric.
func (c *Comparator) IsSameObject(a, b object.Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ObjectType() != b.ObjectType() {
		return false
	}

	switch x := a.(type) {
	case *object.Catalog:
		return c.catalogsEqual(x, b.(*object.Catalog))
	case *object.Schema:
		return c.schemasEqual(x, b.(*object.Schema))
	case *object.Table, *object.View, *object.Sequence:
		return c.dialect.NamesEqual(a.GetName(), b.GetName()) &&
			c.schemasEqual(object.SchemaOf(a), object.SchemaOf(b))
	case *object.Column:
		y := b.(*object.Column)
		if !c.dialect.NamesEqual(x.Name, y.Name) {
			return false
		}
		if x.Relation == nil || y.Relation == nil {
			return true
		}
		return c.IsSameObject(x.Relation, y.Relation)
	case *object.Index:
		y := b.(*object.Index)
		return c.tablesMatch(x.Table, y.Table) && c.namedColumnsMatch(x.Name, y.Name, x.Columns, y.Columns)
	case *object.UniqueConstraint:
		y := b.(*object.UniqueConstraint)
		if !c.tablesMatch(x.Table, y.Table) {
			return false
		}
		if len(x.Columns) > 0 && len(y.Columns) > 0 {
			return c.ColumnsEqual(x.Columns, y.Columns)
		}
		return x.Name != "" && c.dialect.NamesEqual(x.Name, y.Name)
	case *object.PrimaryKey:
		y := b.(*object.PrimaryKey)
		if x.Table != nil && y.Table != nil {
			return c.IsSameObject(x.Table, y.Table)
		}
		return x.Name != "" && c.dialect.NamesEqual(x.Name, y.Name)
	case *object.ForeignKey:
		y := b.(*object.ForeignKey)
		if fkComplete(x) && fkComplete(y) {
			return c.IsSameObject(x.Table, y.Table) &&
				c.IsSameObject(x.ReferencedTable, y.ReferencedTable) &&
				c.ColumnsEqual(x.Columns, y.Columns) &&
				(len(x.ReferencedColumns) == 0 || len(y.ReferencedColumns) == 0 ||
					c.ColumnsEqual(x.ReferencedColumns, y.ReferencedColumns))
		}
		return x.Name != "" && c.dialect.NamesEqual(x.Name, y.Name)
	}

	return false
}

// ColumnsEqual compares ordered column name lists with the dialect's case
// rules.
func (c *Comparator) ColumnsEqual(a, b []string) bool {
	return slices.EqualFunc(a, b, c.dialect.NamesEqual)
}

// IsDefaultSchema reports whether s resolves to the dialect's default schema.
func (c *Comparator) IsDefaultSchema(s *object.Schema) bool {
	return s == nil || s.Name == "" || s.IsDefault || c.dialect.NamesEqual(s.Name, c.dialect.DefaultSchema)
}

// IsDefaultCatalog reports whether cat resolves to the dialect's default
// catalog.
func (c *Comparator) IsDefaultCatalog(cat *object.Catalog) bool {
	return cat == nil || cat.Name == "" || cat.IsDefault || c.dialect.NamesEqual(cat.Name, c.dialect.DefaultCatalog)
}

func (c *Comparator) catalogsEqual(a, b *object.Catalog) bool {
	if !c.dialect.SupportsCatalogs {
		return true
	}

	da, db := c.IsDefaultCatalog(a), c.IsDefaultCatalog(b)
	if da || db {
		return da && db
	}
	return c.dialect.NamesEqual(a.Name, b.Name)
}

func (c *Comparator) schemasEqual(a, b *object.Schema) bool {
	if !c.catalogsEqual(catalogOf(a), catalogOf(b)) {
		return false
	}
	if !c.dialect.SupportsSchemas {
		return true
	}

	da, db := c.IsDefaultSchema(a), c.IsDefaultSchema(b)
	if da || db {
		return da && db
	}
	return c.dialect.NamesEqual(a.Name, b.Name)
}

// tablesMatch treats an unknown owner as a wildcard.
func (c *Comparator) tablesMatch(a, b *object.Table) bool {
	if a == nil || b == nil {
		return true
	}
	return c.IsSameObject(a, b)
}

func (c *Comparator) namedColumnsMatch(nameA, nameB string, colsA, colsB []string) bool {
	if nameA != "" && nameB != "" {
		return c.dialect.NamesEqual(nameA, nameB)
	}
	if len(colsA) > 0 && len(colsB) > 0 {
		return c.ColumnsEqual(colsA, colsB)
	}
	return false
}

func (c *Comparator) hashNamedColumns(add func(string), name string, t *object.Table, cols []string) {
	var owner string
	if t != nil {
		owner = c.relationKey(t)
	}

	if name != "" {
		add(lower(name))
		if owner != "" {
			add(owner + "/" + lower(name))
		}
	}

	if len(cols) > 0 {
		colKey := "(" + lower(strings.Join(cols, ",")) + ")"
		add(colKey)
		if owner != "" {
			add(owner + colKey)
		}
	}
}

func (c *Comparator) catalogKey(cat *object.Catalog) string {
	if !c.dialect.SupportsCatalogs || c.IsDefaultCatalog(cat) {
		return ""
	}
	return lower(cat.Name)
}

func (c *Comparator) schemaKey(s *object.Schema) string {
	key := c.catalogKey(catalogOf(s)) + "/"
	if c.dialect.SupportsSchemas && !c.IsDefaultSchema(s) {
		key += lower(s.Name)
	}
	return key
}

func (c *Comparator) relationKey(r object.Relation) string {
	return c.schemaKey(r.GetSchema()) + "/" + lower(r.GetName())
}

func catalogOf(s *object.Schema) *object.Catalog {
	if s == nil {
		return nil
	}
	return s.Catalog
}

func fkComplete(fk *object.ForeignKey) bool {
	return fk.Table != nil && fk.ReferencedTable != nil && len(fk.Columns) > 0
}

func lower(s string) string {
	return strings.ToLower(s)
}
