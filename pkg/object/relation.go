package object

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pseudomuto/snapdiff/pkg/compare"
)

type (
	// Table is a base table and everything structurally attached to it.
	Table struct {
		ID      string
		Name    string
		Schema  *Schema
		Remarks string

		Columns           []*Column
		PrimaryKey        *PrimaryKey
		Indexes           []*Index
		UniqueConstraints []*UniqueConstraint

		// ForeignKeys holds the outgoing foreign keys (this table is the base).
		ForeignKeys []*ForeignKey
	}

	// View is a named query. Definitions are compared textually.
	View struct {
		ID         string
		Name       string
		Schema     *Schema
		Definition string
		Remarks    string
		Columns    []*Column
	}

	// Column belongs to a Table or a View.
	Column struct {
		ID            string
		Name          string
		Relation      Relation
		Type          DataType
		Nullable      bool
		DefaultValue  *string
		AutoIncrement bool
		Position      int
		Remarks       string
	}

	// DataType is a column type as reported by the database, split into a base
	// name and optional size/scale so it can be compared structurally.
	DataType struct {
		Name  string
		Size  *int
		Scale *int
	}
)

var dataTypeRe = regexp.MustCompile(`^\s*([^()]+?)\s*\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\)\s*$`)

func (t *Table) ObjectType() Type { return TypeTable }
func (t *Table) GetName() string { return t.Name }
func (t *Table) SnapshotID() string { return t.ID }
func (t *Table) SetSnapshotID(id string) { t.ID = id }
func (t *Table) GetSchema() *Schema { return t.Schema }
func (t *Table) GetColumns() []*Column { return t.Columns }
func (t *Table) String() string { return qualify(schemaName(t.Schema), t.Name) }

// AddColumn appends c and points it back at the table.
func (t *Table) AddColumn(c *Column) {
	c.Relation = t
	t.Columns = append(t.Columns, c)
}

// Column returns the column with the given name, compared case-insensitively,
// or nil.
func (t *Table) Column(name string) *Column {
	return findColumn(t.Columns, name)
}

func (v *View) ObjectType() Type { return TypeView }
func (v *View) GetName() string { return v.Name }
func (v *View) SnapshotID() string { return v.ID }
func (v *View) SetSnapshotID(id string) { v.ID = id }
func (v *View) GetSchema() *Schema { return v.Schema }
func (v *View) GetColumns() []*Column { return v.Columns }
func (v *View) String() string { return qualify(schemaName(v.Schema), v.Name) }

// AddColumn appends c and points it back at the view.
func (v *View) AddColumn(c *Column) {
	c.Relation = v
	v.Columns = append(v.Columns, c)
}

func (c *Column) ObjectType() Type { return TypeColumn }
func (c *Column) GetName() string { return c.Name }
func (c *Column) SnapshotID() string { return c.ID }
func (c *Column) SetSnapshotID(id string) { c.ID = id }

func (c *Column) String() string {
	if c.Relation == nil {
		return c.Name
	}
	return qualify(schemaName(c.Relation.GetSchema()), c.Relation.GetName(), c.Name)
}

// Table returns the owning table, or nil when the column belongs to a view.
func (c *Column) Table() *Table {
	t, _ := c.Relation.(*Table)
	return t
}

// ParseDataType splits a declared type such as "VARCHAR(50)" or
// "numeric(10, 2)" into its parts. Types whose arguments are not plain
// integers are kept whole in Name.
//
// Example:
//
//	dt := object.ParseDataType("DECIMAL(10,2)")
//	// dt.Name == "DECIMAL", *dt.Size == 10, *dt.Scale == 2
func ParseDataType(s string) DataType {
	m := dataTypeRe.FindStringSubmatch(s)
	if m == nil {
		return DataType{Name: strings.TrimSpace(s)}
	}

	dt := DataType{Name: m[1]}
	if size, err := strconv.Atoi(m[2]); err == nil {
		dt.Size = &size
	}
	if m[3] != "" {
		if scale, err := strconv.Atoi(m[3]); err == nil {
			dt.Scale = &scale
		}
	}

	return dt
}

func (d DataType) String() string {
	switch {
	case d.Size != nil && d.Scale != nil:
		return fmt.Sprintf("%s(%d,%d)", d.Name, *d.Size, *d.Scale)
	case d.Size != nil:
		return fmt.Sprintf("%s(%d)", d.Name, *d.Size)
	default:
		return d.Name
	}
}

// Equal compares type names case-insensitively along with size and scale.
func (d DataType) Equal(other DataType) bool {
	return strings.EqualFold(d.Name, other.Name) &&
		compare.Pointers(d.Size, other.Size) &&
		compare.Pointers(d.Scale, other.Scale)
}

func findColumn(cols []*Column, name string) *Column {
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}
