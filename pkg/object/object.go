package object

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Type tags the concrete kind of an Object.
type Type string

const (
	TypeCatalog          Type = "catalog"
	TypeSchema           Type = "schema"
	TypeTable            Type = "table"
	TypeView             Type = "view"
	TypeColumn           Type = "column"
	TypePrimaryKey       Type = "primaryKey"
	TypeIndex            Type = "index"
	TypeUniqueConstraint Type = "uniqueConstraint"
	TypeForeignKey       Type = "foreignKey"
	TypeSequence         Type = "sequence"
)

// allTypes is ordered containers first, so iterating it visits parents before
// the objects they own.
var allTypes = []Type{
	TypeCatalog,
	TypeSchema,
	TypeTable,
	TypeView,
	TypeColumn,
	TypePrimaryKey,
	TypeIndex,
	TypeUniqueConstraint,
	TypeForeignKey,
	TypeSequence,
}

// ErrUnknownType is returned by ParseType for names that are not object types.
var ErrUnknownType = errors.New("unknown object type")

type (
	// Object is implemented by every snapshot object.
	Object interface {
		// ObjectType returns the concrete type tag.
		ObjectType() Type

		// GetName returns the object name as reported by the database. It may be
		// empty for objects the database leaves unnamed (e.g. SQLite foreign keys).
		GetName() string

		// SnapshotID returns the id assigned when the object was added to a
		// snapshot, or "" for example objects.
		SnapshotID() string

		// SetSnapshotID assigns the snapshot id.
		SetSnapshotID(id string)
	}

	// Relation is a Table or a View: something that owns columns.
	Relation interface {
		Object
		GetSchema() *Schema
		GetColumns() []*Column
	}
)

// Types returns every object type, containers first.
func Types() []Type {
	return slices.Clone(allTypes)
}

// ParseType converts a case-insensitive type name into a Type.
//
// Example:
//
//	t, err := object.ParseType("ForeignKey")
//	// t == object.TypeForeignKey
func ParseType(s string) (Type, error) {
	for _, t := range allTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownType, "%q", s)
}

// SchemaOf returns the schema an object lives in, following the owning
// relation for child objects. Returns nil when unknown.
func SchemaOf(o Object) *Schema {
	switch v := o.(type) {
	case *Schema:
		return v
	case *Table:
		return v.Schema
	case *View:
		return v.Schema
	case *Sequence:
		return v.Schema
	}

	if r := RelationOf(o); r != nil {
		return r.GetSchema()
	}

	return nil
}

// RelationOf returns the table or view owning a child object, or nil for
// objects that are not owned by a relation.
func RelationOf(o Object) Relation {
	var r Relation
	switch v := o.(type) {
	case *Column:
		r = v.Relation
	case *Index:
		r = tableRelation(v.Table)
	case *PrimaryKey:
		r = tableRelation(v.Table)
	case *UniqueConstraint:
		r = tableRelation(v.Table)
	case *ForeignKey:
		r = tableRelation(v.Table)
	}

	return r
}

// Children returns the objects nested directly under o that a snapshot holds
// alongside it.
func Children(o Object) []Object {
	var children []Object
	switch v := o.(type) {
	case *Table:
		for _, c := range v.Columns {
			children = append(children, c)
		}
		if v.PrimaryKey != nil {
			children = append(children, v.PrimaryKey)
		}
		for _, idx := range v.Indexes {
			children = append(children, idx)
		}
		for _, uc := range v.UniqueConstraints {
			children = append(children, uc)
		}
		for _, fk := range v.ForeignKeys {
			children = append(children, fk)
		}
	case *View:
		for _, c := range v.Columns {
			children = append(children, c)
		}
	}

	return children
}

// tableRelation avoids wrapping a nil *Table in a non-nil interface.
func tableRelation(t *Table) Relation {
	if t == nil {
		return nil
	}
	return t
}

func qualify(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

func schemaName(s *Schema) string {
	if s == nil {
		return ""
	}
	return s.Name
}
