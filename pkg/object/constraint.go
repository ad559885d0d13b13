package object

import (
	"slices"
	"strings"
)

// ForeignKeyRule is the referential action taken on update or delete.
type ForeignKeyRule string

const (
	RuleNoAction   ForeignKeyRule = "NO ACTION"
	RuleRestrict   ForeignKeyRule = "RESTRICT"
	RuleCascade    ForeignKeyRule = "CASCADE"
	RuleSetNull    ForeignKeyRule = "SET NULL"
	RuleSetDefault ForeignKeyRule = "SET DEFAULT"
)

type (
	// Index is an index on a table. Indexes the database created to back a
	// constraint carry that constraint's type in Associations.
	Index struct {
		ID           string
		Name         string
		Table        *Table
		Columns      []string
		Unique       bool
		Associations []Type
	}

	// PrimaryKey is a table's primary key. Columns are in key order.
	PrimaryKey struct {
		ID           string
		Name         string
		Table        *Table
		Columns      []string
		BackingIndex *Index
	}

	// ForeignKey references ReferencedTable from Table. Columns and
	// ReferencedColumns are parallel lists in key order.
	ForeignKey struct {
		ID                string
		Name              string
		Table             *Table
		Columns           []string
		ReferencedTable   *Table
		ReferencedColumns []string
		UpdateRule        ForeignKeyRule
		DeleteRule        ForeignKeyRule
		Deferrable        bool
		InitiallyDeferred bool
		BackingIndex      *Index
	}

	// UniqueConstraint is a declared unique constraint.
	UniqueConstraint struct {
		ID                string
		Name              string
		Table             *Table
		Columns           []string
		Deferrable        bool
		InitiallyDeferred bool
		BackingIndex      *Index
	}
)

// ParseForeignKeyRule normalizes the rule spellings dialects report
// ("CASCADE", "set null", "NO_ACTION", ...). Unknown or empty values map to
// RuleNoAction.
func ParseForeignKeyRule(s string) ForeignKeyRule {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", " "))
	switch ForeignKeyRule(norm) {
	case RuleRestrict, RuleCascade, RuleSetNull, RuleSetDefault:
		return ForeignKeyRule(norm)
	default:
		return RuleNoAction
	}
}

func (i *Index) ObjectType() Type { return TypeIndex }
func (i *Index) GetName() string { return i.Name }
func (i *Index) SnapshotID() string { return i.ID }
func (i *Index) SetSnapshotID(id string) { i.ID = id }
func (i *Index) String() string { return childString(i.Table, i.Name, i.Columns) }

// Associate marks the index as backing a constraint of type t.
func (i *Index) Associate(t Type) {
	if !i.IsAssociatedWith(t) {
		i.Associations = append(i.Associations, t)
	}
}

// IsAssociatedWith reports whether the index backs a constraint of type t.
func (i *Index) IsAssociatedWith(t Type) bool {
	return slices.Contains(i.Associations, t)
}

// IsBacking reports whether the index exists only to back a constraint.
func (i *Index) IsBacking() bool {
	return len(i.Associations) > 0
}

func (p *PrimaryKey) ObjectType() Type { return TypePrimaryKey }
func (p *PrimaryKey) GetName() string { return p.Name }
func (p *PrimaryKey) SnapshotID() string { return p.ID }
func (p *PrimaryKey) SetSnapshotID(id string) { p.ID = id }
func (p *PrimaryKey) String() string { return childString(p.Table, p.Name, p.Columns) }

func (f *ForeignKey) ObjectType() Type { return TypeForeignKey }
func (f *ForeignKey) GetName() string { return f.Name }
func (f *ForeignKey) SnapshotID() string { return f.ID }
func (f *ForeignKey) SetSnapshotID(id string) { f.ID = id }

func (f *ForeignKey) String() string {
	base := childString(f.Table, f.Name, f.Columns)
	if f.ReferencedTable == nil {
		return base
	}
	return base + " -> " + f.ReferencedTable.String() + "(" + strings.Join(f.ReferencedColumns, ", ") + ")"
}

func (u *UniqueConstraint) ObjectType() Type { return TypeUniqueConstraint }
func (u *UniqueConstraint) GetName() string { return u.Name }
func (u *UniqueConstraint) SnapshotID() string { return u.ID }
func (u *UniqueConstraint) SetSnapshotID(id string) { u.ID = id }
func (u *UniqueConstraint) String() string { return childString(u.Table, u.Name, u.Columns) }

// childString renders "schema.table.name(cols)", omitting unknown parts.
func childString(t *Table, name string, cols []string) string {
	var owner string
	if t != nil {
		owner = t.String()
	}

	s := qualify(owner, name)
	if len(cols) > 0 {
		s += "(" + strings.Join(cols, ", ") + ")"
	}
	return s
}
