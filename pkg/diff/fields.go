package diff

import (
	"regexp"
	"slices"
	"strings"

	"github.com/pseudomuto/snapdiff/pkg/compare"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// Compared fields.
const (
	FieldType              = "type"
	FieldNullable          = "nullable"
	FieldDefaultValue      = "defaultValue"
	FieldAutoIncrement     = "autoIncrement"
	FieldRemarks           = "remarks"
	FieldDefinition        = "definition"
	FieldColumns           = "columns"
	FieldUnique            = "unique"
	FieldUpdateRule        = "updateRule"
	FieldDeleteRule        = "deleteRule"
	FieldDeferrable        = "deferrable"
	FieldInitiallyDeferred = "initiallyDeferred"
	FieldIncrementBy       = "incrementBy"
	FieldMinValue          = "minValue"
	FieldMaxValue          = "maxValue"
	FieldOrdered           = "ordered"
	FieldCycle             = "cycle"
)

var (
	fieldSets = map[object.Type][]string{
		object.TypeTable:            {FieldRemarks},
		object.TypeView:             {FieldDefinition},
		object.TypeColumn:           {FieldType, FieldNullable, FieldDefaultValue, FieldAutoIncrement, FieldRemarks},
		object.TypePrimaryKey:       {FieldColumns},
		object.TypeIndex:            {FieldColumns, FieldUnique},
		object.TypeUniqueConstraint: {FieldDeferrable, FieldInitiallyDeferred},
		object.TypeForeignKey:       {FieldUpdateRule, FieldDeleteRule, FieldDeferrable, FieldInitiallyDeferred},
		object.TypeSequence:         {FieldIncrementBy, FieldMinValue, FieldMaxValue, FieldOrdered, FieldCycle},
	}

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Difference is one field that differs between matched objects.
type Difference struct {
	Field      string
	Reference  any
	Comparison any
}

// Fields returns the fields compared for objects of type t. Catalogs and
// schemas have none.
func Fields(t object.Type) []string {
	return slices.Clone(fieldSets[t])
}

// differ collects the differences between two objects of the same type.
type differ struct {
	dialect *database.Dialect
	out     []Difference
}

func (d *differ) check(field string, equal bool, ref, cmp any) {
	if !equal {
		d.out = append(d.out, Difference{Field: field, Reference: ref, Comparison: cmp})
	}
}

func (d *differ) columns(ref, cmp []string) {
	d.check(FieldColumns, compare.Slices(ref, cmp, d.dialect.NamesEqual), ref, cmp)
}

// findDifferences compares the fields Fields lists for ref's type.
func findDifferences(d *database.Dialect, ref, cmp object.Object) []Difference {
	df := &differ{dialect: d}

	switch r := ref.(type) {
	case *object.Table:
		c := cmp.(*object.Table)
		df.check(FieldRemarks, r.Remarks == c.Remarks, r.Remarks, c.Remarks)
	case *object.View:
		c := cmp.(*object.View)
		df.check(FieldDefinition, normalizeSQL(r.Definition) == normalizeSQL(c.Definition), r.Definition, c.Definition)
	case *object.Column:
		c := cmp.(*object.Column)
		df.check(FieldType, r.Type.Equal(c.Type), r.Type, c.Type)
		df.check(FieldNullable, r.Nullable == c.Nullable, r.Nullable, c.Nullable)
		df.check(FieldDefaultValue,
			compare.PointersWithEqual(r.DefaultValue, c.DefaultValue, func(a, b *string) bool {
				return normalizeSQL(*a) == normalizeSQL(*b)
			}),
			compare.Deref(r.DefaultValue), compare.Deref(c.DefaultValue),
		)
		df.check(FieldAutoIncrement, r.AutoIncrement == c.AutoIncrement, r.AutoIncrement, c.AutoIncrement)
		df.check(FieldRemarks, r.Remarks == c.Remarks, r.Remarks, c.Remarks)
	case *object.PrimaryKey:
		df.columns(r.Columns, cmp.(*object.PrimaryKey).Columns)
	case *object.Index:
		c := cmp.(*object.Index)
		df.columns(r.Columns, c.Columns)
		df.check(FieldUnique, r.Unique == c.Unique, r.Unique, c.Unique)
	case *object.UniqueConstraint:
		c := cmp.(*object.UniqueConstraint)
		df.check(FieldDeferrable, r.Deferrable == c.Deferrable, r.Deferrable, c.Deferrable)
		df.check(FieldInitiallyDeferred, r.InitiallyDeferred == c.InitiallyDeferred, r.InitiallyDeferred, c.InitiallyDeferred)
	case *object.ForeignKey:
		c := cmp.(*object.ForeignKey)
		df.check(FieldUpdateRule, r.UpdateRule == c.UpdateRule, r.UpdateRule, c.UpdateRule)
		df.check(FieldDeleteRule, r.DeleteRule == c.DeleteRule, r.DeleteRule, c.DeleteRule)
		df.check(FieldDeferrable, r.Deferrable == c.Deferrable, r.Deferrable, c.Deferrable)
		df.check(FieldInitiallyDeferred, r.InitiallyDeferred == c.InitiallyDeferred, r.InitiallyDeferred, c.InitiallyDeferred)
	case *object.Sequence:
		c := cmp.(*object.Sequence)
		df.check(FieldIncrementBy, compare.Pointers(r.IncrementBy, c.IncrementBy), compare.Deref(r.IncrementBy), compare.Deref(c.IncrementBy))
		df.check(FieldMinValue, compare.Pointers(r.MinValue, c.MinValue), compare.Deref(r.MinValue), compare.Deref(c.MinValue))
		df.check(FieldMaxValue, compare.Pointers(r.MaxValue, c.MaxValue), compare.Deref(r.MaxValue), compare.Deref(c.MaxValue))
		df.check(FieldOrdered, r.Ordered == c.Ordered, r.Ordered, c.Ordered)
		df.check(FieldCycle, r.WillCycle == c.WillCycle, r.WillCycle, c.WillCycle)
	}

	return df.out
}

// normalizeSQL collapses whitespace so formatting alone is not a difference.
func normalizeSQL(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
