// Package compare provides small generic equality helpers used when comparing
// snapshot objects field by field.
//
// Optional metadata (a column default, a sequence bound, a type's size) is
// modelled with pointers, where nil means "not reported". Pointers treats two
// nils as equal and a nil and a value as different:
//
//	compare.Pointers(a.MaxValue, b.MaxValue)
//
// Ordered name lists (key and index columns) are compared with Slices and an
// element comparison that follows the dialect's case rules:
//
//	compare.Slices(a.Columns, b.Columns, dialect.NamesEqual)
package compare
