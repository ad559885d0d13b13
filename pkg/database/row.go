package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pseudomuto/snapdiff/pkg/object"
)

// Normalized metadata column names. Every dialect aliases its catalog
// columns to these.
const (
	ColCatalog           = "catalog_name"
	ColSchema            = "schema_name"
	ColTable             = "table_name"
	ColColumn            = "column_name"
	ColDataType          = "data_type"
	ColColumnSize        = "column_size"
	ColDecimalDigits     = "decimal_digits"
	ColNullable          = "is_nullable"
	ColDefault           = "column_default"
	ColAutoIncrement     = "is_autoincrement"
	ColPosition          = "ordinal_position"
	ColRemarks           = "remarks"
	ColViewDefinition    = "view_definition"
	ColIndex             = "index_name"
	ColNonUnique         = "non_unique"
	ColOrigin            = "origin"
	ColPrimaryKey        = "pk_name"
	ColKeySeq            = "key_seq"
	ColForeignKey        = "fk_name"
	ColForeignKeyID      = "fk_id"
	ColRefCatalog        = "ref_catalog_name"
	ColRefSchema         = "ref_schema_name"
	ColRefTable          = "ref_table_name"
	ColRefColumn         = "ref_column_name"
	ColUpdateRule        = "update_rule"
	ColDeleteRule        = "delete_rule"
	ColDeferrable        = "is_deferrable"
	ColInitiallyDeferred = "initially_deferred"
	ColConstraint        = "constraint_name"
	ColSequence          = "sequence_name"
	ColStartValue        = "start_value"
	ColIncrementBy       = "increment_by"
	ColMinValue          = "min_value"
	ColMaxValue          = "max_value"
	ColWillCycle         = "will_cycle"
	ColOrdered           = "is_ordered"
	ColVersion           = "version"
)

// Row is one metadata row keyed by lower-case column name.
type Row map[string]any

// NameColumn returns the column holding the name of objects of kind.
func NameColumn(kind object.Type) string {
	switch kind {
	case object.TypeCatalog:
		return ColCatalog
	case object.TypeSchema:
		return ColSchema
	case object.TypeTable, object.TypeView:
		return ColTable
	case object.TypeColumn:
		return ColColumn
	case object.TypeIndex:
		return ColIndex
	case object.TypePrimaryKey:
		return ColPrimaryKey
	case object.TypeForeignKey:
		return ColForeignKey
	case object.TypeUniqueConstraint:
		return ColConstraint
	case object.TypeSequence:
		return ColSequence
	}
	return ""
}

// Has reports whether the column is present and non-null.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// String returns the column as a string; null and missing columns are "".
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// StringPtr is String that keeps null distinct from "".
func (r Row) StringPtr(col string) *string {
	if !r.Has(col) {
		return nil
	}
	s := r.String(col)
	return &s
}

// Int64Ptr returns the column as an integer, or nil when null or not numeric.
func (r Row) Int64Ptr(col string) *int64 {
	var n int64
	switch v := r[col].(type) {
	case nil:
		return nil
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		n = int64(v)
	case uint8:
		n = int64(v)
	case uint16:
		n = int64(v)
	case uint32:
		n = int64(v)
	case uint64:
		n = int64(v)
	case float32:
		n = int64(v)
	case float64:
		n = int64(v)
	case bool:
		if v {
			n = 1
		}
	default:
		parsed, err := strconv.ParseInt(strings.TrimSpace(r.String(col)), 10, 64)
		if err != nil {
			return nil
		}
		n = parsed
	}

	return &n
}

// Int returns the column as an int, 0 when null or not numeric.
func (r Row) Int(col string) int {
	if p := r.Int64Ptr(col); p != nil {
		return int(*p)
	}
	return 0
}

// IntPtr is Int that keeps null distinct from 0.
func (r Row) IntPtr(col string) *int {
	p := r.Int64Ptr(col)
	if p == nil {
		return nil
	}
	n := int(*p)
	return &n
}

// Bool interprets booleans, non-zero numbers and the usual truthy strings
// ("YES", "TRUE", "T", "Y", "1").
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case nil:
		return false
	case bool:
		return v
	case string, []byte:
		switch strings.ToUpper(strings.TrimSpace(r.String(col))) {
		case "YES", "TRUE", "T", "Y", "1":
			return true
		}
		return false
	default:
		if p := r.Int64Ptr(col); p != nil {
			return *p != 0
		}
		return false
	}
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
