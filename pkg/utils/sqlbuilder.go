package utils

import (
	"strconv"
	"strings"
)

// Placeholder renders the n-th (1-based) bind parameter of a statement.
type Placeholder func(n int) string

// QueryBuilder provides a fluent interface for building metadata queries
// whose WHERE clause depends on how narrow the lookup is.
//
// Conditions use "?" for their single argument; Build rewrites it with the
// configured Placeholder so the same condition text serves "?" and "$n"
// dialects.
//
// Example usage:
//
//	q, args := NewQueryBuilder("SELECT name FROM system.tables", QuestionPlaceholder).
//		Where("database = ?", "default").
//		Raw("NOT is_temporary").
//		OrderBy("name").
//		Build()
//	// SELECT name FROM system.tables WHERE database = ? AND NOT is_temporary ORDER BY name
type QueryBuilder struct {
	base        string
	conds       []string
	args        []any
	order       []string
	placeholder Placeholder
}

// DollarPlaceholder numbers parameters the Postgres way ($1, $2, ...).
func DollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// QuestionPlaceholder renders every parameter as "?".
func QuestionPlaceholder(int) string {
	return "?"
}

// NewQueryBuilder creates a QueryBuilder for the given SELECT ... FROM ...
// prefix. The prefix must not contain a WHERE clause.
func NewQueryBuilder(base string, placeholder Placeholder) *QueryBuilder {
	if placeholder == nil {
		placeholder = QuestionPlaceholder
	}

	return &QueryBuilder{
		base:        strings.TrimSpace(base),
		conds:       make([]string, 0, 4),
		placeholder: placeholder,
	}
}

// Where adds a condition with one bound argument marked by "?".
//
// Example:
//
//	builder.Where("n.nspname = ?", "public") // n.nspname = $1
func (b *QueryBuilder) Where(cond string, arg any) *QueryBuilder {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, strings.Replace(cond, "?", b.placeholder(len(b.args)), 1))
	return b
}

// WhereIf adds the condition only when ok is true.
//
// Example:
//
//	builder.WhereIf(table != "", "c.relname = ?", table)
func (b *QueryBuilder) WhereIf(ok bool, cond string, arg any) *QueryBuilder {
	if ok {
		return b.Where(cond, arg)
	}
	return b
}

// Raw adds a condition without arguments.
func (b *QueryBuilder) Raw(cond string) *QueryBuilder {
	if cond != "" {
		b.conds = append(b.conds, cond)
	}
	return b
}

// OrderBy sets the ORDER BY columns.
func (b *QueryBuilder) OrderBy(cols ...string) *QueryBuilder {
	b.order = cols
	return b
}

// Build returns the SQL text and its arguments in placeholder order.
func (b *QueryBuilder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString(b.base)

	if len(b.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conds, " AND "))
	}

	if len(b.order) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.order, ", "))
	}

	return sb.String(), b.args
}
