package generator

import (
	"regexp"
	"strings"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

const (
	chColumnDefaultKind = "default_kind"
	chPrimaryKey        = "primary_key"

	sqliteOriginPrimaryKey = "pk"
	sqliteOriginUnique     = "u"
)

var (
	chWrapperRe = regexp.MustCompile(`^(Nullable|LowCardinality)\((.*)\)$`)

	// sqliteViewPrefixRe matches everything up to the AS that starts the
	// SELECT of a CREATE VIEW statement.
	sqliteViewPrefixRe = regexp.MustCompile(`(?is)^\s*CREATE\s+(?:TEMP(?:ORARY)?\s+)?VIEW\s+(?:IF\s+NOT\s+EXISTS\s+)?.+?\s+AS\s+`)
)

// ClickHouseColumn replaces the column generator for ClickHouse, where
// nullability is part of the type (Nullable(String)) and defaults come with a
// kind.
func ClickHouseColumn() snapshot.Generator {
	return newGenerator(
		"clickhouseColumn",
		object.TypeColumn,
		columnHandler{build: buildClickHouseColumn},
		withAddsTo(object.TypeTable, object.TypeView),
		withReplaces(ColumnName),
		forDialect(database.ClickHouse.Name),
	)
}

// ClickHousePrimaryKey replaces the primary key generator for ClickHouse,
// which reports a table's key as a single comma-separated expression.
func ClickHousePrimaryKey() snapshot.Generator {
	return newGenerator(
		"clickhousePrimaryKey",
		object.TypePrimaryKey,
		primaryKeyHandler(buildClickHousePrimaryKeys),
		withAddsTo(object.TypeTable),
		withReplaces(PrimaryKeyName),
		forDialect(database.ClickHouse.Name),
	)
}

// SQLiteIndex replaces the index generator for SQLite, which reports the
// indexes it creates for primary keys and unique constraints alongside user
// indexes and tags them with their origin.
func SQLiteIndex() snapshot.Generator {
	return newGenerator(
		"sqliteIndex",
		object.TypeIndex,
		indexHandler(buildSQLiteIndexes),
		withAddsTo(object.TypeTable),
		withReplaces(IndexName),
		forDialect(database.SQLite.Name),
	)
}

// SQLiteView replaces the view generator for SQLite, which only keeps the
// CREATE VIEW statement a view was defined with.
func SQLiteView() snapshot.Generator {
	return newGenerator(
		"sqliteView",
		object.TypeView,
		viewHandler{body: sqliteViewBody},
		withAddsTo(object.TypeSchema),
		withReplaces(ViewName),
		forDialect(database.SQLite.Name),
	)
}

func buildClickHouseColumn(row database.Row, r object.Relation) *object.Column {
	col := buildColumn(row, r)

	typ, nullable := unwrapClickHouseType(row.String(database.ColDataType))
	col.Type = object.ParseDataType(typ)
	col.Nullable = nullable

	if row.String(chColumnDefaultKind) != "DEFAULT" {
		col.DefaultValue = nil
	}

	return col
}

// unwrapClickHouseType strips Nullable and LowCardinality wrappers, reporting
// whether Nullable was among them.
func unwrapClickHouseType(typ string) (string, bool) {
	var nullable bool
	for {
		m := chWrapperRe.FindStringSubmatch(strings.TrimSpace(typ))
		if m == nil {
			return strings.TrimSpace(typ), nullable
		}
		if m[1] == "Nullable" {
			nullable = true
		}
		typ = m[2]
	}
}

func buildClickHousePrimaryKeys(rows []database.Row, t *object.Table) []object.Object {
	expr := rows[0].String(chPrimaryKey)
	if expr == "" {
		return nil
	}

	return []object.Object{&object.PrimaryKey{
		Name:    rows[0].String(database.ColPrimaryKey),
		Table:   t,
		Columns: splitKeyExpression(expr),
	}}
}

// splitKeyExpression splits a key expression on the commas outside
// parentheses, so "toDate(ts), id" yields two columns.
func splitKeyExpression(expr string) []string {
	var (
		cols  []string
		depth int
		start int
	)

	add := func(part string) {
		if part = strings.TrimSpace(part); part != "" {
			cols = append(cols, part)
		}
	}

	for i, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				add(expr[start:i])
				start = i + 1
			}
		}
	}
	add(expr[start:])

	return cols
}

func buildSQLiteIndexes(rows []database.Row, t *object.Table) []object.Object {
	objs := buildIndexes(rows, t)

	origins := make(map[string]string)
	for _, row := range rows {
		origins[row.String(database.ColIndex)] = row.String(database.ColOrigin)
	}

	for _, o := range objs {
		idx := o.(*object.Index)
		switch origins[idx.Name] {
		case sqliteOriginPrimaryKey:
			idx.Associate(object.TypePrimaryKey)
		case sqliteOriginUnique:
			idx.Associate(object.TypeUniqueConstraint)
		}
	}

	return objs
}

// sqliteViewBody returns the SELECT of a CREATE VIEW statement. Anything else
// is returned unchanged.
func sqliteViewBody(sql string) string {
	loc := sqliteViewPrefixRe.FindStringIndex(sql)
	if loc == nil {
		return sql
	}

	return strings.TrimSpace(sql[loc[1]:])
}
