package database

import (
	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/utils"
)

// SQLite describes SQLite. It has neither catalogs nor schemas (everything
// lives in "main"), so its cache schema key is always "all".
var SQLite = &Dialect{
	Name:              "sqlite",
	ProductName:       "SQLite",
	SupportsCatalogs:  false,
	SupportsSchemas:   false,
	SupportsSequences: false,
	CaseSensitive:     false,
	DefaultSchema:     "main",
	SynthesizedPrefix: "sqlite_autoindex_",
	Quote:             `"`,
	Queries:           sqliteQueries{},
}

type sqliteQueries struct{}

const (
	sqliteUserTables = "m.name NOT LIKE 'sqlite_%'"

	sqliteSchemas = `SELECT NULL AS catalog_name, 'main' AS schema_name`

	sqliteTables = `SELECT NULL AS catalog_name, 'main' AS schema_name, m.name AS table_name, NULL AS remarks
FROM sqlite_master AS m`

	sqliteViews = `SELECT NULL AS catalog_name, 'main' AS schema_name, m.name AS table_name,
  m.sql AS view_definition, NULL AS remarks
FROM sqlite_master AS m`

	sqliteColumns = `SELECT NULL AS catalog_name, 'main' AS schema_name, m.name AS table_name, p.name AS column_name,
  p.type AS data_type,
  CASE WHEN p."notnull" = 0 AND p.pk = 0 THEN 'YES' ELSE 'NO' END AS is_nullable,
  p.dflt_value AS column_default,
  CASE WHEN p.pk = 1 AND upper(m.sql) LIKE '%AUTOINCREMENT%' THEN 'YES' ELSE 'NO' END AS is_autoincrement,
  p.cid + 1 AS ordinal_position
FROM sqlite_master AS m, pragma_table_info(m.name) AS p`

	sqlitePrimaryKeys = `SELECT NULL AS catalog_name, 'main' AS schema_name, m.name AS table_name,
  NULL AS pk_name, p.name AS column_name, p.pk AS key_seq
FROM sqlite_master AS m, pragma_table_info(m.name) AS p`

	sqliteIndexes = `SELECT NULL AS catalog_name, 'main' AS schema_name, m.name AS table_name, il.name AS index_name,
  CASE WHEN il."unique" = 1 THEN 0 ELSE 1 END AS non_unique, il.origin AS origin,
  ii.name AS column_name, ii.seqno + 1 AS ordinal_position
FROM sqlite_master AS m, pragma_index_list(m.name) AS il, pragma_index_info(il.name) AS ii`

	sqliteUniqueConstraints = `SELECT NULL AS catalog_name, 'main' AS schema_name, m.name AS table_name,
  il.name AS constraint_name, ii.name AS column_name, ii.seqno + 1 AS ordinal_position,
  0 AS is_deferrable, 0 AS initially_deferred, il.name AS index_name
FROM sqlite_master AS m, pragma_index_list(m.name) AS il, pragma_index_info(il.name) AS ii`

	sqliteForeignKeys = `SELECT NULL AS catalog_name, 'main' AS schema_name, m.name AS table_name,
  NULL AS fk_name, f.id AS fk_id, f."from" AS column_name,
  NULL AS ref_catalog_name, 'main' AS ref_schema_name, f."table" AS ref_table_name, f."to" AS ref_column_name,
  f.seq + 1 AS key_seq, f.on_update AS update_rule, f.on_delete AS delete_rule,
  0 AS is_deferrable, 0 AS initially_deferred
FROM sqlite_master AS m, pragma_foreign_key_list(m.name) AS f`
)

func (sqliteQueries) Version() string {
	return "SELECT sqlite_version() AS version"
}

func (sqliteQueries) Query(kind object.Type, l Lookup) (string, []any, error) {
	var b *utils.QueryBuilder
	switch kind {
	case object.TypeSchema:
		b = utils.NewQueryBuilder(sqliteSchemas, nil)
	case object.TypeTable:
		b = sqliteQuery(sqliteTables, "table", l).OrderBy("m.name")
	case object.TypeView:
		b = sqliteQuery(sqliteViews, "view", l).OrderBy("m.name")
	case object.TypeColumn:
		b = utils.NewQueryBuilder(sqliteColumns, nil).
			Raw("m.type IN ('table', 'view')").
			Raw(sqliteUserTables).
			WhereIf(l.Table != "", "m.name = ? COLLATE NOCASE", l.Table).
			OrderBy("m.name", "p.cid")
	case object.TypePrimaryKey:
		b = sqliteQuery(sqlitePrimaryKeys, "table", l).Raw("p.pk > 0").OrderBy("m.name", "p.pk")
	case object.TypeIndex:
		b = sqliteQuery(sqliteIndexes, "table", l).OrderBy("m.name", "il.name", "ii.seqno")
	case object.TypeUniqueConstraint:
		b = sqliteQuery(sqliteUniqueConstraints, "table", l).
			Raw("il.origin = 'u'").
			OrderBy("m.name", "il.name", "ii.seqno")
	case object.TypeForeignKey:
		b = sqliteQuery(sqliteForeignKeys, "table", l).OrderBy("m.name", "f.id", "f.seq")
	default:
		return "", nil, errors.Wrapf(ErrUnsupportedMetadata, "sqlite: %s", kind)
	}

	q, args := b.Build()
	return q, args, nil
}

func sqliteQuery(base, objType string, l Lookup) *utils.QueryBuilder {
	return utils.NewQueryBuilder(base, utils.QuestionPlaceholder).
		Raw("m.type = '"+objType+"'").
		Raw(sqliteUserTables).
		WhereIf(l.Table != "", "m.name = ? COLLATE NOCASE", l.Table)
}
