package database

import (
	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/utils"
)

// Postgres describes PostgreSQL. Unquoted identifiers fold to lower case, so
// names are compared case-insensitively.
var Postgres = &Dialect{
	Name:              "postgres",
	ProductName:       "PostgreSQL",
	SupportsCatalogs:  false,
	SupportsSchemas:   true,
	SupportsSequences: true,
	CaseSensitive:     false,
	DefaultSchema:     "public",
	Quote:             `"`,
	Queries:           postgresQueries{},
}

type postgresQueries struct{}

const (
	pgUserSchemas = "n.nspname NOT IN ('pg_catalog', 'information_schema', 'pg_toast') " +
		"AND n.nspname NOT LIKE 'pg_temp_%' AND n.nspname NOT LIKE 'pg_toast_temp_%'"

	pgSchemas = `SELECT current_database() AS catalog_name, n.nspname AS schema_name
FROM pg_catalog.pg_namespace n`

	pgTables = `SELECT current_database() AS catalog_name, n.nspname AS schema_name, c.relname AS table_name,
  obj_description(c.oid, 'pg_class') AS remarks
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace`

	pgViews = `SELECT current_database() AS catalog_name, n.nspname AS schema_name, c.relname AS table_name,
  pg_catalog.pg_get_viewdef(c.oid, true) AS view_definition, obj_description(c.oid, 'pg_class') AS remarks
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace`

	pgColumns = `SELECT c.table_catalog AS catalog_name, c.table_schema AS schema_name, c.table_name, c.column_name,
  c.udt_name AS data_type,
  CASE WHEN c.data_type IN ('character varying', 'character', 'bit', 'bit varying') THEN c.character_maximum_length
       WHEN c.data_type = 'numeric' THEN c.numeric_precision END AS column_size,
  CASE WHEN c.data_type = 'numeric' THEN c.numeric_scale END AS decimal_digits,
  c.is_nullable, c.column_default,
  CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval(%' THEN 'YES' ELSE 'NO' END AS is_autoincrement,
  c.ordinal_position,
  col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position::int) AS remarks
FROM information_schema.columns c`

	pgPrimaryKeys = `SELECT current_database() AS catalog_name, n.nspname AS schema_name, t.relname AS table_name,
  con.conname AS pk_name, a.attname AS column_name, k.ord AS key_seq, ci.relname AS index_name
FROM pg_catalog.pg_constraint con
JOIN pg_catalog.pg_class t ON t.oid = con.conrelid
JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
LEFT JOIN pg_catalog.pg_class ci ON ci.oid = con.conindid
CROSS JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum`

	pgUniqueConstraints = `SELECT current_database() AS catalog_name, n.nspname AS schema_name, t.relname AS table_name,
  con.conname AS constraint_name, a.attname AS column_name, k.ord AS ordinal_position,
  con.condeferrable AS is_deferrable, con.condeferred AS initially_deferred, ci.relname AS index_name
FROM pg_catalog.pg_constraint con
JOIN pg_catalog.pg_class t ON t.oid = con.conrelid
JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
LEFT JOIN pg_catalog.pg_class ci ON ci.oid = con.conindid
CROSS JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum`

	pgForeignKeys = `SELECT current_database() AS catalog_name, n.nspname AS schema_name, t.relname AS table_name,
  con.conname AS fk_name, a.attname AS column_name,
  current_database() AS ref_catalog_name, rn.nspname AS ref_schema_name, rt.relname AS ref_table_name,
  ra.attname AS ref_column_name, k.ord AS key_seq,
  CASE con.confupdtype WHEN 'r' THEN 'RESTRICT' WHEN 'c' THEN 'CASCADE' WHEN 'n' THEN 'SET NULL'
       WHEN 'd' THEN 'SET DEFAULT' ELSE 'NO ACTION' END AS update_rule,
  CASE con.confdeltype WHEN 'r' THEN 'RESTRICT' WHEN 'c' THEN 'CASCADE' WHEN 'n' THEN 'SET NULL'
       WHEN 'd' THEN 'SET DEFAULT' ELSE 'NO ACTION' END AS delete_rule,
  con.condeferrable AS is_deferrable, con.condeferred AS initially_deferred
FROM pg_catalog.pg_constraint con
JOIN pg_catalog.pg_class t ON t.oid = con.conrelid
JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
JOIN pg_catalog.pg_class rt ON rt.oid = con.confrelid
JOIN pg_catalog.pg_namespace rn ON rn.oid = rt.relnamespace
CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS k(attnum, refattnum, ord)
JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
JOIN pg_catalog.pg_attribute ra ON ra.attrelid = rt.oid AND ra.attnum = k.refattnum`

	pgIndexes = `SELECT current_database() AS catalog_name, n.nspname AS schema_name, t.relname AS table_name,
  i.relname AS index_name, NOT ix.indisunique AS non_unique, a.attname AS column_name, k.ord AS ordinal_position
FROM pg_catalog.pg_index ix
JOIN pg_catalog.pg_class i ON i.oid = ix.indexrelid
JOIN pg_catalog.pg_class t ON t.oid = ix.indrelid
JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
CROSS JOIN LATERAL unnest(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord)
JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum`

	pgSequences = `SELECT current_database() AS catalog_name, s.schemaname AS schema_name, s.sequencename AS sequence_name,
  s.start_value, s.increment_by, s.min_value, s.max_value, s.cycle AS will_cycle
FROM pg_catalog.pg_sequences s`
)

func (postgresQueries) Version() string {
	return "SELECT current_setting('server_version') AS version"
}

func (postgresQueries) Query(kind object.Type, l Lookup) (string, []any, error) {
	var b *utils.QueryBuilder
	switch kind {
	case object.TypeSchema:
		b = utils.NewQueryBuilder(pgSchemas, utils.DollarPlaceholder).
			Raw(pgUserSchemas).
			WhereIf(l.Schema != "", "n.nspname = ?", l.Schema).
			OrderBy("n.nspname")
	case object.TypeTable:
		b = utils.NewQueryBuilder(pgTables, utils.DollarPlaceholder).
			Raw("c.relkind IN ('r', 'p') AND NOT c.relispartition").
			Where("n.nspname = ?", l.Schema).
			WhereIf(l.Table != "", "c.relname = ?", l.Table).
			OrderBy("c.relname")
	case object.TypeView:
		b = utils.NewQueryBuilder(pgViews, utils.DollarPlaceholder).
			Raw("c.relkind IN ('v', 'm')").
			Where("n.nspname = ?", l.Schema).
			WhereIf(l.Table != "", "c.relname = ?", l.Table).
			OrderBy("c.relname")
	case object.TypeColumn:
		b = utils.NewQueryBuilder(pgColumns, utils.DollarPlaceholder).
			Where("c.table_schema = ?", l.Schema).
			WhereIf(l.Table != "", "c.table_name = ?", l.Table).
			OrderBy("c.table_name", "c.ordinal_position")
	case object.TypePrimaryKey:
		b = constraintQuery(pgPrimaryKeys, "p", l).OrderBy("t.relname", "k.ord")
	case object.TypeUniqueConstraint:
		b = constraintQuery(pgUniqueConstraints, "u", l).OrderBy("t.relname", "con.conname", "k.ord")
	case object.TypeForeignKey:
		b = constraintQuery(pgForeignKeys, "f", l).OrderBy("t.relname", "con.conname", "k.ord")
	case object.TypeIndex:
		b = utils.NewQueryBuilder(pgIndexes, utils.DollarPlaceholder).
			Raw("t.relkind IN ('r', 'p')").
			Where("n.nspname = ?", l.Schema).
			WhereIf(l.Table != "", "t.relname = ?", l.Table).
			OrderBy("t.relname", "i.relname", "k.ord")
	case object.TypeSequence:
		b = utils.NewQueryBuilder(pgSequences, utils.DollarPlaceholder).
			Where("s.schemaname = ?", l.Schema).
			WhereIf(l.Table != "", "s.sequencename = ?", l.Table).
			OrderBy("s.sequencename")
	default:
		return "", nil, errors.Wrapf(ErrUnsupportedMetadata, "postgres: %s", kind)
	}

	q, args := b.Build()
	return q, args, nil
}

func constraintQuery(base, contype string, l Lookup) *utils.QueryBuilder {
	return utils.NewQueryBuilder(base, utils.DollarPlaceholder).
		Raw("con.contype = '"+contype+"'").
		Where("n.nspname = ?", l.Schema).
		WhereIf(l.Table != "", "t.relname = ?", l.Table)
}
