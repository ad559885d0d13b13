package database

import (
	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/utils"
)

// ClickHouse describes ClickHouse. Databases play the role of schemas and
// identifiers are case-sensitive. There are no sequences, foreign keys or
// unique constraints, and data skipping indices are not modelled.
var ClickHouse = &Dialect{
	Name:              "clickhouse",
	ProductName:       "ClickHouse",
	SupportsCatalogs:  false,
	SupportsSchemas:   true,
	SupportsSequences: false,
	CaseSensitive:     true,
	DefaultSchema:     "default",
	Quote:             "`",
	Unsupported: []object.Type{
		object.TypeIndex,
		object.TypeForeignKey,
		object.TypeUniqueConstraint,
	},
	Queries: clickhouseQueries{},
}

// systemDatabases never take part in a snapshot.
const systemDatabases = "name NOT IN ('system', 'information_schema', 'INFORMATION_SCHEMA')"

type clickhouseQueries struct{}

const (
	chSchemas = `SELECT '' AS catalog_name, name AS schema_name FROM system.databases`

	chTables = `SELECT '' AS catalog_name, database AS schema_name, name AS table_name, comment AS remarks
FROM system.tables`

	chViews = `SELECT '' AS catalog_name, database AS schema_name, name AS table_name,
  as_select AS view_definition, comment AS remarks
FROM system.tables`

	chColumns = `SELECT '' AS catalog_name, database AS schema_name, table AS table_name, name AS column_name,
  type AS data_type, default_kind, default_expression AS column_default, position AS ordinal_position,
  comment AS remarks, is_in_primary_key
FROM system.columns`

	chPrimaryKeys = `SELECT '' AS catalog_name, database AS schema_name, name AS table_name,
  '' AS pk_name, primary_key
FROM system.tables`

	chRelations = "engine NOT IN ('View', 'MaterializedView', 'LiveView', 'Dictionary')"
	chViewRels  = "engine IN ('View', 'MaterializedView')"
)

func (clickhouseQueries) Version() string {
	return "SELECT version() AS version"
}

func (clickhouseQueries) Query(kind object.Type, l Lookup) (string, []any, error) {
	var b *utils.QueryBuilder
	switch kind {
	case object.TypeSchema:
		b = utils.NewQueryBuilder(chSchemas, utils.QuestionPlaceholder).
			Raw(systemDatabases).
			WhereIf(l.Schema != "", "name = ?", l.Schema).
			OrderBy("name")
	case object.TypeTable:
		b = chTableQuery(chTables, chRelations, l).OrderBy("name")
	case object.TypeView:
		b = chTableQuery(chViews, chViewRels, l).OrderBy("name")
	case object.TypeColumn:
		b = utils.NewQueryBuilder(chColumns, utils.QuestionPlaceholder).
			Where("database = ?", l.Schema).
			WhereIf(l.Table != "", "table = ?", l.Table).
			OrderBy("table", "position")
	case object.TypePrimaryKey:
		b = chTableQuery(chPrimaryKeys, chRelations, l).Raw("primary_key != ''").OrderBy("name")
	default:
		return "", nil, errors.Wrapf(ErrUnsupportedMetadata, "clickhouse: %s", kind)
	}

	q, args := b.Build()
	return q, args, nil
}

func chTableQuery(base, engines string, l Lookup) *utils.QueryBuilder {
	return utils.NewQueryBuilder(base, utils.QuestionPlaceholder).
		Where("database = ?", l.Schema).
		Raw("NOT is_temporary").
		Raw(engines).
		WhereIf(l.Table != "", "name = ?", l.Table)
}
