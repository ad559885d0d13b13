// Package database is the connection layer the snapshot engine reads metadata
// through.
//
// A Database couples a live connection with the Dialect describing it. The
// dialect carries capability flags (catalog, schema and sequence support, case
// sensitivity, default namespace names) and the metadata queries that return
// rows in a normalized shape, keyed by lower-case column names such as
// "schema_name", "table_name" and "column_name". Generators never see vendor
// specific column names; every dialect aliases its catalog columns into this
// shape.
//
// Three dialects are provided:
//
//   - Postgres, via github.com/jackc/pgx/v5/stdlib (or github.com/lib/pq)
//   - SQLite, via modernc.org/sqlite
//   - ClickHouse, via github.com/ClickHouse/clickhouse-go/v2
//
// Open picks the driver from the URL scheme:
//
//	db, err := database.Open(ctx, "postgres://localhost:5432/app")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	rows, err := database.Metadata(ctx, db, object.TypeTable, database.Lookup{Schema: "public"})
package database
