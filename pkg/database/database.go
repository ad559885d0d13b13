package database

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/object"
)

// ErrUnsupportedMetadata is returned by MetadataQueries for kinds the dialect
// cannot describe. Generators treat it as "no objects of this kind".
var ErrUnsupportedMetadata = errors.New("metadata not supported by dialect")

// Database is a live connection and the dialect describing it.
//
// Implementations hold a single stateful connection and are not safe for
// concurrent use by unrelated work while a snapshot is running.
type Database interface {
	// Dialect returns the capability flags and metadata queries.
	Dialect() *Dialect

	// Query runs a statement and returns every row keyed by lower-case
	// column name.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)

	// Close releases the connection.
	Close() error
}

// Metadata runs the dialect's metadata query for kind.
//
// Example:
//
//	rows, err := database.Metadata(ctx, db, object.TypeColumn, database.Lookup{
//		Schema: "public",
//		Table:  "users",
//	})
func Metadata(ctx context.Context, db Database, kind object.Type, l Lookup) ([]Row, error) {
	q, args, err := db.Dialect().Queries.Query(kind, l)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query %s metadata", kind)
	}

	return rows, nil
}

// Version reports the server version string.
func Version(ctx context.Context, db Database) (string, error) {
	rows, err := db.Query(ctx, db.Dialect().Queries.Version())
	if err != nil {
		return "", errors.Wrap(err, "failed to query server version")
	}
	if len(rows) == 0 {
		return "", nil
	}

	return strings.TrimSpace(rows[0].String(ColVersion)), nil
}

// TableData reads every row of t, selecting columns in the order the table
// declares them.
func TableData(ctx context.Context, db Database, t *object.Table) ([]Row, error) {
	if len(t.Columns) == 0 {
		return nil, nil
	}

	d := db.Dialect()
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = d.QuoteIdentifier(c.Name)
	}

	var schema string
	if t.Schema != nil {
		schema = t.Schema.Name
	}

	q := "SELECT " + strings.Join(cols, ", ") + " FROM " + d.QualifiedName(schema, t.Name)
	rows, err := db.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read data from %s", t)
	}

	return rows, nil
}
