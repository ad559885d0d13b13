package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

// SQL adapts a database/sql pool to Database. It is used for the Postgres
// and SQLite dialects.
type SQL struct {
	db      *sql.DB
	dialect *Dialect
}

// NewSQL wraps an open pool.
func NewSQL(db *sql.DB, d *Dialect) *SQL {
	return &SQL{db: db, dialect: d}
}

func (s *SQL) Dialect() *Dialect { return s.dialect }

// DB exposes the underlying pool, mostly so tests can create fixtures.
func (s *SQL) DB() *sql.DB { return s.db }

func (s *SQL) Close() error { return s.db.Close() }

// Exec runs a statement that returns no rows.
func (s *SQL) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQL) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read result columns")
	}
	for i := range cols {
		cols[i] = strings.ToLower(cols[i])
	}

	var result []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
