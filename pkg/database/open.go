package database

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// ErrUnknownScheme is returned by Open for URLs it has no driver for.
var ErrUnknownScheme = errors.New("unsupported database URL scheme")

// Open connects to the database named by rawURL and verifies the connection.
//
// Supported forms:
//   - postgres://... and postgresql://... use pgx
//   - pq://... uses lib/pq (the scheme is rewritten to postgres://)
//   - sqlite://path, sqlite::memory: and file:path use modernc.org/sqlite
//   - clickhouse://... uses the native ClickHouse protocol
func Open(ctx context.Context, rawURL string) (Database, error) {
	scheme, _, ok := strings.Cut(rawURL, ":")
	if !ok {
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", rawURL)
	}

	var (
		db  Database
		err error
	)

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		db, err = openSQL(ctx, "pgx", rawURL, Postgres)
	case "pq":
		db, err = openSQL(ctx, "postgres", "postgres"+rawURL[len(scheme):], Postgres)
	case "sqlite":
		db, err = openSQL(ctx, "sqlite", sqlitePath(rawURL), SQLite)
	case "file":
		db, err = openSQL(ctx, "sqlite", rawURL, SQLite)
	case "clickhouse":
		db, err = NewClickHouseClient(ctx, rawURL)
	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
	}

	if err != nil {
		return nil, err
	}
	return db, nil
}

// Redact hides the password of a database URL for logging.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	return u.Redacted()
}

func openSQL(ctx context.Context, driver, dsn string, d *Dialect) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s connection", d.ProductName)
	}

	if d == SQLite {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s", d.ProductName)
	}

	return NewSQL(db, d), nil
}

func sqlitePath(rawURL string) string {
	path := strings.TrimPrefix(rawURL[len("sqlite:"):], "//")
	if path == "" {
		return ":memory:"
	}
	return path
}
