package database

import (
	"context"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/pkg/errors"
)

// ClickHouseConn is the part of driver.Conn the adapter needs.
type ClickHouseConn interface {
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Close() error
}

// ClickHouseClient adapts a native ClickHouse connection to Database.
type ClickHouseClient struct {
	conn ClickHouseConn
}

// NewClickHouseClient opens a native connection from a DSN such as
// "clickhouse://default:@localhost:9000/default" and pings it.
//
// Example:
//
//	client, err := database.NewClickHouseClient(ctx, "clickhouse://localhost:9000")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
func NewClickHouseClient(ctx context.Context, dsn string) (*ClickHouseClient, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ClickHouse DSN")
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open ClickHouse connection")
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to ping ClickHouse")
	}

	return &ClickHouseClient{conn: conn}, nil
}

// NewClickHouseClientFromConn wraps an existing connection.
func NewClickHouseClientFromConn(conn ClickHouseConn) *ClickHouseClient {
	return &ClickHouseClient{conn: conn}
}

func (c *ClickHouseClient) Dialect() *Dialect { return ClickHouse }

func (c *ClickHouseClient) Close() error { return c.conn.Close() }

func (c *ClickHouseClient) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names := rows.Columns()
	types := rows.ColumnTypes()

	var result []Row
	for rows.Next() {
		dest := make([]any, len(types))
		for i, ct := range types {
			dest[i] = reflect.New(ct.ScanType()).Interface()
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}

		row := make(Row, len(names))
		for i, name := range names {
			row[name] = deref(reflect.ValueOf(dest[i]).Elem())
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// deref unwraps the pointers Nullable(T) columns scan into.
func deref(v reflect.Value) any {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
