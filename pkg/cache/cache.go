package cache

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pseudomuto/snapdiff/pkg/consts"
	"github.com/pseudomuto/snapdiff/pkg/database"
)

type (
	// Key identifies a lookup or a row. Catalog and Schema select the schema
	// partition; Params is the full key used for matching. Empty strings mean
	// null (wildcard).
	Key struct {
		Catalog string
		Schema  string
		Params  []string
	}

	// Extractor knows how to fetch one kind of metadata both narrowly and for
	// a whole schema.
	Extractor interface {
		// WantedKey is the lookup being answered.
		WantedKey() Key

		// RowKey is the key a fetched row is filed under. It must have the same
		// shape as WantedKey.
		RowKey(row database.Row) Key

		// FastFetch returns the rows for WantedKey only.
		FastFetch(ctx context.Context) ([]database.Row, error)

		// BulkFetch returns the rows for the whole schema of WantedKey.
		BulkFetch(ctx context.Context) ([]database.Row, error)
	}

	// Stats counts the queries a cache issued.
	Stats struct {
		SingleFetches int
		BulkFetches   int
	}

	// Option configures a Cache.
	Option func(*Cache)

	// Cache holds the rows of one kind of metadata lookup.
	Cache struct {
		name      string
		dialect   *database.Dialect
		threshold int
		entries   map[string]map[string][]database.Row
		singles   map[string]int
		bulkDone  map[string]bool
		stats     Stats
	}
)

const nullKey = "null"

// NewKey builds a Key whose params are (catalog, schema, params...).
func NewKey(catalog, schema string, params ...string) Key {
	return Key{
		Catalog: catalog,
		Schema:  schema,
		Params:  append([]string{catalog, schema}, params...),
	}
}

// WithThreshold sets how many single fetches a schema gets before the cache
// switches to a bulk fetch.
func WithThreshold(n int) Option {
	return func(c *Cache) { c.threshold = n }
}

// New creates an empty cache for the given dialect.
func New(name string, d *database.Dialect, opts ...Option) *Cache {
	c := &Cache{
		name:      name,
		dialect:   d,
		threshold: consts.BulkFetchThreshold,
		entries:   make(map[string]map[string][]database.Row),
		singles:   make(map[string]int),
		bulkDone:  make(map[string]bool),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the rows matching ex's wanted key, fetching them through ex when
// they are not cached yet.
//
// Example:
//
//	rows, err := c.Get(ctx, columnsOf(table))
//	if err != nil {
//		return err
//	}
//	for _, row := range rows {
//		fmt.Println(row.String(database.ColColumn))
//	}
func (c *Cache) Get(ctx context.Context, ex Extractor) ([]database.Row, error) {
	wanted := ex.WantedKey()
	schemaKey := c.SchemaKey(wanted)
	wantedKey := c.ParamsKey(wanted.Params)

	entries, ok := c.entries[schemaKey]
	if !ok {
		entries = make(map[string][]database.Row)
		c.entries[schemaKey] = entries
	}

	if rows, ok := entries[wantedKey]; ok {
		return rows, nil
	}

	if c.bulkDone[schemaKey] {
		return nil, nil
	}

	bulk := c.singles[schemaKey] >= c.threshold

	var (
		rows []database.Row
		err  error
	)
	if bulk {
		rows, err = ex.BulkFetch(ctx)
		if err != nil {
			return nil, err
		}

		clear(entries)
		c.bulkDone[schemaKey] = true
		c.stats.BulkFetches++
	} else {
		rows, err = ex.FastFetch(ctx)
		if err != nil {
			return nil, err
		}

		c.singles[schemaKey]++
		c.stats.SingleFetches++
	}

	slog.Debug("Fetched metadata",
		"cache", c.name,
		"schema", schemaKey,
		"key", wantedKey,
		"bulk", bulk,
		"rows", len(rows),
	)

	for _, row := range rows {
		row = c.clean(row)
		for _, k := range c.Permutations(ex.RowKey(row).Params) {
			entries[k] = append(entries[k], row)
		}
	}

	result, ok := entries[wantedKey]
	if !ok {
		// remember the absence so the lookup is not repeated
		entries[wantedKey] = nil
	}

	return result, nil
}

// Stats returns the number of queries issued so far.
func (c *Cache) Stats() Stats {
	return c.stats
}

// BulkDone reports whether the schema of k has been bulk fetched.
func (c *Cache) BulkDone(k Key) bool {
	return c.bulkDone[c.SchemaKey(k)]
}

// SchemaKey derives the partition a key belongs to from the dialect's
// catalog and schema support.
func (c *Cache) SchemaKey(k Key) string {
	d := c.dialect
	switch {
	case !d.SupportsCatalogs && !d.SupportsSchemas:
		return "all"
	case d.SupportsCatalogs && d.SupportsSchemas:
		return d.NormalizeName(orNull(k.Catalog) + "." + orNull(k.Schema))
	case d.SupportsSchemas:
		if k.Schema == "" {
			return "all"
		}
		return d.NormalizeName(k.Schema)
	default:
		if k.Catalog == "" {
			return "all"
		}
		return d.NormalizeName(k.Catalog)
	}
}

// ParamsKey renders key parameters as the string rows are filed under.
func (c *Cache) ParamsKey(params []string) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = orNull(p)
	}

	return c.dialect.NormalizeName(strings.Join(parts, ":"))
}

// Permutations returns the distinct keys a row with the given params is filed
// under: every combination of its parameters with any subset nulled out.
func (c *Cache) Permutations(params []string) []string {
	seen := make(map[string]struct{})
	var keys []string

	var permute func(p []string, from int)
	permute = func(p []string, from int) {
		if from == len(p) {
			k := c.ParamsKey(p)
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
			return
		}

		permute(p, from+1)

		nulled := make([]string, len(p))
		copy(nulled, p)
		nulled[from] = ""
		permute(nulled, from+1)
	}

	permute(params, 0)
	return keys
}

// clean trims string values. Dialects flagged PreserveLeadingSpace keep a
// leading space.
func (c *Cache) clean(row database.Row) database.Row {
	out := row.Clone()
	for k, v := range out {
		s, ok := v.(string)
		if !ok {
			continue
		}

		if c.dialect.PreserveLeadingSpace {
			out[k] = strings.TrimRight(s, " \t\r\n")
		} else {
			out[k] = strings.TrimSpace(s)
		}
	}
	return out
}

func orNull(s string) string {
	if s == "" {
		return nullKey
	}
	return s
}
