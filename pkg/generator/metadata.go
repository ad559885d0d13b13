package generator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/cache"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

// extractor answers one metadata lookup for the cache.
type extractor struct {
	db     database.Database
	kind   object.Type
	lookup database.Lookup
}

func (e *extractor) WantedKey() cache.Key {
	if e.kind == object.TypeSchema {
		return cache.NewKey(e.lookup.Catalog, e.lookup.Schema)
	}
	return cache.NewKey(e.lookup.Catalog, e.lookup.Schema, e.lookup.Table)
}

func (e *extractor) RowKey(row database.Row) cache.Key {
	catalog, schema := row.String(database.ColCatalog), row.String(database.ColSchema)
	if e.kind == object.TypeSchema {
		return cache.NewKey(catalog, schema)
	}
	return cache.NewKey(catalog, schema, row.String(ownerColumn(e.kind)))
}

func (e *extractor) FastFetch(ctx context.Context) ([]database.Row, error) {
	return e.fetch(ctx, e.lookup)
}

func (e *extractor) BulkFetch(ctx context.Context) ([]database.Row, error) {
	l := e.lookup
	l.Table = ""
	return e.fetch(ctx, l)
}

func (e *extractor) fetch(ctx context.Context, l database.Lookup) ([]database.Row, error) {
	rows, err := database.Metadata(ctx, e.db, e.kind, l)
	if errors.Is(err, database.ErrUnsupportedMetadata) {
		return nil, nil
	}
	return rows, err
}

// ownerColumn is the row column naming what a lookup's Table field selects:
// the object itself for sequences, the owning relation otherwise.
func ownerColumn(kind object.Type) string {
	if kind == object.TypeSequence {
		return database.ColSequence
	}
	return database.ColTable
}

// metadata returns the rows of kind matching l, through the snapshot's cache.
func metadata(ctx context.Context, snap *snapshot.Snapshot, kind object.Type, l database.Lookup) ([]database.Row, error) {
	ex := &extractor{db: snap.Database(), kind: kind, lookup: l}
	return snap.Cache(string(kind)).Get(ctx, ex)
}

// lookupFor builds the lookup for objects named table in schema, resolving a
// missing schema to the dialect default.
func lookupFor(d *database.Dialect, schema *object.Schema, table string) database.Lookup {
	l := database.Lookup{Schema: d.DefaultSchema, Table: table}
	if schema != nil && schema.Name != "" && d.SupportsSchemas {
		l.Schema = schema.Name
	}
	if d.SupportsCatalogs {
		l.Catalog = d.DefaultCatalog
		if schema != nil && schema.Catalog != nil && schema.Catalog.Name != "" {
			l.Catalog = schema.Catalog.Name
		}
	}
	return l
}

// relationLookup builds the lookup for objects owned by r.
func relationLookup(d *database.Dialect, r object.Relation) database.Lookup {
	return lookupFor(d, r.GetSchema(), r.GetName())
}

// resolveSchema returns the stored schema matching s, s itself when it is not
// stored yet, or the default schema when s is nil.
func resolveSchema(snap *snapshot.Snapshot, s *object.Schema) *object.Schema {
	d := snap.Dialect()
	if s == nil {
		s = &object.Schema{Name: d.DefaultSchema, IsDefault: true}
	}

	if stored, err := snap.Get(s); err == nil && stored != nil {
		return stored.(*object.Schema)
	}
	return s
}

// matchingRow returns the first row whose name column equals name.
func matchingRow(d *database.Dialect, rows []database.Row, col, name string) database.Row {
	for _, row := range rows {
		if d.NamesEqual(row.String(col), name) {
			return row
		}
	}
	return nil
}

// groupRows splits rows into runs sharing a key, keeping first-seen order.
func groupRows(rows []database.Row, key func(database.Row) string) [][]database.Row {
	var (
		order  []string
		groups = make(map[string][]database.Row)
	)

	for _, row := range rows {
		k := key(row)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], row)
	}

	out := make([][]database.Row, 0, len(order))
	for _, k := range order {
		out = append(out, groups[k])
	}
	return out
}

// ownerTable returns the table an example child object belongs to, or nil.
func ownerTable(o object.Object) *object.Table {
	t, _ := object.RelationOf(o).(*object.Table)
	return t
}
