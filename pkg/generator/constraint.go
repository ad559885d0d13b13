package generator

import (
	"context"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

type (
	// childBuilder turns the metadata rows of one table into child objects.
	childBuilder func(rows []database.Row, t *object.Table) []object.Object

	// tableChildHandler handles the objects that hang off a table: primary
	// keys, indexes, unique constraints and foreign keys.
	tableChildHandler struct {
		kind   object.Type
		build  childBuilder
		attach func(t *object.Table, o object.Object)
	}
)

// PrimaryKey produces primary keys and adds them to tables.
func PrimaryKey() snapshot.Generator {
	return newGenerator(PrimaryKeyName, object.TypePrimaryKey, primaryKeyHandler(buildPrimaryKeys), withAddsTo(object.TypeTable))
}

// Index produces indexes and adds them to tables.
func Index() snapshot.Generator {
	return newGenerator(IndexName, object.TypeIndex, indexHandler(buildIndexes), withAddsTo(object.TypeTable))
}

// UniqueConstraint produces unique constraints and adds them to tables.
func UniqueConstraint() snapshot.Generator {
	return newGenerator(UniqueConstraintName, object.TypeUniqueConstraint, tableChildHandler{
		kind:  object.TypeUniqueConstraint,
		build: buildUniqueConstraints,
		attach: func(t *object.Table, o object.Object) {
			t.UniqueConstraints = append(t.UniqueConstraints, o.(*object.UniqueConstraint))
		},
	}, withAddsTo(object.TypeTable))
}

// ForeignKey produces foreign keys and adds them to their base tables. The
// referenced table is a placeholder until the snapshot links it to the stored
// table.
func ForeignKey() snapshot.Generator {
	return newGenerator(ForeignKeyName, object.TypeForeignKey, tableChildHandler{
		kind:  object.TypeForeignKey,
		build: buildForeignKeys,
		attach: func(t *object.Table, o object.Object) {
			t.ForeignKeys = append(t.ForeignKeys, o.(*object.ForeignKey))
		},
	}, withAddsTo(object.TypeTable))
}

func primaryKeyHandler(build childBuilder) tableChildHandler {
	return tableChildHandler{
		kind:  object.TypePrimaryKey,
		build: build,
		attach: func(t *object.Table, o object.Object) {
			t.PrimaryKey = o.(*object.PrimaryKey)
		},
	}
}

func indexHandler(build childBuilder) tableChildHandler {
	return tableChildHandler{
		kind:  object.TypeIndex,
		build: build,
		attach: func(t *object.Table, o object.Object) {
			t.Indexes = append(t.Indexes, o.(*object.Index))
		},
	}
}

func (h tableChildHandler) snapshotObject(ctx context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
	t := ownerTable(example)
	if t == nil {
		return nil, nil
	}

	objs, err := h.children(ctx, snap, t)
	if err != nil {
		return nil, err
	}

	cmp := snap.Comparator()
	for _, o := range objs {
		if cmp.IsSameObject(example, o) {
			return o, nil
		}
	}

	return nil, nil
}

func (h tableChildHandler) addTo(ctx context.Context, owner object.Object, snap *snapshot.Snapshot) error {
	t, ok := owner.(*object.Table)
	if !ok {
		return nil
	}

	objs, err := h.children(ctx, snap, t)
	if err != nil {
		return err
	}

	for _, o := range objs {
		adopted, err := snap.Adopt(o)
		if err != nil {
			return err
		}
		if adopted != nil {
			h.attach(t, adopted)
		}
	}

	return nil
}

func (h tableChildHandler) children(ctx context.Context, snap *snapshot.Snapshot, t *object.Table) ([]object.Object, error) {
	rows, err := metadata(ctx, snap, h.kind, relationLookup(snap.Dialect(), t))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return h.build(rows, t), nil
}

func columnsOf(rows []database.Row) []string {
	cols := make([]string, 0, len(rows))
	for _, row := range rows {
		cols = append(cols, row.String(database.ColColumn))
	}
	return cols
}

func buildPrimaryKeys(rows []database.Row, t *object.Table) []object.Object {
	return []object.Object{&object.PrimaryKey{
		Name:    rows[0].String(database.ColPrimaryKey),
		Table:   t,
		Columns: columnsOf(rows),
	}}
}

func buildIndexes(rows []database.Row, t *object.Table) []object.Object {
	var out []object.Object
	for _, group := range groupRows(rows, byColumn(database.ColIndex)) {
		out = append(out, &object.Index{
			Name:    group[0].String(database.ColIndex),
			Table:   t,
			Columns: columnsOf(group),
			Unique:  !group[0].Bool(database.ColNonUnique),
		})
	}
	return out
}

func buildUniqueConstraints(rows []database.Row, t *object.Table) []object.Object {
	var out []object.Object
	for _, group := range groupRows(rows, byColumn(database.ColConstraint)) {
		out = append(out, &object.UniqueConstraint{
			Name:              group[0].String(database.ColConstraint),
			Table:             t,
			Columns:           columnsOf(group),
			Deferrable:        group[0].Bool(database.ColDeferrable),
			InitiallyDeferred: group[0].Bool(database.ColInitiallyDeferred),
		})
	}
	return out
}

// buildForeignKeys groups rows by constraint name, or by the per-table key id
// for databases that leave foreign keys unnamed.
func buildForeignKeys(rows []database.Row, t *object.Table) []object.Object {
	key := func(row database.Row) string {
		if name := row.String(database.ColForeignKey); name != "" {
			return name
		}
		return "#" + row.String(database.ColForeignKeyID)
	}

	var out []object.Object
	for _, group := range groupRows(rows, key) {
		first := group[0]

		refCols := make([]string, 0, len(group))
		for _, row := range group {
			if c := row.String(database.ColRefColumn); c != "" {
				refCols = append(refCols, c)
			}
		}

		out = append(out, &object.ForeignKey{
			Name:              first.String(database.ColForeignKey),
			Table:             t,
			Columns:           columnsOf(group),
			ReferencedTable:   referencedTable(first),
			ReferencedColumns: refCols,
			UpdateRule:        object.ParseForeignKeyRule(first.String(database.ColUpdateRule)),
			DeleteRule:        object.ParseForeignKeyRule(first.String(database.ColDeleteRule)),
			Deferrable:        first.Bool(database.ColDeferrable),
			InitiallyDeferred: first.Bool(database.ColInitiallyDeferred),
		})
	}
	return out
}

func referencedTable(row database.Row) *object.Table {
	ref := &object.Table{Name: row.String(database.ColRefTable)}
	if schema := row.String(database.ColRefSchema); schema != "" {
		ref.Schema = &object.Schema{Name: schema}
	}
	return ref
}

func byColumn(col string) func(database.Row) string {
	return func(row database.Row) string {
		return row.String(col)
	}
}
