package generator

import (
	"context"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

type (
	tableHandler struct{}

	// viewHandler reads views. body, when set, extracts the SELECT from the
	// definition the dialect reports.
	viewHandler struct {
		body func(string) string
	}
)

// Table produces tables and adds every table of a schema to it.
func Table() snapshot.Generator {
	return newGenerator(TableName, object.TypeTable, tableHandler{}, withAddsTo(object.TypeSchema))
}

// View produces views and adds every view of a schema to it.
func View() snapshot.Generator {
	return newGenerator(ViewName, object.TypeView, viewHandler{}, withAddsTo(object.TypeSchema))
}

func (tableHandler) snapshotObject(ctx context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
	row, schema, err := findRelation(ctx, snap, object.TypeTable, example)
	if row == nil || err != nil {
		return nil, err
	}

	return &object.Table{
		Name:    row.String(database.ColTable),
		Schema:  schema,
		Remarks: row.String(database.ColRemarks),
	}, nil
}

func (tableHandler) addTo(ctx context.Context, owner object.Object, snap *snapshot.Snapshot) error {
	return includeRelations(ctx, snap, object.TypeTable, owner.(*object.Schema), func(name string, s *object.Schema) object.Object {
		return &object.Table{Name: name, Schema: s}
	})
}

func (h viewHandler) snapshotObject(ctx context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
	row, schema, err := findRelation(ctx, snap, object.TypeView, example)
	if row == nil || err != nil {
		return nil, err
	}

	def := row.String(database.ColViewDefinition)
	if h.body != nil {
		def = h.body(def)
	}

	return &object.View{
		Name:       row.String(database.ColTable),
		Schema:     schema,
		Definition: def,
		Remarks:    row.String(database.ColRemarks),
	}, nil
}

func (viewHandler) addTo(ctx context.Context, owner object.Object, snap *snapshot.Snapshot) error {
	return includeRelations(ctx, snap, object.TypeView, owner.(*object.Schema), func(name string, s *object.Schema) object.Object {
		return &object.View{Name: name, Schema: s}
	})
}

func findRelation(
	ctx context.Context,
	snap *snapshot.Snapshot,
	kind object.Type,
	example object.Object,
) (database.Row, *object.Schema, error) {
	d := snap.Dialect()
	schema := resolveSchema(snap, object.SchemaOf(example))

	rows, err := metadata(ctx, snap, kind, lookupFor(d, schema, example.GetName()))
	if err != nil {
		return nil, nil, err
	}

	return matchingRow(d, rows, database.ColTable, example.GetName()), schema, nil
}

// includeRelations lists the relations of kind in schema and includes each,
// so the full generator chain describes them.
func includeRelations(
	ctx context.Context,
	snap *snapshot.Snapshot,
	kind object.Type,
	schema *object.Schema,
	example func(name string, s *object.Schema) object.Object,
) error {
	rows, err := metadata(ctx, snap, kind, lookupFor(snap.Dialect(), schema, ""))
	if err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := snap.Include(ctx, example(row.String(database.ColTable), schema)); err != nil {
			return err
		}
	}

	return nil
}
