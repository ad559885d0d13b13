package generator

import (
	"context"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

type (
	// columnBuilder turns a metadata row into a column of r.
	columnBuilder func(row database.Row, r object.Relation) *object.Column

	columnHandler struct {
		build columnBuilder
	}
)

// Column produces columns and adds them to tables and views.
func Column() snapshot.Generator {
	return newGenerator(
		ColumnName,
		object.TypeColumn,
		columnHandler{build: buildColumn},
		withAddsTo(object.TypeTable, object.TypeView),
	)
}

func (h columnHandler) snapshotObject(ctx context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
	ex := example.(*object.Column)
	if ex.Relation == nil {
		return nil, nil
	}

	d := snap.Dialect()
	rows, err := metadata(ctx, snap, object.TypeColumn, relationLookup(d, ex.Relation))
	if err != nil {
		return nil, err
	}

	row := matchingRow(d, rows, database.ColColumn, ex.Name)
	if row == nil {
		return nil, nil
	}

	return h.build(row, ex.Relation), nil
}

func (h columnHandler) addTo(ctx context.Context, owner object.Object, snap *snapshot.Snapshot) error {
	rel, ok := owner.(object.Relation)
	if !ok {
		return nil
	}

	rows, err := metadata(ctx, snap, object.TypeColumn, relationLookup(snap.Dialect(), rel))
	if err != nil {
		return err
	}

	for _, row := range rows {
		adopted, err := snap.Adopt(h.build(row, rel))
		if err != nil {
			return err
		}
		if adopted == nil {
			continue
		}

		col := adopted.(*object.Column)
		switch r := rel.(type) {
		case *object.Table:
			r.AddColumn(col)
		case *object.View:
			r.AddColumn(col)
		}
	}

	return nil
}

func buildColumn(row database.Row, r object.Relation) *object.Column {
	dt := object.ParseDataType(row.String(database.ColDataType))
	if size := row.IntPtr(database.ColColumnSize); size != nil {
		dt.Size = size
	}
	if scale := row.IntPtr(database.ColDecimalDigits); scale != nil {
		dt.Scale = scale
	}

	return &object.Column{
		Name:          row.String(database.ColColumn),
		Relation:      r,
		Type:          dt,
		Nullable:      row.Bool(database.ColNullable),
		DefaultValue:  row.StringPtr(database.ColDefault),
		AutoIncrement: row.Bool(database.ColAutoIncrement),
		Position:      row.Int(database.ColPosition),
		Remarks:       row.String(database.ColRemarks),
	}
}
