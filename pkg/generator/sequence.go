package generator

import (
	"context"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
)

type sequenceHandler struct{}

// Sequence produces sequences and adds every sequence of a schema to it. It
// is inactive for dialects without sequences.
func Sequence() snapshot.Generator {
	return newGenerator(SequenceName, object.TypeSequence, sequenceHandler{}, withAddsTo(object.TypeSchema))
}

func (sequenceHandler) snapshotObject(ctx context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
	d := snap.Dialect()
	schema := resolveSchema(snap, object.SchemaOf(example))

	rows, err := metadata(ctx, snap, object.TypeSequence, lookupFor(d, schema, example.GetName()))
	if err != nil {
		return nil, err
	}

	row := matchingRow(d, rows, database.ColSequence, example.GetName())
	if row == nil {
		return nil, nil
	}

	return buildSequence(row, schema), nil
}

func (sequenceHandler) addTo(ctx context.Context, owner object.Object, snap *snapshot.Snapshot) error {
	schema := owner.(*object.Schema)

	rows, err := metadata(ctx, snap, object.TypeSequence, lookupFor(snap.Dialect(), schema, ""))
	if err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := snap.Adopt(buildSequence(row, schema)); err != nil {
			return err
		}
	}

	return nil
}

func buildSequence(row database.Row, schema *object.Schema) *object.Sequence {
	return &object.Sequence{
		Name:        row.String(database.ColSequence),
		Schema:      schema,
		StartValue:  row.Int64Ptr(database.ColStartValue),
		IncrementBy: row.Int64Ptr(database.ColIncrementBy),
		MinValue:    row.Int64Ptr(database.ColMinValue),
		MaxValue:    row.Int64Ptr(database.ColMaxValue),
		Ordered:     row.Bool(database.ColOrdered),
		WillCycle:   row.Bool(database.ColWillCycle),
	}
}
