package changelog

import (
	"testing"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/diff"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
	"github.com/stretchr/testify/require"
)

func TestUnrecognizedDifference(t *testing.T) {
	users := &object.Table{Name: "users"}
	col := &object.Column{Name: "email", Relation: users}
	c := &diff.Change{
		Reference:   col,
		Comparison:  &object.Column{Name: "email", Relation: users},
		Differences: []diff.Difference{{Field: "collation"}},
	}

	err := checkDifferences(object.TypeColumn, c)
	require.ErrorIs(t, err, ErrUnrecognizedDifference)
	require.ErrorContains(t, err, "collation")

	result, err := diff.Compare(snapshot.New(database.Postgres, nil), snapshot.New(database.Postgres, nil), diff.Options{})
	require.NoError(t, err)

	_, err = newPlan(Options{}, result).alterColumn(col, c.Differences[0])
	require.ErrorIs(t, err, ErrUnrecognizedDifference)
}

func TestBookkeepingObjectsAreSkipped(t *testing.T) {
	result, err := diff.Compare(snapshot.New(database.Postgres, nil), snapshot.New(database.Postgres, nil), diff.Options{})
	require.NoError(t, err)

	p := newPlan(Options{BookkeepingTables: []string{"schema_changelog"}}, result)
	log := &object.Table{Name: "SCHEMA_CHANGELOG"}

	require.True(t, p.isBookkeeping(log))
	require.True(t, p.isBookkeeping(&object.Column{Name: "id", Relation: log}))
	require.True(t, p.isBookkeeping(&object.Index{Name: "idx", Table: log}))
	require.False(t, p.isBookkeeping(&object.Table{Name: "users"}))
	require.False(t, p.isBookkeeping(&object.Sequence{Name: "schema_changelog"}))
}
