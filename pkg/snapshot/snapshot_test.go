package snapshot_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/filter"
	"github.com/pseudomuto/snapdiff/pkg/identity"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
	"github.com/stretchr/testify/require"
)

// versionDB answers the version query and nothing else.
type versionDB struct {
	err error
}

func (db *versionDB) Dialect() *database.Dialect { return database.SQLite }
func (db *versionDB) Close() error { return nil }

func (db *versionDB) Query(context.Context, string, ...any) ([]database.Row, error) {
	if db.err != nil {
		return nil, db.err
	}
	return []database.Row{{database.ColVersion: "3.45.1"}}, nil
}

func TestAddDeduplicates(t *testing.T) {
	snap := snapshot.New(database.Postgres, nil)

	first, err := snap.Add(&object.Table{Name: "users", Schema: &object.Schema{Name: "public"}})
	require.NoError(t, err)
	require.NotEmpty(t, first.SnapshotID())

	again, err := snap.Add(&object.Table{Name: "USERS"})
	require.NoError(t, err)
	require.Same(t, first, again)

	other, err := snap.Add(&object.Table{Name: "users", Schema: &object.Schema{Name: "billing"}})
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.NotEqual(t, first.SnapshotID(), other.SnapshotID())

	require.Len(t, snap.All(object.TypeTable), 2)
	require.Len(t, snapshot.AllOf[*object.Table](snap), 2)
	require.Empty(t, snapshot.AllOf[*object.View](snap))
}

func TestGet(t *testing.T) {
	snap := snapshot.New(database.Postgres, nil)
	users := &object.Table{Name: "users"}
	_, err := snap.Add(users)
	require.NoError(t, err)

	found, err := snap.Get(&object.Table{Name: "Users", Schema: &object.Schema{Name: "public"}})
	require.NoError(t, err)
	require.Same(t, users, found)
	require.True(t, snap.Contains(&object.Table{Name: "users"}))
	require.False(t, snap.Contains(&object.Table{Name: "orders"}))

	_, err = snap.Get(&object.Column{})
	require.ErrorIs(t, err, identity.ErrInvalidExample)

	_, err = snap.Get(nil)
	require.ErrorIs(t, err, identity.ErrInvalidExample)
}

func tableRegistry(calls *[]string) *snapshot.Registry {
	return snapshot.NewRegistry(&stubGenerator{
		name:     "table",
		kind:     object.TypeTable,
		priority: snapshot.PriorityDefault,
		calls:    calls,
		build: func(_ context.Context, example object.Object, _ *snapshot.Snapshot) (object.Object, error) {
			if example.GetName() == "missing" {
				return nil, nil
			}
			return &object.Table{Name: example.GetName()}, nil
		},
	})
}

func TestInclude(t *testing.T) {
	ctx := context.Background()

	t.Run("stores generated objects once", func(t *testing.T) {
		var calls []string
		snap := snapshot.New(database.SQLite, nil,
			snapshot.WithDatabase(&versionDB{}),
			snapshot.WithRegistry(tableRegistry(&calls)),
		)

		first, err := snap.Include(ctx, &object.Table{Name: "users"})
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := snap.Include(ctx, &object.Table{Name: "USERS"})
		require.NoError(t, err)
		require.Same(t, first, second)
		require.Len(t, calls, 1)
	})

	t.Run("absent objects", func(t *testing.T) {
		snap := snapshot.New(database.SQLite, nil,
			snapshot.WithDatabase(&versionDB{}),
			snapshot.WithRegistry(tableRegistry(nil)),
		)

		obj, err := snap.Include(ctx, &object.Table{Name: "missing"})
		require.NoError(t, err)
		require.Nil(t, obj)
		require.Empty(t, snap.All(object.TypeTable))
	})

	t.Run("types outside the control", func(t *testing.T) {
		var calls []string
		control := snapshot.NewControl(database.SQLite, object.TypeView)
		snap := snapshot.New(database.SQLite, control,
			snapshot.WithDatabase(&versionDB{}),
			snapshot.WithRegistry(tableRegistry(&calls)),
		)

		obj, err := snap.Include(ctx, &object.Table{Name: "users"})
		require.NoError(t, err)
		require.Nil(t, obj)
		require.Empty(t, calls)
	})

	t.Run("filtered objects", func(t *testing.T) {
		f, err := filter.Parse("table:audit_.*", filter.Exclude)
		require.NoError(t, err)

		snap := snapshot.New(database.SQLite, snapshot.NewControl(database.SQLite).WithFilter(f),
			snapshot.WithDatabase(&versionDB{}),
			snapshot.WithRegistry(tableRegistry(nil)),
		)

		obj, err := snap.Include(ctx, &object.Table{Name: "audit_log"})
		require.NoError(t, err)
		require.Nil(t, obj)

		obj, err = snap.Include(ctx, &object.Table{Name: "users"})
		require.NoError(t, err)
		require.NotNil(t, obj)
	})

	t.Run("generator failures", func(t *testing.T) {
		boom := errors.New("connection reset")
		r := snapshot.NewRegistry(&stubGenerator{
			name:     "table",
			kind:     object.TypeTable,
			priority: snapshot.PriorityDefault,
			build: func(context.Context, object.Object, *snapshot.Snapshot) (object.Object, error) {
				return nil, boom
			},
		})
		snap := snapshot.New(database.SQLite, nil, snapshot.WithDatabase(&versionDB{}), snapshot.WithRegistry(r))

		_, err := snap.Include(ctx, &object.Table{Name: "users"})
		require.ErrorIs(t, err, snapshot.ErrMetadataAccess)
		require.ErrorIs(t, err, boom)
	})

	t.Run("without a database", func(t *testing.T) {
		snap := snapshot.New(database.SQLite, nil)
		_, err := snap.Include(ctx, &object.Table{Name: "users"})
		require.Error(t, err)
	})
}

func TestAdopt(t *testing.T) {
	control := snapshot.NewControl(database.SQLite, object.TypeTable)
	snap := snapshot.New(database.SQLite, control)

	obj, err := snap.Adopt(&object.Column{Name: "id"})
	require.NoError(t, err)
	require.Nil(t, obj)

	obj, err = snap.Adopt(&object.Table{Name: "users"})
	require.NoError(t, err)
	require.NotNil(t, obj)
}

func TestControl(t *testing.T) {
	c := snapshot.NewControl(database.ClickHouse)
	require.True(t, c.ShouldInclude(object.TypeTable))
	require.False(t, c.ShouldInclude(object.TypeForeignKey))
	require.False(t, c.ShouldInclude(object.TypeSequence))

	c = snapshot.NewControl(database.Postgres, object.TypeTable, object.TypeColumn)
	require.Equal(t, []object.Type{
		object.TypeCatalog,
		object.TypeSchema,
		object.TypeTable,
		object.TypeColumn,
	}, c.Types())
}

func TestIDGenerator(t *testing.T) {
	a, b := snapshot.NewIDGenerator(), snapshot.NewIDGenerator()

	first, second := a.Next(), a.Next()
	require.NotEqual(t, first, second)
	require.NotEqual(t, first, b.Next())
}

func TestFactoryCreate(t *testing.T) {
	ctx := context.Background()

	// The schema generator includes two tables; the table generator builds
	// keys, an index and a foreign key whose referenced table is a stub.
	r := snapshot.NewRegistry(
		&stubGenerator{
			name:     "schema",
			kind:     object.TypeSchema,
			priority: snapshot.PriorityDefault,
			build: func(ctx context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
				schema := &object.Schema{Name: example.GetName(), IsDefault: true}
				for _, name := range []string{"users", "orders"} {
					if _, err := snap.Include(ctx, &object.Table{Name: name, Schema: schema}); err != nil {
						return nil, err
					}
				}
				return schema, nil
			},
		},
		&stubGenerator{
			name:     "table",
			kind:     object.TypeTable,
			priority: snapshot.PriorityDefault,
			build: func(_ context.Context, example object.Object, snap *snapshot.Snapshot) (object.Object, error) {
				t := &object.Table{Name: example.GetName(), Schema: object.SchemaOf(example)}
				t.PrimaryKey = &object.PrimaryKey{Name: t.Name + "_pkey", Table: t, Columns: []string{"id"}}
				t.Indexes = []*object.Index{{Name: t.Name + "_pkey", Table: t, Columns: []string{"id"}, Unique: true}}

				if t.Name == "orders" {
					fk := &object.ForeignKey{
						Name:            "orders_user_id_fkey",
						Table:           t,
						Columns:         []string{"user_id"},
						ReferencedTable: &object.Table{Name: "users"},
					}
					t.ForeignKeys = append(t.ForeignKeys, fk)
					if _, err := snap.Adopt(fk); err != nil {
						return nil, err
					}
				}
				return t, nil
			},
		},
	)

	factory := snapshot.NewFactory(r)
	snap, err := factory.Create(ctx, &versionDB{}, nil, nil)
	require.NoError(t, err)

	meta := snap.Metadata()
	require.Equal(t, "SQLite", meta.ProductName)
	require.Equal(t, "3.45.1", meta.ProductVersion)
	require.Equal(t, "sqlite", meta.Dialect)
	require.Len(t, snap.Examples(), 1)

	tables := snapshot.AllOf[*object.Table](snap)
	require.Len(t, tables, 2)

	users, err := snap.Get(&object.Table{Name: "users"})
	require.NoError(t, err)

	fks := snapshot.AllOf[*object.ForeignKey](snap)
	require.Len(t, fks, 1)
	require.Same(t, users, fks[0].ReferencedTable)
	require.Equal(t, []string{"id"}, fks[0].ReferencedColumns)

	for _, tbl := range tables {
		require.True(t, tbl.Indexes[0].IsAssociatedWith(object.TypePrimaryKey))
		require.Same(t, tbl.Indexes[0], tbl.PrimaryKey.BackingIndex)
	}
}

func TestFactoryCreateFailures(t *testing.T) {
	factory := snapshot.NewFactory(snapshot.NewRegistry())

	_, err := factory.Create(context.Background(), &versionDB{err: errors.New("no route to host")}, nil, nil)
	require.ErrorIs(t, err, snapshot.ErrMetadataAccess)
}
