package generator_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/filter"
	"github.com/pseudomuto/snapdiff/pkg/generator"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
	"github.com/stretchr/testify/require"
)

const sqliteFixture = `
CREATE TABLE parent (
  id INTEGER PRIMARY KEY,
  name VARCHAR(50) NOT NULL UNIQUE
);
CREATE TABLE child (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  parent_id INTEGER REFERENCES parent(id) ON DELETE CASCADE,
  amount NUMERIC(10, 2) DEFAULT 0
);
CREATE INDEX idx_child_parent ON child(parent_id);
CREATE VIEW named_children AS SELECT c.id, p.name FROM child c JOIN parent p ON p.id = c.parent_id;
`

// countingDB records every statement it runs.
type countingDB struct {
	database.Database

	mu      sync.Mutex
	queries []string
}

func (db *countingDB) Query(ctx context.Context, q string, args ...any) ([]database.Row, error) {
	db.mu.Lock()
	db.queries = append(db.queries, q)
	db.mu.Unlock()

	return db.Database.Query(ctx, q, args...)
}

func (db *countingDB) count(marker string) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int
	for _, q := range db.queries {
		if strings.Contains(q, marker) {
			n++
		}
	}
	return n
}

func openSQLite(t *testing.T, ddl string) *database.SQL {
	t.Helper()

	db, err := database.Open(t.Context(), "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, ok := db.(*database.SQL)
	require.True(t, ok)
	require.NoError(t, sqlDB.Exec(t.Context(), ddl))
	return sqlDB
}

func takeSnapshot(t *testing.T, db database.Database, control *snapshot.Control) *snapshot.Snapshot {
	t.Helper()

	snap, err := snapshot.NewFactory(generator.Default()).Create(t.Context(), db, control, nil)
	require.NoError(t, err)
	return snap
}

func snapshotWithExamples(t *testing.T, db database.Database, examples ...object.Object) (*snapshot.Snapshot, error) {
	t.Helper()
	return snapshot.NewFactory(generator.Default()).Create(t.Context(), db, nil, examples)
}

func getTable(t *testing.T, snap *snapshot.Snapshot, name string) *object.Table {
	t.Helper()

	found, err := snap.Get(&object.Table{Name: name})
	require.NoError(t, err)
	require.NotNil(t, found, "table %s not in snapshot", name)
	return found.(*object.Table)
}

func TestSQLiteSnapshot(t *testing.T) {
	snap := takeSnapshot(t, openSQLite(t, sqliteFixture), nil)

	require.Equal(t, "SQLite", snap.Metadata().ProductName)
	require.NotEmpty(t, snap.Metadata().ProductVersion)
	require.Len(t, snapshot.AllOf[*object.Schema](snap), 1)
	require.Len(t, snapshot.AllOf[*object.Catalog](snap), 1)

	tables := snapshot.AllOf[*object.Table](snap)
	require.Len(t, tables, 2)
	require.Equal(t, "child", tables[0].Name)
	require.Equal(t, "parent", tables[1].Name)
	require.Same(t, snapshot.AllOf[*object.Schema](snap)[0], tables[0].Schema)

	t.Run("columns", func(t *testing.T) {
		child := getTable(t, snap, "child")
		require.Len(t, child.Columns, 3)

		id := child.Column("id")
		require.True(t, id.AutoIncrement)
		require.False(t, id.Nullable)
		require.Equal(t, 1, id.Position)

		parentID := child.Column("parent_id")
		require.True(t, parentID.Nullable)
		require.Nil(t, parentID.DefaultValue)

		amount := child.Column("amount")
		require.Equal(t, "NUMERIC", amount.Type.Name)
		require.Equal(t, 10, *amount.Type.Size)
		require.Equal(t, 2, *amount.Type.Scale)
		require.Equal(t, "0", *amount.DefaultValue)

		name := getTable(t, snap, "parent").Column("name")
		require.Equal(t, "VARCHAR", name.Type.Name)
		require.Equal(t, 50, *name.Type.Size)
		require.False(t, name.Nullable)

		require.Len(t, snapshot.AllOf[*object.Column](snap), 7)
	})

	t.Run("views", func(t *testing.T) {
		views := snapshot.AllOf[*object.View](snap)
		require.Len(t, views, 1)
		require.Equal(t, "named_children", views[0].Name)
		require.Contains(t, views[0].Definition, "JOIN parent")
		require.Regexp(t, `^SELECT `, views[0].Definition)
		require.Len(t, views[0].Columns, 2)
		require.Same(t, views[0], views[0].Columns[0].Relation)
	})

	t.Run("keys", func(t *testing.T) {
		parent := getTable(t, snap, "parent")
		require.NotNil(t, parent.PrimaryKey)
		require.Equal(t, []string{"id"}, parent.PrimaryKey.Columns)

		child := getTable(t, snap, "child")
		require.Len(t, child.ForeignKeys, 1)

		fk := child.ForeignKeys[0]
		require.Same(t, parent, fk.ReferencedTable)
		require.Equal(t, []string{"parent_id"}, fk.Columns)
		require.Equal(t, []string{"id"}, fk.ReferencedColumns)
		require.Equal(t, object.RuleCascade, fk.DeleteRule)
		require.Equal(t, object.RuleNoAction, fk.UpdateRule)
	})

	t.Run("indexes and unique constraints", func(t *testing.T) {
		parent := getTable(t, snap, "parent")
		require.Len(t, parent.UniqueConstraints, 1)
		require.Equal(t, []string{"name"}, parent.UniqueConstraints[0].Columns)

		require.Len(t, parent.Indexes, 1)
		auto := parent.Indexes[0]
		require.True(t, auto.Unique)
		require.True(t, auto.IsAssociatedWith(object.TypeUniqueConstraint))
		require.Same(t, auto, parent.UniqueConstraints[0].BackingIndex)

		child := getTable(t, snap, "child")
		require.Len(t, child.Indexes, 1)
		require.Equal(t, "idx_child_parent", child.Indexes[0].Name)
		require.False(t, child.Indexes[0].IsBacking())
	})

	t.Run("no sequences", func(t *testing.T) {
		require.Empty(t, snapshot.AllOf[*object.Sequence](snap))
	})
}

func TestSnapshotScoping(t *testing.T) {
	db := openSQLite(t, sqliteFixture)

	t.Run("filter", func(t *testing.T) {
		f, err := filter.Parse("table:parent", filter.Include)
		require.NoError(t, err)

		snap := takeSnapshot(t, db, snapshot.NewControl(database.SQLite).WithFilter(f))
		tables := snapshot.AllOf[*object.Table](snap)
		require.Len(t, tables, 1)
		require.Equal(t, "parent", tables[0].Name)
		require.Len(t, tables[0].Columns, 2)
		require.Empty(t, snapshot.AllOf[*object.View](snap))
	})

	t.Run("types", func(t *testing.T) {
		snap := takeSnapshot(t, db, snapshot.NewControl(database.SQLite, object.TypeTable))
		require.Len(t, snapshot.AllOf[*object.Table](snap), 2)
		require.Empty(t, snapshot.AllOf[*object.Column](snap))
		require.Empty(t, snapshot.AllOf[*object.View](snap))
		require.Empty(t, getTable(t, snap, "child").Columns)
	})

	t.Run("single table example", func(t *testing.T) {
		snap, err := snapshotWithExamples(t, db, &object.Table{Name: "PARENT"})
		require.NoError(t, err)

		tables := snapshot.AllOf[*object.Table](snap)
		require.Len(t, tables, 1)
		require.Equal(t, "parent", tables[0].Name)
		require.Len(t, tables[0].Columns, 2)
	})
}

func TestColumnMetadataIsBulkFetched(t *testing.T) {
	var ddl strings.Builder
	for i := range 10 {
		fmt.Fprintf(&ddl, "CREATE TABLE t%02d (id INTEGER PRIMARY KEY, label TEXT);\n", i)
	}

	db := &countingDB{Database: openSQLite(t, ddl.String())}
	snap := takeSnapshot(t, db, nil)

	require.Len(t, snapshot.AllOf[*object.Table](snap), 10)
	require.Len(t, snapshot.AllOf[*object.Column](snap), 20)
	require.Equal(t, 4, db.count("is_autoincrement"))

	stats := snap.CacheStats()[string(object.TypeColumn)]
	require.Equal(t, 3, stats.SingleFetches)
	require.Equal(t, 1, stats.BulkFetches)
}

func TestGeneratorChains(t *testing.T) {
	r := generator.Default()

	chainNames := func(kind object.Type, d *database.Dialect) []string {
		var out []string
		for _, g := range r.Generators(kind, d) {
			out = append(out, g.Name())
		}
		return out
	}

	require.Equal(t,
		[]string{"column", "foreignKey", "primaryKey", "sqliteIndex", "uniqueConstraint", "table"},
		chainNames(object.TypeTable, database.SQLite),
	)
	require.Equal(t,
		[]string{"clickhouseColumn", "clickhousePrimaryKey", "table"},
		chainNames(object.TypeTable, database.ClickHouse),
	)
	require.Equal(t,
		[]string{"column", "foreignKey", "index", "primaryKey", "uniqueConstraint", "table"},
		chainNames(object.TypeTable, database.Postgres),
	)
	require.Equal(t,
		[]string{"sequence", "table", "view", "schema"},
		chainNames(object.TypeSchema, database.Postgres),
	)
	require.Equal(t, []string{"sqliteView", "table", "schema"}, chainNames(object.TypeSchema, database.SQLite))
	require.Empty(t, chainNames(object.TypeSequence, database.ClickHouse))
}
