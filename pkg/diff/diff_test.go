package diff_test

import (
	"testing"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/diff"
	"github.com/pseudomuto/snapdiff/pkg/filter"
	"github.com/pseudomuto/snapdiff/pkg/generator"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/pseudomuto/snapdiff/pkg/snapshot"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// build stores objects and everything nested under them in a new snapshot.
func build(t *testing.T, d *database.Dialect, objs ...object.Object) *snapshot.Snapshot {
	t.Helper()

	snap := snapshot.New(d, nil)
	var add func(o object.Object)
	add = func(o object.Object) {
		for _, child := range object.Children(o) {
			add(child)
		}
		_, err := snap.Add(o)
		require.NoError(t, err)
	}

	for _, o := range objs {
		add(o)
	}
	return snap
}

func table(schema *object.Schema, name string, cols ...*object.Column) *object.Table {
	t := &object.Table{Name: name, Schema: schema}
	for _, c := range cols {
		t.AddColumn(c)
	}
	return t
}

func column(name, typ string, nullable bool) *object.Column {
	return &object.Column{Name: name, Type: object.ParseDataType(typ), Nullable: nullable}
}

func openSQLite(t *testing.T, ddl string) database.Database {
	t.Helper()

	db, err := database.Open(t.Context(), "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	if ddl != "" {
		require.NoError(t, db.(*database.SQL).Exec(t.Context(), ddl))
	}
	return db
}

func snapshotOf(t *testing.T, db database.Database) *snapshot.Snapshot {
	t.Helper()

	snap, err := snapshot.NewFactory(generator.Default()).Create(t.Context(), db, nil, nil)
	require.NoError(t, err)
	return snap
}

func TestCompareSameDatabaseIsEmpty(t *testing.T) {
	db := openSQLite(t, `
CREATE TABLE parent (id INTEGER PRIMARY KEY, name VARCHAR(50) NOT NULL UNIQUE);
CREATE TABLE child (
  id INTEGER PRIMARY KEY,
  parent_id INTEGER REFERENCES parent(id),
  note TEXT DEFAULT 'none'
);
CREATE INDEX idx_child_parent ON child(parent_id);
CREATE VIEW v AS SELECT id FROM child;
`)

	result, err := diff.Compare(snapshotOf(t, db), snapshotOf(t, db), diff.Options{})
	require.NoError(t, err)
	require.True(t, result.IsEmpty(), "types with differences: %v", result.Types())
}

func TestCompareMissingTable(t *testing.T) {
	reference := snapshotOf(t, openSQLite(t, "CREATE TABLE FOO (id INT PRIMARY KEY, name VARCHAR(50));"))
	target := snapshotOf(t, openSQLite(t, ""))

	result, err := diff.Compare(reference, target, diff.Options{})
	require.NoError(t, err)

	tables := diff.MissingOf[*object.Table](result)
	require.Len(t, tables, 1)
	require.Equal(t, "FOO", tables[0].Name)

	var cols []string
	for _, c := range diff.MissingOf[*object.Column](result) {
		cols = append(cols, c.Name)
	}
	require.ElementsMatch(t, []string{"id", "name"}, cols)

	require.Len(t, result.Missing(object.TypePrimaryKey), 1)
	require.Empty(t, result.Unexpected(object.TypeTable))
	require.Empty(t, result.Changed(object.TypeColumn))
	require.Equal(t, "SQLite", result.Reference.Metadata().ProductName)
}

func TestCompareNullabilityChange(t *testing.T) {
	public := &object.Schema{Name: "public"}
	reference := build(t, database.Postgres, table(public, "users",
		column("id", "int4", false),
		column("email", "varchar(255)", false),
	))
	target := build(t, database.Postgres, table(public, "users",
		column("id", "int4", false),
		column("email", "varchar(255)", true),
	))

	result, err := diff.Compare(reference, target, diff.Options{})
	require.NoError(t, err)
	require.Equal(t, []object.Type{object.TypeColumn}, result.Types())

	changed := result.Changed(object.TypeColumn)
	require.Len(t, changed, 1)
	require.Equal(t, "email", changed[0].Reference.GetName())
	require.Equal(t, []diff.Difference{
		{Field: diff.FieldNullable, Reference: false, Comparison: true},
	}, changed[0].Differences)

	d, ok := changed[0].Difference(diff.FieldNullable)
	require.True(t, ok)
	require.Equal(t, true, d.Comparison)
}

func TestCompareForeignKeyIsNotMatchedToIndex(t *testing.T) {
	schemaFor := func(withFK bool) *snapshot.Snapshot {
		parent := table(nil, "PARENT", column("id", "int4", false))
		parent.PrimaryKey = &object.PrimaryKey{Name: "parent_pkey", Table: parent, Columns: []string{"id"}}

		child := table(nil, "CHILD", column("id", "int4", false), column("parent_id", "int4", true))
		child.Indexes = []*object.Index{{Name: "idx_child_parent", Table: child, Columns: []string{"parent_id"}}}
		if withFK {
			child.ForeignKeys = []*object.ForeignKey{{
				Name:              "FK1",
				Table:             child,
				Columns:           []string{"parent_id"},
				ReferencedTable:   parent,
				ReferencedColumns: []string{"id"},
				UpdateRule:        object.RuleNoAction,
				DeleteRule:        object.RuleNoAction,
			}}
		}
		return build(t, database.Postgres, parent, child)
	}

	result, err := diff.Compare(schemaFor(true), schemaFor(false), diff.Options{})
	require.NoError(t, err)

	require.Equal(t, []object.Type{object.TypeForeignKey}, result.Types())
	fks := diff.MissingOf[*object.ForeignKey](result)
	require.Len(t, fks, 1)
	require.Equal(t, "FK1", fks[0].Name)
	require.Empty(t, result.Missing(object.TypeIndex))
	require.Empty(t, result.Unexpected(object.TypeIndex))
}

func TestCompareIdentityRules(t *testing.T) {
	tests := []struct {
		name      string
		dialect   *database.Dialect
		reference *object.Table
		target    *object.Table
		empty     bool
	}{
		{
			name:      "default schema resolved",
			dialect:   database.Postgres,
			reference: table(nil, "users"),
			target:    table(&object.Schema{Name: "public"}, "users"),
			empty:     true,
		},
		{
			name:      "case-insensitive names",
			dialect:   database.Postgres,
			reference: table(nil, "Users"),
			target:    table(nil, "users"),
			empty:     true,
		},
		{
			name:      "case-sensitive names",
			dialect:   database.ClickHouse,
			reference: table(nil, "Users"),
			target:    table(nil, "users"),
			empty:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := diff.Compare(build(t, tt.dialect, tt.reference), build(t, tt.dialect, tt.target), diff.Options{})
			require.NoError(t, err)
			require.Equal(t, tt.empty, result.IsEmpty())

			if !tt.empty {
				require.Len(t, result.Missing(object.TypeTable), 1)
				require.Len(t, result.Unexpected(object.TypeTable), 1)
			}
		})
	}
}

func TestCompareScope(t *testing.T) {
	public := &object.Schema{Name: "public"}
	billing := &object.Schema{Name: "billing"}

	reference := build(t, database.Postgres,
		public,
		billing,
		table(public, "users", column("id", "int4", false)),
		table(public, "audit_log", column("id", "int4", false)),
	)
	target := build(t, database.Postgres, public)

	t.Run("schemas are skipped by default", func(t *testing.T) {
		result, err := diff.Compare(reference, target, diff.Options{})
		require.NoError(t, err)
		require.Empty(t, result.Missing(object.TypeSchema))
		require.Len(t, result.Missing(object.TypeTable), 2)
	})

	t.Run("schemas compared when the filter names them", func(t *testing.T) {
		f, err := filter.Parse("schema:.*, table:.*", filter.Include)
		require.NoError(t, err)

		result, err := diff.Compare(reference, target, diff.Options{Filter: f})
		require.NoError(t, err)
		require.Len(t, result.Missing(object.TypeSchema), 1)
		require.Equal(t, "billing", result.Missing(object.TypeSchema)[0].GetName())
	})

	t.Run("filter drops objects and their children", func(t *testing.T) {
		f, err := filter.Parse("table:audit_.*", filter.Exclude)
		require.NoError(t, err)

		result, err := diff.Compare(reference, target, diff.Options{Filter: f})
		require.NoError(t, err)

		tables := diff.MissingOf[*object.Table](result)
		require.Len(t, tables, 1)
		require.Equal(t, "users", tables[0].Name)
		require.Len(t, result.Missing(object.TypeColumn), 1)
	})

	t.Run("types", func(t *testing.T) {
		result, err := diff.Compare(reference, target, diff.Options{Types: []object.Type{object.TypeColumn}})
		require.NoError(t, err)
		require.Equal(t, []object.Type{object.TypeColumn}, result.Types())
	})
}

func TestFieldsAreExhaustive(t *testing.T) {
	users := table(nil, "users")
	orders := table(nil, "orders")

	tests := []struct {
		kind      object.Type
		reference object.Object
		target    object.Object
	}{
		{
			kind:      object.TypeTable,
			reference: &object.Table{Name: "t", Remarks: "a"},
			target:    &object.Table{Name: "t", Remarks: "b"},
		},
		{
			kind:      object.TypeView,
			reference: &object.View{Name: "v", Definition: "SELECT 1"},
			target:    &object.View{Name: "v", Definition: "SELECT 2"},
		},
		{
			kind: object.TypeColumn,
			reference: &object.Column{
				Name: "c", Relation: users, Type: object.ParseDataType("int4"),
				DefaultValue: ptr("0"), Remarks: "a",
			},
			target: &object.Column{
				Name: "c", Relation: users, Type: object.ParseDataType("int8"),
				Nullable: true, AutoIncrement: true, Remarks: "b",
			},
		},
		{
			kind:      object.TypePrimaryKey,
			reference: &object.PrimaryKey{Table: users, Columns: []string{"id"}},
			target:    &object.PrimaryKey{Table: users, Columns: []string{"id", "tenant"}},
		},
		{
			kind:      object.TypeIndex,
			reference: &object.Index{Name: "i", Table: users, Columns: []string{"a"}, Unique: true},
			target:    &object.Index{Name: "i", Table: users, Columns: []string{"b"}},
		},
		{
			kind:      object.TypeUniqueConstraint,
			reference: &object.UniqueConstraint{Table: users, Columns: []string{"a"}, Deferrable: true, InitiallyDeferred: true},
			target:    &object.UniqueConstraint{Table: users, Columns: []string{"a"}},
		},
		{
			kind: object.TypeForeignKey,
			reference: &object.ForeignKey{
				Table: orders, Columns: []string{"user_id"}, ReferencedTable: users,
				UpdateRule: object.RuleCascade, DeleteRule: object.RuleCascade,
				Deferrable: true, InitiallyDeferred: true,
			},
			target: &object.ForeignKey{
				Table: orders, Columns: []string{"user_id"}, ReferencedTable: users,
				UpdateRule: object.RuleNoAction, DeleteRule: object.RuleSetNull,
			},
		},
		{
			kind: object.TypeSequence,
			reference: &object.Sequence{
				Name: "s", StartValue: ptr(int64(1)), IncrementBy: ptr(int64(1)),
				MinValue: ptr(int64(1)), MaxValue: ptr(int64(100)), Ordered: true, WillCycle: true,
			},
			target: &object.Sequence{
				Name: "s", StartValue: ptr(int64(50)), IncrementBy: ptr(int64(2)),
				MinValue: ptr(int64(0)), MaxValue: nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			result, err := diff.Compare(
				build(t, database.Postgres, tt.reference),
				build(t, database.Postgres, tt.target),
				diff.Options{Types: []object.Type{tt.kind}},
			)
			require.NoError(t, err)

			changed := result.Changed(tt.kind)
			require.Len(t, changed, 1)

			var fields []string
			for _, d := range changed[0].Differences {
				fields = append(fields, d.Field)
			}
			require.Equal(t, diff.Fields(tt.kind), fields)
		})
	}

	require.Empty(t, diff.Fields(object.TypeSchema))
}

func TestViewDefinitionWhitespace(t *testing.T) {
	reference := build(t, database.Postgres, &object.View{Name: "v", Definition: "SELECT id\n  FROM users"})
	target := build(t, database.Postgres, &object.View{Name: "v", Definition: " SELECT id FROM users "})

	result, err := diff.Compare(reference, target, diff.Options{})
	require.NoError(t, err)
	require.True(t, result.IsEmpty())
}

func TestComparedTypes(t *testing.T) {
	snap := build(t, database.Postgres)

	result, err := diff.Compare(snap, snap, diff.Options{})
	require.NoError(t, err)
	require.NotContains(t, result.ComparedTypes(), object.TypeSchema)
	require.Contains(t, result.ComparedTypes(), object.TypeSequence)

	result, err = diff.Compare(snap, snap, diff.Options{Types: []object.Type{object.TypeTable, object.TypeView}})
	require.NoError(t, err)
	require.Equal(t, []object.Type{object.TypeTable, object.TypeView}, result.ComparedTypes())
}
