package object_test

import (
	"testing"

	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  object.Type
		err   bool
	}{
		{name: "exact", input: "table", want: object.TypeTable},
		{name: "mixed case", input: "ForeignKey", want: object.TypeForeignKey},
		{name: "padded", input: "  uniqueconstraint ", want: object.TypeUniqueConstraint},
		{name: "unknown", input: "trigger", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := object.ParseType(tt.input)
			if tt.err {
				require.ErrorIs(t, err, object.ErrUnknownType)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTypesContainersFirst(t *testing.T) {
	types := object.Types()
	require.Equal(t, object.TypeCatalog, types[0])
	require.Equal(t, object.TypeSchema, types[1])
	require.Len(t, types, 10)

	// callers get their own copy
	types[0] = object.TypeView
	require.Equal(t, object.TypeCatalog, object.Types()[0])
}

func TestParseDataType(t *testing.T) {
	tests := []struct {
		input string
		want  string
		size  *int
		scale *int
	}{
		{input: "int", want: "int"},
		{input: "VARCHAR(50)", want: "VARCHAR(50)", size: ptr(50)},
		{input: "numeric(10, 2)", want: "numeric(10,2)", size: ptr(10), scale: ptr(2)},
		{input: "DateTime64(3, 'UTC')", want: "DateTime64(3, 'UTC')"},
		{input: " character varying ( 12 ) ", want: "character varying(12)", size: ptr(12)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dt := object.ParseDataType(tt.input)
			require.Equal(t, tt.want, dt.String())
			require.Equal(t, tt.size, dt.Size)
			require.Equal(t, tt.scale, dt.Scale)
		})
	}
}

func TestDataTypeEqual(t *testing.T) {
	assert.True(t, object.ParseDataType("VARCHAR(50)").Equal(object.ParseDataType("varchar(50)")))
	assert.False(t, object.ParseDataType("varchar(50)").Equal(object.ParseDataType("varchar(60)")))
	assert.False(t, object.ParseDataType("varchar").Equal(object.ParseDataType("varchar(60)")))
	assert.False(t, object.ParseDataType("int").Equal(object.ParseDataType("bigint")))
}

func TestOwnership(t *testing.T) {
	schema := &object.Schema{Name: "public"}
	users := &object.Table{Name: "users", Schema: schema}
	users.AddColumn(&object.Column{Name: "id"})
	users.AddColumn(&object.Column{Name: "email"})
	users.PrimaryKey = &object.PrimaryKey{Name: "users_pkey", Table: users, Columns: []string{"id"}}
	users.Indexes = []*object.Index{{Name: "users_email_idx", Table: users, Columns: []string{"email"}}}

	t.Run("columns point back at the table", func(t *testing.T) {
		col := users.Column("EMAIL")
		require.NotNil(t, col)
		require.Same(t, users, col.Table())
		require.Equal(t, "public.users.email", col.String())
	})

	t.Run("schema follows the relation", func(t *testing.T) {
		require.Same(t, schema, object.SchemaOf(users.Columns[0]))
		require.Same(t, schema, object.SchemaOf(users.PrimaryKey))
		require.Same(t, schema, object.SchemaOf(users))
		require.Nil(t, object.SchemaOf(&object.Index{Name: "orphan"}))
	})

	t.Run("relation of an orphan is a nil interface", func(t *testing.T) {
		require.Nil(t, object.RelationOf(&object.ForeignKey{Name: "fk"}))
		require.Nil(t, object.RelationOf(users))
	})

	t.Run("children", func(t *testing.T) {
		children := object.Children(users)
		require.Len(t, children, 4)
		require.Equal(t, object.TypeColumn, children[0].ObjectType())
		require.Equal(t, object.TypePrimaryKey, children[2].ObjectType())
		require.Equal(t, object.TypeIndex, children[3].ObjectType())
		require.Empty(t, object.Children(schema))
	})
}

func TestIndexAssociations(t *testing.T) {
	idx := &object.Index{Name: "sqlite_autoindex_users_1"}
	require.False(t, idx.IsBacking())

	idx.Associate(object.TypePrimaryKey)
	idx.Associate(object.TypePrimaryKey)
	require.True(t, idx.IsBacking())
	require.True(t, idx.IsAssociatedWith(object.TypePrimaryKey))
	require.False(t, idx.IsAssociatedWith(object.TypeUniqueConstraint))
	require.Len(t, idx.Associations, 1)
}

func TestParseForeignKeyRule(t *testing.T) {
	assert.Equal(t, object.RuleCascade, object.ParseForeignKeyRule("cascade"))
	assert.Equal(t, object.RuleSetNull, object.ParseForeignKeyRule("SET_NULL"))
	assert.Equal(t, object.RuleNoAction, object.ParseForeignKeyRule(""))
	assert.Equal(t, object.RuleNoAction, object.ParseForeignKeyRule("weird"))
}

func TestForeignKeyString(t *testing.T) {
	parent := &object.Table{Name: "parent"}
	child := &object.Table{Name: "child"}
	fk := &object.ForeignKey{
		Name:              "fk1",
		Table:             child,
		Columns:           []string{"parent_id"},
		ReferencedTable:   parent,
		ReferencedColumns: []string{"id"},
	}

	require.Equal(t, "child.fk1(parent_id) -> parent(id)", fk.String())
}

func ptr(i int) *int { return &i }
