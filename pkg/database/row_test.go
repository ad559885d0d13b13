package database_test

import (
	"testing"

	"github.com/pseudomuto/snapdiff/pkg/database"
	"github.com/pseudomuto/snapdiff/pkg/object"
	"github.com/stretchr/testify/require"
)

func TestRowString(t *testing.T) {
	row := database.Row{
		"s":   "users",
		"b":   []byte("bytes"),
		"n":   int64(42),
		"nil": nil,
	}

	require.Equal(t, "users", row.String("s"))
	require.Equal(t, "bytes", row.String("b"))
	require.Equal(t, "42", row.String("n"))
	require.Equal(t, "", row.String("nil"))
	require.Equal(t, "", row.String("missing"))

	require.Nil(t, row.StringPtr("nil"))
	require.Nil(t, row.StringPtr("missing"))
	require.Equal(t, "users", *row.StringPtr("s"))
}

func TestRowNumbers(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *int64
	}{
		{name: "int64", value: int64(7), want: ptr(7)},
		{name: "int32", value: int32(7), want: ptr(7)},
		{name: "uint64", value: uint64(7), want: ptr(7)},
		{name: "uint8", value: uint8(1), want: ptr(1)},
		{name: "float", value: 7.0, want: ptr(7)},
		{name: "string", value: " 7 ", want: ptr(7)},
		{name: "bytes", value: []byte("7"), want: ptr(7)},
		{name: "bool", value: true, want: ptr(1)},
		{name: "not a number", value: "seven", want: nil},
		{name: "null", value: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := database.Row{"v": tt.value}
			require.Equal(t, tt.want, row.Int64Ptr("v"))
			if tt.want == nil {
				require.Nil(t, row.IntPtr("v"))
				require.Equal(t, 0, row.Int("v"))
			} else {
				require.Equal(t, int(*tt.want), row.Int("v"))
			}
		})
	}
}

func TestRowBool(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{value: true, want: true},
		{value: false, want: false},
		{value: "YES", want: true},
		{value: "no", want: false},
		{value: "t", want: true},
		{value: []byte("TRUE"), want: true},
		{value: int64(1), want: true},
		{value: uint8(0), want: false},
		{value: nil, want: false},
	}

	for _, tt := range tests {
		row := database.Row{"v": tt.value}
		require.Equal(t, tt.want, row.Bool("v"), "value %#v", tt.value)
	}
}

func TestRowClone(t *testing.T) {
	row := database.Row{"a": "x"}
	clone := row.Clone()
	clone["a"] = "y"

	require.Equal(t, "x", row["a"])
	require.True(t, clone.Has("a"))
	require.False(t, clone.Has("b"))
}

func TestNameColumn(t *testing.T) {
	require.Equal(t, database.ColTable, database.NameColumn(object.TypeView))
	require.Equal(t, database.ColConstraint, database.NameColumn(object.TypeUniqueConstraint))
	require.Equal(t, database.ColSequence, database.NameColumn(object.TypeSequence))
	for _, typ := range object.Types() {
		require.NotEmpty(t, database.NameColumn(typ), typ)
	}
}

func ptr(n int64) *int64 { return &n }
