package compare_test

import (
	"strings"
	"testing"

	"github.com/pseudomuto/snapdiff/pkg/compare"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPointers(t *testing.T) {
	tests := []struct {
		name string
		a, b *int64
		want bool
	}{
		{"both nil", nil, nil, true},
		{"first nil", nil, ptr(int64(1)), false},
		{"second nil", ptr(int64(1)), nil, false},
		{"equal", ptr(int64(9)), ptr(int64(9)), true},
		{"different", ptr(int64(9)), ptr(int64(10)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, compare.Pointers(tt.a, tt.b))
		})
	}
}

func TestPointersWithEqual(t *testing.T) {
	trimmed := func(x, y *string) bool {
		return strings.TrimSpace(*x) == strings.TrimSpace(*y)
	}

	require.True(t, compare.PointersWithEqual(nil, nil, trimmed))
	require.False(t, compare.PointersWithEqual(ptr("0"), nil, trimmed))
	require.False(t, compare.PointersWithEqual(nil, ptr("0"), trimmed))
	require.True(t, compare.PointersWithEqual(ptr(" 0"), ptr("0 "), trimmed))
	require.False(t, compare.PointersWithEqual(ptr("0"), ptr("1"), trimmed))
}

func TestSlices(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{"both empty", nil, []string{}, true},
		{"equal ignoring case", []string{"id", "Name"}, []string{"ID", "name"}, true},
		{"different order", []string{"id", "name"}, []string{"name", "id"}, false},
		{"different length", []string{"id"}, []string{"id", "name"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, compare.Slices(tt.a, tt.b, strings.EqualFold))
		})
	}
}

func TestDeref(t *testing.T) {
	var missing *string
	require.Nil(t, compare.Deref(missing))
	require.Equal(t, "now()", compare.Deref(ptr("now()")))
	require.Equal(t, int64(0), compare.Deref(ptr(int64(0))))
}
