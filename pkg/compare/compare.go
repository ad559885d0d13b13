package compare

// Pointers reports whether a and b are both nil, or both non-nil with equal
// values.
//
// Example:
//
//	func (d DataType) Equal(other DataType) bool {
//		return d.Name == other.Name &&
//			compare.Pointers(d.Size, other.Size) &&
//			compare.Pointers(d.Scale, other.Scale)
//	}
func Pointers[T comparable](a, b *T) bool {
	if (a != nil) != (b != nil) {
		return false
	}
	return a == nil || *a == *b
}

// PointersWithEqual is Pointers with a custom value comparison.
//
// Example:
//
//	compare.PointersWithEqual(a.DefaultValue, b.DefaultValue, func(x, y *string) bool {
//		return strings.TrimSpace(*x) == strings.TrimSpace(*y)
//	})
func PointersWithEqual[T any](a, b *T, equal func(*T, *T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equal(a, b)
}

// Slices reports whether a and b have the same length and pairwise equal
// elements.
//
// Example:
//
//	compare.Slices(pk.Columns, other.Columns, dialect.NamesEqual)
func Slices[T any](a, b []T, equal func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Deref returns the value a points to, or nil for a nil pointer. It keeps
// "not reported" distinct from a zero value when recording differences.
func Deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
