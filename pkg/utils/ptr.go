package utils

// Ptr returns &v. Change operations use it for optional fields such as
// nullability and sequence bounds, where nil means "not set".
func Ptr[T any](v T) *T { return &v }
