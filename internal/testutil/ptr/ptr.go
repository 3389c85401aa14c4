// Package ptr builds the nullable column values used by test fixtures.
// A nil pointer stands for SQL NULL.
package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T { return &v }

// Int64 returns a pointer to v; shorthand for To[int64] with untyped constants.
func Int64(v int64) *int64 { return To(v) }

// String returns a pointer to v.
func String(v string) *string { return To(v) }
