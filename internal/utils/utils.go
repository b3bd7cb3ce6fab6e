// Package utils holds small generic helpers shared across the SDK.
package utils

// Value dereferences a pointer, returning the zero value when nil.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// ToStringSlice converts a decoded JSON array to a string slice, skipping
// any elements that are not strings. JWT claim arrays decode as []any, so
// this is the bridge from raw claims to typed string sets.
func ToStringSlice(slice []any) []string {
	stringSlice := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

// ContainsString reports whether s is present in values.
func ContainsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
