package strutil

import "strings"

// NormalizeKey trims surrounding whitespace and lower-cases. Use for column
// names and other tokens where case is not significant.
func NormalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
