package services

import "strings"

// WbsLevel returns the 1-based hierarchy depth of a dotted WBS item code,
// counted as the number of dot-separated segments. "1.2.3" is level 3, "7" is
// level 1. Empty or whitespace-only input defaults to level 1.
func WbsLevel(code string) int {
	code = strings.TrimSpace(code)
	if code == "" {
		return 1
	}
	return len(strings.Split(code, "."))
}

// ParentItemCode returns the item code with its last dot segment removed, or
// nil when the code has a single segment. Segments are treated as opaque
// strings, so codes like "A.1" are accepted as-is.
func ParentItemCode(code string) *string {
	code = strings.TrimSpace(code)
	segments := strings.Split(code, ".")
	if len(segments) <= 1 {
		return nil
	}
	parent := strings.Join(segments[:len(segments)-1], ".")
	return &parent
}
