package query

import (
	"fmt"
	"strings"
)

// Key identifies cached data: a resource name followed by parameters,
// e.g. Key{"attendance", 3}.
type Key []any

// String renders the key as a stable path-like string.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, "/")
}

// Resource returns the first key element, used as a metrics label.
func (k Key) Resource() string {
	if len(k) == 0 {
		return ""
	}
	return fmt.Sprint(k[0])
}

// HasPrefix reports whether k starts with every element of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if fmt.Sprint(k[i]) != fmt.Sprint(prefix[i]) {
			return false
		}
	}
	return true
}
