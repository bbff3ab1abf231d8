// Package domain holds the pure pieces of the thumbnail resolution
// pipeline: identifier parsing, storage key derivation, cache header
// computation, URL validation and search hit extraction. Nothing in
// this package performs I/O, and nothing in it returns an error —
// invalid input is always a negative result.
package domain

import (
	"fmt"
	"regexp"
)

// itemIDPattern matches /thumb/<32 lowercase hex> and nothing else:
// no trailing slash, no extra segments, no leading double slash.
var itemIDPattern = regexp.MustCompile(`^/thumb/([0-9a-f]{32})$`)

// ParseItemID extracts the item identifier from a request path.
// The identifier doubles as a lookup key into the object store and the
// search index, so anything that is not exactly /thumb/ followed by 32
// lowercase hex characters yields ok=false and must never reach a
// backend.
func ParseItemID(path string) (id string, ok bool) {
	m := itemIDPattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// StorageKey derives the sharded object key for a valid identifier.
// The first four characters become prefix segments, spreading objects
// across up to 65536 prefixes so no single prefix listing grows hot.
func StorageKey(id string) string {
	return fmt.Sprintf("%c/%c/%c/%c/%s.jpg", id[0], id[1], id[2], id[3], id)
}
