package domain

import (
	"net/http"
	"strconv"
	"time"
)

// Standard response header names used by the resolver.
const (
	HeaderCacheControl = "Cache-Control"
	HeaderExpires      = "Expires"
)

// CacheHeaders computes the downstream cache directives for a response
// that stays fresh for maxAge from now. Expires is always rendered as
// an RFC 1123 GMT date regardless of the local timezone.
func CacheHeaders(maxAge time.Duration, now time.Time) map[string]string {
	secs := int64(maxAge.Seconds())
	if secs < 0 {
		secs = 0
	}
	return map[string]string{
		HeaderCacheControl: "public, max-age=" + strconv.FormatInt(secs, 10),
		HeaderExpires:      now.Add(maxAge).UTC().Format(http.TimeFormat),
	}
}
