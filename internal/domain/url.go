package domain

import "net/url"

// IsProbablyURL reports whether s looks like a fetchable absolute URL
// with an http or https scheme. It is a conservative syntax pre-filter,
// not a reachability check; no network I/O happens here.
func IsProbablyURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
