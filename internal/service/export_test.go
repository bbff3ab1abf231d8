package service

import "time"

// SetNow overrides the resolver clock for external tests.
func (r *Resolver) SetNow(now func() time.Time) {
	r.now = now
}
