package cache

import (
	"golang.org/x/sync/singleflight"
)

// Coalescer deduplicates concurrent producers for the same key: while one
// producer is in flight, callers with the same key share its result. The key
// is forgotten once the call completes, success or failure, so errors are not
// cached.
type Coalescer struct {
	group singleflight.Group
}

// NewCoalescer returns an empty coalescer.
func NewCoalescer() *Coalescer {
	return &Coalescer{}
}

// Do runs producer under key, sharing the in-flight result with concurrent
// callers. The boolean reports whether this caller shared another caller's
// execution.
func (c *Coalescer) Do(key string, producer func() (interface{}, error)) (interface{}, bool, error) {
	v, err, shared := c.group.Do(key, producer)
	return v, shared, err
}
