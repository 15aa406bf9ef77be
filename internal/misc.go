package internal

import (
	"sync/atomic"
)

var (
	currentVersion = "0.1.0"
)

// Version is the module version sent as part of the User-Agent.
func Version() string {
	return currentVersion
}

// Sequence hands out increasing integers starting at 1. It is safe for
// concurrent use.
type Sequence struct {
	id atomic.Int64 // default value is 0
}

// Next returns the next integer in the sequence.
func (s *Sequence) Next() int64 {
	return s.id.Add(1)
}

// Observe raises the sequence so that Next never returns v or anything below
// it. Used when IDs are read from a file.
func (s *Sequence) Observe(v int64) {
	for {
		cur := s.id.Load()
		if v <= cur || s.id.CompareAndSwap(cur, v) {
			return
		}
	}
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}
