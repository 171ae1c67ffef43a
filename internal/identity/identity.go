// Package identity issues opaque identifiers for addressable résumé entities.
package identity

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Allocator issues identifiers that are unique within a process.
// Callers must treat the returned strings as opaque.
type Allocator interface {
	NewID() string
}

// UUIDAllocator allocates random (v4) UUID strings
type UUIDAllocator struct{}

// NewID returns a fresh UUID string
func (UUIDAllocator) NewID() string {
	return uuid.NewString()
}

// Default returns the allocator used outside of tests
func Default() Allocator {
	return UUIDAllocator{}
}

// SequenceAllocator issues predictable ids of the form "<prefix>-<n>".
// It is safe for concurrent use.
type SequenceAllocator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequence creates a SequenceAllocator. An empty prefix defaults to "id".
func NewSequence(prefix string) *SequenceAllocator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceAllocator{prefix: prefix}
}

// NewID returns the next id in the sequence, starting at 1
func (s *SequenceAllocator) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.next.Add(1))
}
