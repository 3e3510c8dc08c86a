// Package ident issues identifiers for scene entities. Each entity category
// (lights, instances) owns its own Pool, so identifiers are only unique within
// a category.
package ident

import (
	"math"
	"strconv"
	"sync/atomic"
)

// ID is an opaque entity identifier. IDs are allocated once by a Pool and never
// reused or mutated.
type ID uint64

// Max is the largest identifier an entity may carry. The value above it is
// never issued because a pool that reserved it could issue nothing after.
const Max ID = math.MaxUint64 - 1

// Valid reports whether id is at most Max.
func (id ID) Valid() bool {
	return id <= Max
}

// String returns the decimal form of the identifier.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Pool issues strictly increasing identifiers starting at 0.
// The zero value is ready to use and safe for concurrent use.
type Pool struct {
	next atomic.Uint64
}

// NewPool creates a new Pool whose first identifier is 0.
//
// Returns:
//   - *Pool: the new pool
func NewPool() *Pool {
	return &Pool{}
}

// Fresh returns an identifier strictly greater than every identifier previously
// returned by this pool. Concurrent callers never receive the same value.
//
// Panics if the identifier space is exhausted.
//
// Returns:
//   - ID: the new identifier
func (p *Pool) Fresh() ID {
	for {
		cur := p.next.Load()
		if cur == math.MaxUint64 {
			panic("ident: identifier pool exhausted")
		}
		if p.next.CompareAndSwap(cur, cur+1) {
			return ID(cur)
		}
	}
}

// Peek returns the identifier the next call to Fresh would return, without
// allocating it.
//
// Returns:
//   - ID: the next identifier
func (p *Pool) Peek() ID {
	return ID(p.next.Load())
}

// Reserve advances the pool so that Fresh never returns id or anything below
// it. Used after loading a scene whose identifiers were issued by another pool.
// Reserving an identifier the pool has already passed is a no-op.
//
// Panics if id is not Valid; callers check before reserving.
//
// Parameters:
//   - id: the highest identifier already in use
func (p *Pool) Reserve(id ID) {
	if uint64(id) == math.MaxUint64 {
		panic("ident: cannot reserve the last identifier")
	}
	for {
		cur := p.next.Load()
		if cur > uint64(id) {
			return
		}
		if p.next.CompareAndSwap(cur, uint64(id)+1) {
			return
		}
	}
}
