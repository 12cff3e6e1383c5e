// Package keylock serialises work per key over a fixed set of mutexes.
package keylock

import (
	"hash/fnv"
	"sync"
)

// DefaultStripes is the stripe count used by New when n is not positive.
const DefaultStripes = 64

// Striped maps every key onto one of a fixed number of mutexes. Memory stays bounded no matter
// how many keys pass through; unrelated keys occasionally share a stripe.
type Striped struct {
	stripes []sync.Mutex
}

func New(n int) *Striped {
	if n <= 0 {
		n = DefaultStripes
	}
	return &Striped{stripes: make([]sync.Mutex, n)}
}

// Lock blocks until key's stripe is held and returns its unlock func.
func (s *Striped) Lock(key string) func() {
	m := &s.stripes[s.index(key)]
	m.Lock()
	return m.Unlock
}

func (s *Striped) index(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.stripes)))
}
