package store

import "sync"

// Ring is a capacity-bounded, append-only sequence safe for concurrent use.
// Once full, each Append overwrites the oldest element, so the ring always
// holds the most recent Cap() elements in insertion order.
type Ring[T any] struct {
	mu    sync.RWMutex
	buf   []T
	start int // index of the oldest element
	size  int
}

// NewRing creates an empty ring holding at most capacity elements.
// A capacity below 1 is treated as 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Append adds v as the newest element and returns how many elements were
// evicted to make room (0 or 1), along with the resulting length.
func (r *Ring[T]) Append(v T) (evicted, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return 0, r.size
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
	return 1, r.size
}

// Snapshot returns the current contents, oldest first, as a fresh slice the
// caller may freely sort or filter.
func (r *Ring[T]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *Ring[T]) Cap() int {
	return len(r.buf)
}
