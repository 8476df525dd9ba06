package ring

import "sync"

// Buffer is a thread-safe circular buffer that keeps the most recent values
// and drops the oldest once it is full.
type Buffer[T any] struct {
	buf  []T
	size int
	w    int // write position
	len  int // current fill level
	mu   sync.Mutex
}

// New creates a buffer holding at most size values.
func New[T any](size int) *Buffer[T] {
	if size < 1 {
		size = 1
	}
	return &Buffer[T]{
		buf:  make([]T, size),
		size: size,
	}
}

// Push appends v, overwriting the oldest value if full.
func (b *Buffer[T]) Push(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf[b.w] = v
	b.w = (b.w + 1) % b.size
	if b.len < b.size {
		b.len++
	}
}

// Items returns a copy of the buffered values, oldest first.
func (b *Buffer[T]) Items() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]T, b.len)
	start := (b.w - b.len + b.size) % b.size
	for i := range b.len {
		out[i] = b.buf[(start+i)%b.size]
	}
	return out
}

// Len returns the number of buffered values.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.len
}

// Cap returns the maximum number of values the buffer holds.
func (b *Buffer[T]) Cap() int {
	return b.size
}

// Clear resets the buffer.
func (b *Buffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	for i := range b.buf {
		b.buf[i] = zero
	}
	b.w = 0
	b.len = 0
}
