package window

// ring is a fixed-capacity FIFO. Pushing into a full ring overwrites the
// oldest entry. Not goroutine-safe; Store serializes access.
type ring[T any] struct {
	buf   []T
	size  int
	head  int // next write position
	count int // number of valid entries (0..size)
}

func newRing[T any](size int) ring[T] {
	if size <= 0 {
		size = DefaultPoints
	}
	return ring[T]{buf: make([]T, size), size: size}
}

// push appends v and reports whether the oldest entry was evicted to make room.
func (r *ring[T]) push(v T) bool {
	evicted := r.count == r.size
	r.buf[r.head] = v
	r.head = (r.head + 1) % r.size
	if !evicted {
		r.count++
	}
	return evicted
}

// snapshot returns a copy of all entries, oldest first.
func (r *ring[T]) snapshot() []T {
	if r.count == 0 {
		return nil
	}

	result := make([]T, r.count)
	if r.count < r.size {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.head:])
		copy(result[n:], r.buf[:r.head])
	}
	return result
}

// at returns the i-th entry counting from the oldest.
func (r *ring[T]) at(i int) T {
	start := 0
	if r.count == r.size {
		start = r.head
	}
	return r.buf[(start+i)%r.size]
}

func (r *ring[T]) reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.head = 0
	r.count = 0
}
