package fifo

// Queue is a first-in-first-out queue with a fixed capacity.
// Pushing onto a full queue drops the oldest entry.
type Queue[T any] struct {
	items []T
	head  int
	size  int
}

// New returns a queue holding at most capacity items (minimum 1).
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{items: make([]T, capacity)}
}

// Push appends v, overwriting the oldest entry when the queue is full.
func (q *Queue[T]) Push(v T) {
	tail := (q.head + q.size) % len(q.items)
	q.items[tail] = v
	if q.size < len(q.items) {
		q.size++
		return
	}
	q.head = (q.head + 1) % len(q.items)
}

func (q *Queue[T]) Len() int { return q.size }

func (q *Queue[T]) Cap() int { return len(q.items) }

func (q *Queue[T]) Full() bool { return q.size == len(q.items) }

// Items returns a copy of the queued values, oldest first.
func (q *Queue[T]) Items() []T {
	out := make([]T, q.size)
	for i := range out {
		out[i] = q.items[(q.head+i)%len(q.items)]
	}
	return out
}

// Last returns the most recently pushed value.
func (q *Queue[T]) Last() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}
	return q.items[(q.head+q.size-1)%len(q.items)], true
}
