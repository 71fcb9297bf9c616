package pool

const minRingCapacity = 64

// taskRing is a growable FIFO ring buffer of pending submissions.
// It is not safe for concurrent use; the pool guards it with its lock.
// The configured queue capacity is enforced by the pool, not here; the
// ring only grows its backing slice on demand so an effectively
// unbounded capacity costs nothing up front.
type taskRing struct {
	buf  []*submission
	head int
	size int
}

func newTaskRing() *taskRing {
	return &taskRing{buf: make([]*submission, minRingCapacity)}
}

func (r *taskRing) len() int {
	return r.size
}

// push appends s at the tail, doubling the backing slice when full.
func (r *taskRing) push(s *submission) {
	if r.size == len(r.buf) {
		r.grow()
	}
	r.buf[(r.head+r.size)%len(r.buf)] = s
	r.size++
}

// pop removes and returns the oldest submission, or nil when empty.
func (r *taskRing) pop() *submission {
	if r.size == 0 {
		return nil
	}
	s := r.buf[r.head]
	r.buf[r.head] = nil // release for GC
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return s
}

func (r *taskRing) grow() {
	next := make([]*submission, len(r.buf)*2)
	for i := 0; i < r.size; i++ {
		next[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.buf = next
	r.head = 0
}
