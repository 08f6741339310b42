package command

// Source yields inbound command bytes without blocking.
type Source interface {
	// Poll returns the next byte, or false when none is pending.
	Poll() (byte, bool)
}

// Queue is a bounded Source fed from other goroutines.
type Queue struct {
	ch chan byte
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{ch: make(chan byte, size)}
}

// Push enqueues b; it reports false and drops the byte when the queue is full.
func (q *Queue) Push(b byte) bool {
	select {
	case q.ch <- b:
		return true
	default:
		return false
	}
}

func (q *Queue) Poll() (byte, bool) {
	select {
	case b := <-q.ch:
		return b, true
	default:
		return 0, false
	}
}

// Len is the number of bytes waiting.
func (q *Queue) Len() int { return len(q.ch) }
