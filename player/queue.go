// SPDX-License-Identifier: EPL-2.0

package player

import "sync"

// queue is an unbounded FIFO of operations drained by a single goroutine.
// push never blocks.
type queue struct {
	mu     sync.Mutex
	ops    []func()
	wake   chan struct{}
	closed bool
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

// push appends op and reports whether it was accepted.
func (q *queue) push(op func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.ops = append(q.ops, op)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// close stops accepting operations. Already queued ones still run.
func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// run executes operations in order until the queue is closed and empty.
func (q *queue) run() {
	for {
		q.mu.Lock()
		ops := q.ops
		q.ops = nil
		closed := q.closed
		q.mu.Unlock()

		for _, op := range ops {
			op()
		}

		if len(ops) == 0 {
			if closed {
				return
			}
			<-q.wake
		}
	}
}
