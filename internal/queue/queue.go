package queue

import (
	"errors"
	"sync"
)

// ErrShutdown is returned by Put once the queue has been shut down.
var ErrShutdown = errors.New("queue is shut down")

// Queue is an unbounded, concurrency-safe FIFO with a terminal shutdown
// state.
//
// The zero value is not usable; create queues with New.
type Queue[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []T
	shutdown bool
}

// New creates an empty Queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends item to the tail of the queue. It never blocks.
func (q *Queue[T]) Put(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shutdown {
		return ErrShutdown
	}
	q.items = append(q.items, item)
	q.cond.Signal()
	return nil
}

// Get removes and returns the head of the queue, blocking while the queue
// is empty. Once the queue is shut down and empty, Get returns the zero
// value and false without blocking.
func (q *Queue[T]) Get() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.shutdown {
		q.cond.Wait()
	}

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
}

// Shutdown marks the queue as shut down and wakes every blocked Get.
// Calling it more than once is harmless.
func (q *Queue[T]) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shutdown {
		return
	}
	q.shutdown = true
	q.cond.Broadcast()
}

// IsShutdown reports whether Shutdown has been called.
func (q *Queue[T]) IsShutdown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shutdown
}

// Len returns the number of items waiting in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
