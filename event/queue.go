package event

import "sync"

// Sink is anything events can be put on. Producers only need this half
// of the queue.
type Sink interface {
	Put(Event)
}

// Queue is an unbounded FIFO with a non-blocking Get. The session is its
// only consumer; the mutex keeps producers on other goroutines safe.
type Queue struct {
	mu     sync.Mutex
	events []Event
	head   int
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Put(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

// Get pops the oldest event. ok is false when the queue is empty.
func (q *Queue) Get() (e Event, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.events) {
		return nil, false
	}
	e = q.events[q.head]
	q.events[q.head] = nil
	q.head++

	// reclaim the consumed prefix once it dominates the backing array
	if q.head > 64 && q.head*2 >= len(q.events) {
		n := copy(q.events, q.events[q.head:])
		clear(q.events[n:])
		q.events = q.events[:n]
		q.head = 0
	}
	return e, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events) - q.head
}
