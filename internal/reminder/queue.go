package reminder

import "sync"

// Queue is a FIFO of reminders awaiting display. Reminders are shown
// in the order first observed: polls append to the tail, the display
// loop pops from the head.
type Queue struct {
	mu    sync.Mutex
	items []Reminder
}

// Push appends reminders to the tail of the queue.
func (q *Queue) Push(items ...Reminder) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// Pop removes and returns the head of the queue. The second return is
// false when the queue is empty.
func (q *Queue) Pop() (Reminder, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Reminder{}, false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Len returns the number of queued reminders.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns a copy of the queued reminders in order.
func (q *Queue) Snapshot() []Reminder {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Reminder, len(q.items))
	copy(out, q.items)
	return out
}
