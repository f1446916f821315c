package engine

import "sync"

// EventKind distinguishes between event kinds.
type EventKind int

const (
	// EventDamage is a hit on the player.
	EventDamage EventKind = iota + 1
	// EventQuit asks the loop to end after the current tic.
	EventQuit
)

// Event is one item on the engine's queue.
type Event struct {
	Kind   EventKind
	Tic    int64  // tic the event was scheduled for (0 for injected events)
	Amount int    // raw damage before game rules
	Source string // who dealt the damage, for logs only
}

// eventQueue is a thread-safe FIFO queue for events.
//
// Script events and injected events share the queue. Only the Run loop
// dequeues, which keeps Notify on the loop's goroutine no matter where an
// event came from.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
	}
}

// Enqueue adds an event to the back of the queue.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, e)
	return true
}

// TryDequeue removes and returns the front event without blocking.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]
	q.events[0] = Event{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close rejects further enqueues. Events already queued can still be drained.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
