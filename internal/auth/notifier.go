package auth

import "sync"

// EventType marks a sign-in state transition.
type EventType int

const (
	SignedIn EventType = iota
	SignedOut
)

// Event carries one auth-state transition.
type Event struct {
	Type   EventType
	UserID string
}

// Notifier broadcasts sign-in/sign-out transitions to subscribers. The API
// layer emits; the composition root wires consumers. Subscribe returns a
// disposer, so nothing holds implicit lifetime over the engine internals.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns its unsubscribe function.
func (n *Notifier) Subscribe(fn func(Event)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Publish delivers the event to every subscriber, synchronously and in
// unspecified order.
func (n *Notifier) Publish(ev Event) {
	n.mu.Lock()
	fns := make([]func(Event), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
