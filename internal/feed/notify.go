package feed

import "sync"

// Notifier is the push-update channel between the stores and feed consumers.
// Stores call Notify after inserting a report or news row; consumers reload
// the page they are showing from scratch. Incremental patching is
// intentionally not offered.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func())}
}

// Subscribe registers fn and returns its unsubscribe handle.
func (n *Notifier) Subscribe(fn func()) (unsubscribe func()) {
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

// Notify invokes every subscriber. Callbacks run synchronously on the
// caller's goroutine and must not block.
func (n *Notifier) Notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
