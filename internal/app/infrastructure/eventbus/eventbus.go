package eventbus

import (
	"context"
	"sync"
)

// Bus delivers events to subscribers and one-shot waiters in publish order.
// Subscribers run on the publishing goroutine and must not block.
type Bus[E any] struct {
	mu      sync.Mutex
	nextID  uint64
	subs    map[uint64]func(E)
	waiters map[uint64]*Waiter[E]
}

// Waiter fires once, for the first event matching its predicate.
type Waiter[E any] struct {
	bus       *Bus[E]
	id        uint64
	predicate func(E) bool
	ch        chan E
}

func New[E any]() *Bus[E] {
	return &Bus[E]{
		subs:    make(map[uint64]func(E)),
		waiters: make(map[uint64]*Waiter[E]),
	}
}

// Subscribe registers fn for every event. The returned func removes it.
func (b *Bus[E]) Subscribe(fn func(E)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// OnceBy registers a waiter that is removed as soon as predicate matches.
func (b *Bus[E]) OnceBy(predicate func(E) bool) *Waiter[E] {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	w := &Waiter[E]{
		bus:       b,
		id:        b.nextID,
		predicate: predicate,
		ch:        make(chan E, 1),
	}
	b.waiters[w.id] = w

	return w
}

func (b *Bus[E]) Publish(ev E) {
	b.mu.Lock()
	subs := make([]func(E), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	waiters := make([]*Waiter[E], 0, len(b.waiters))
	for _, w := range b.waiters {
		waiters = append(waiters, w)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}

	for _, w := range waiters {
		if !w.predicate(ev) {
			continue
		}
		if b.remove(w.id) {
			w.ch <- ev
		}
	}
}

// Waiters is the number of pending waiters.
func (b *Bus[E]) Waiters() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.waiters)
}

func (b *Bus[E]) remove(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.waiters[id]; !ok {
		return false
	}
	delete(b.waiters, id)
	return true
}

// C receives the matching event. It is buffered, so publishing never blocks.
func (w *Waiter[E]) C() <-chan E {
	return w.ch
}

// Cancel drops the waiter if it has not fired yet.
func (w *Waiter[E]) Cancel() {
	w.bus.remove(w.id)
}

// Wait blocks until the waiter fires or ctx is done; on ctx the waiter is
// cancelled.
func (w *Waiter[E]) Wait(ctx context.Context) (E, error) {
	select {
	case ev := <-w.ch:
		return ev, nil
	case <-ctx.Done():
		w.Cancel()
		var zero E
		return zero, ctx.Err()
	}
}
