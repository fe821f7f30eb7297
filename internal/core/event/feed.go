package event

// Feed is a typed observer list for one event kind. Publish delivers to every
// subscriber synchronously, in subscription order, before returning, so events
// produced inside a tick are observed inside that same tick.
// Single-goroutine access only (game loop), like all core state.
type Feed[T any] struct {
	subs []func(T)
}

// Subscribe registers a handler. Handlers are never removed; subscribers that
// need to detach should guard with their own flag.
func (f *Feed[T]) Subscribe(fn func(T)) {
	f.subs = append(f.subs, fn)
}

// Publish delivers the event to all subscribers in order.
func (f *Feed[T]) Publish(ev T) {
	for _, fn := range f.subs {
		fn(ev)
	}
}

// SubscriberCount returns the number of registered handlers.
func (f *Feed[T]) SubscriberCount() int {
	return len(f.subs)
}
