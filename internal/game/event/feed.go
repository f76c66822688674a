// Package event provides synchronous, in-process notification feeds.
package event

// Feed is an ordered list of listeners for values of type T.
//
// Feed is not safe for concurrent use. Listeners run on the caller's goroutine
// in subscription order.
type Feed[T any] struct {
	next      uint64
	listeners []listener[T]
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	cancel func()
}

// Unsubscribe detaches the listener. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

// Subscribe registers fn and returns a handle that detaches it.
//
// Precondition: fn must not be nil.
// Postcondition: fn is called on every subsequent Emit until unsubscribed.
func (f *Feed[T]) Subscribe(fn func(T)) *Subscription {
	f.next++
	id := f.next
	f.listeners = append(f.listeners, listener[T]{id: id, fn: fn})
	return &Subscription{cancel: func() { f.remove(id) }}
}

func (f *Feed[T]) remove(id uint64) {
	for i, l := range f.listeners {
		if l.id == id {
			// Copy rather than splice so an Emit in progress keeps its snapshot.
			out := make([]listener[T], 0, len(f.listeners)-1)
			out = append(out, f.listeners[:i]...)
			out = append(out, f.listeners[i+1:]...)
			f.listeners = out
			return
		}
	}
}

// Emit calls every listener with v.
func (f *Feed[T]) Emit(v T) {
	snapshot := f.listeners
	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of attached listeners.
func (f *Feed[T]) Len() int {
	return len(f.listeners)
}
