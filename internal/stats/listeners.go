package stats

// SubscriptionID identifies a registered listener
type SubscriptionID uint64

type listenerEntry[F any] struct {
	id SubscriptionID
	fn F
}

// listeners is an ordered observer list. Callbacks run in registration order.
type listeners[F any] struct {
	next    SubscriptionID
	entries []listenerEntry[F]
}

func (l *listeners[F]) add(fn F) SubscriptionID {
	l.next++
	l.entries = append(l.entries, listenerEntry[F]{id: l.next, fn: fn})
	return l.next
}

func (l *listeners[F]) remove(id SubscriptionID) bool {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot copies the callbacks so listeners may unsubscribe while firing
func (l *listeners[F]) snapshot() []F {
	if len(l.entries) == 0 {
		return nil
	}
	fns := make([]F, len(l.entries))
	for i, e := range l.entries {
		fns[i] = e.fn
	}
	return fns
}

func (l *listeners[F]) len() int {
	return len(l.entries)
}

func (l *listeners[F]) clear() {
	l.entries = nil
}
