package event

// Bus dispatches named events to subscribers synchronously, in subscription
// order. It is meant to be driven from a single goroutine (the UI loop) and
// has no locking.
type Bus struct {
	next     int
	handlers map[string][]subscription
}

type subscription struct {
	id int
	fn Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]subscription)}
}

// Subscribe registers h for name and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(name string, h Handler) func() {
	b.next++
	id := b.next
	b.handlers[name] = append(b.handlers[name], subscription{id: id, fn: h})
	return func() { b.remove(name, id) }
}

func (b *Bus) remove(name string, id int) {
	subs := b.handlers[name]
	for i, s := range subs {
		if s.id == id {
			b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[name]) == 0 {
		delete(b.handlers, name)
	}
}

// Emit delivers payload to every handler subscribed to name.
func (b *Bus) Emit(name string, payload any) {
	subs := b.handlers[name]
	if len(subs) == 0 {
		return
	}
	// Handlers may unsubscribe while we iterate.
	snapshot := append([]subscription(nil), subs...)
	for _, s := range snapshot {
		s.fn(payload)
	}
}

// Dispatch emits an envelope.
func (b *Bus) Dispatch(e Envelope) { b.Emit(e.Name, e.Payload) }

// Subscribers returns the number of handlers registered for name.
func (b *Bus) Subscribers(name string) int { return len(b.handlers[name]) }
