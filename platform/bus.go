package platform

// Handler receives a dispatched event.
type Handler func(ev *Event)

// Source is anything devices can subscribe to for raw events.
type Source interface {
	Subscribe(kind EventKind, fn Handler) (cancel func())
}

type subscriber struct {
	id uint64
	fn Handler
}

// Bus queues raw events and dispatches them synchronously to subscribers.
type Bus struct {
	items  []*Event
	subs   map[EventKind][]subscriber
	nextID uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventKind][]subscriber)}
}

// Subscribe registers fn for events of the given kind.
func (b *Bus) Subscribe(kind EventKind, fn Handler) func() {
	if b == nil || fn == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscriber{id: id, fn: fn})
	return func() { b.unsubscribe(kind, id) }
}

func (b *Bus) unsubscribe(kind EventKind, id uint64) {
	list := b.subs[kind]
	for i, s := range list {
		if s.id == id {
			out := make([]subscriber, 0, len(list)-1)
			out = append(out, list[:i]...)
			b.subs[kind] = append(out, list[i+1:]...)
			return
		}
	}
}

// Subscribers reports how many handlers listen for kind.
func (b *Bus) Subscribers(kind EventKind) int {
	if b == nil {
		return 0
	}
	return len(b.subs[kind])
}

// Push adds an event to the queue.
func (b *Bus) Push(ev *Event) {
	if b == nil || ev == nil {
		return
	}
	b.items = append(b.items, ev)
}

// Drain returns all queued events and clears the queue.
func (b *Bus) Drain() []*Event {
	if b == nil || len(b.items) == 0 {
		return nil
	}
	out := b.items
	b.items = nil
	return out
}

// Flush dispatches every queued event in FIFO order.
func (b *Bus) Flush() {
	for _, ev := range b.Drain() {
		b.Dispatch(ev)
	}
}

// Dispatch delivers ev to the current subscribers of its kind immediately.
func (b *Bus) Dispatch(ev *Event) {
	if b == nil || ev == nil {
		return
	}
	list := b.subs[ev.Kind]
	if len(list) == 0 {
		return
	}
	snapshot := append([]subscriber(nil), list...)
	for _, s := range snapshot {
		s.fn(ev)
	}
}
