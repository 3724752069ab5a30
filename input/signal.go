package input

// Connection is returned by Signal.Connect and detaches the listener.
type Connection struct {
	disconnect func()
}

// Disconnect removes the listener. Safe to call more than once.
func (c *Connection) Disconnect() {
	if c == nil || c.disconnect == nil {
		return
	}
	c.disconnect()
	c.disconnect = nil
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Signal is a typed publish/subscribe channel. Emission is synchronous and
// listeners run in connection order.
type Signal[T any] struct {
	listeners []listener[T]
	nextID    uint64
}

// Connect registers fn and returns a handle to remove it.
func (s *Signal[T]) Connect(fn func(T)) *Connection {
	if s == nil || fn == nil {
		return &Connection{}
	}
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	return &Connection{disconnect: func() { s.remove(id) }}
}

func (s *Signal[T]) remove(id uint64) {
	for i, l := range s.listeners {
		if l.id == id {
			out := make([]listener[T], 0, len(s.listeners)-1)
			out = append(out, s.listeners[:i]...)
			s.listeners = append(out, s.listeners[i+1:]...)
			return
		}
	}
}

// Emit calls every listener connected at the time of the call.
func (s *Signal[T]) Emit(v T) {
	if s == nil || len(s.listeners) == 0 {
		return
	}
	snapshot := append([]listener[T](nil), s.listeners...)
	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len reports the number of connected listeners.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.listeners)
}
