package input

import "github.com/milk9111/inputkit/platform"

// Dispatcher receives resolved actions.
type Dispatcher interface {
	Dispatch(b *Binding, ev *platform.Event, d *Device)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(b *Binding, ev *platform.Event, d *Device)

func (f DispatcherFunc) Dispatch(b *Binding, ev *platform.Event, d *Device) {
	f(b, ev, d)
}

// MultiDispatcher forwards to each dispatcher in order.
type MultiDispatcher []Dispatcher

func (m MultiDispatcher) Dispatch(b *Binding, ev *platform.Event, d *Device) {
	for _, next := range m {
		if next != nil {
			next.Dispatch(b, ev, d)
		}
	}
}
