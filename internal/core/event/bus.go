package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted in pulse N are delivered
// in pulse N+1, after SwapBuffers. Side effects that could re-enter combat
// resolution (fleeing, death handling) travel through here instead of being
// invoked inline.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    *buffer
	back     *buffer
	handlers map[reflect.Type][]any
}

type buffer struct {
	order  []reflect.Type
	events map[reflect.Type][]any
}

func newBuffer() *buffer {
	return &buffer{events: make(map[reflect.Type][]any)}
}

func (b *buffer) reset() {
	for k := range b.events {
		b.events[k] = b.events[k][:0]
	}
	b.order = b.order[:0]
}

func NewBus() *Bus {
	return &Bus{
		front:    newBuffer(),
		back:     newBuffer(),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer (delivered next pulse).
func Emit[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if len(b.back.events[t]) == 0 {
		b.back.order = append(b.back.order, t)
	}
	b.back.events[t] = append(b.back.events[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at pulse start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	b.back.reset()
}

// Pending reports how many events wait in the back buffer.
func (b *Bus) Pending() int {
	n := 0
	for _, evs := range b.back.events {
		n += len(evs)
	}
	return n
}

// DispatchAll delivers all front-buffer events to their handlers, event types
// in first-emitted order and events of one type in emission order. Handlers
// may Emit; those events land in the back buffer for the next pulse.
func (b *Bus) DispatchAll() {
	for _, t := range b.front.order {
		handlers := b.handlers[t]
		for _, ev := range b.front.events[t] {
			for _, h := range handlers {
				callHandler(h, ev)
			}
		}
	}
	b.front.reset()
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
