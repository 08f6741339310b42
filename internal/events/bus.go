package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher. Delivery is asynchronous.
type Bus struct {
	dispatcher *event.Dispatcher
}

func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish publishes an event to all subscribers of its type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case PatternChanged:
		event.Publish(b.dispatcher, e)
	case BrightnessChanged:
		event.Publish(b.dispatcher, e)
	case CommandIgnored:
		event.Publish(b.dispatcher, e)
	case FrameRendered:
		event.Publish(b.dispatcher, e)
	case SelfTest:
		event.Publish(b.dispatcher, e)
	case DriverError:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type it accepts and returns
// an unsubscribe function. Unknown handler types get a no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(PatternChanged):
		return event.Subscribe(b.dispatcher, h)
	case func(BrightnessChanged):
		return event.Subscribe(b.dispatcher, h)
	case func(CommandIgnored):
		return event.Subscribe(b.dispatcher, h)
	case func(FrameRendered):
		return event.Subscribe(b.dispatcher, h)
	case func(SelfTest):
		return event.Subscribe(b.dispatcher, h)
	case func(DriverError):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
