// Package button turns presses on a GPIO pin into pattern advances.
package button

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const DefaultDebounce = 50 * time.Millisecond

// edgeWait bounds each WaitForEdge so cancellation is noticed.
const edgeWait = 100 * time.Millisecond

// Open initializes the host and looks up a pin by name, e.g. "GPIO17".
func Open(name string) (gpio.PinIn, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	return p, nil
}

// Button reports falling edges on a pulled-up, active-low input.
type Button struct {
	Pin      gpio.PinIn
	Debounce time.Duration
	OnPress  func()
	Clock    clockwork.Clock
	Log      zerolog.Logger
}

func New(pin gpio.PinIn, onPress func(), log zerolog.Logger) *Button {
	return &Button{
		Pin:      pin,
		Debounce: DefaultDebounce,
		OnPress:  onPress,
		Clock:    clockwork.NewRealClock(),
		Log:      log,
	}
}

// Run waits for presses until ctx is done.
func (b *Button) Run(ctx context.Context) error {
	if b.Pin == nil {
		return errors.New("button has no pin")
	}
	if err := b.Pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("configure %s: %w", b.Pin, err)
	}
	if b.Clock == nil {
		b.Clock = clockwork.NewRealClock()
	}
	b.Log.Info().Str("pin", b.Pin.String()).Dur("debounce", b.Debounce).Msg("button armed")

	var last time.Time
	for ctx.Err() == nil {
		if !b.Pin.WaitForEdge(edgeWait) {
			continue
		}
		if b.Pin.Read() != gpio.Low {
			continue
		}
		now := b.Clock.Now()
		if !last.IsZero() && now.Sub(last) < b.Debounce {
			b.Log.Debug().Msg("bounce")
			continue
		}
		last = now
		if b.OnPress != nil {
			b.OnPress()
		}
	}
	return nil
}
