package button

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPressesAreDebounced(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO17", Num: 17, EdgesChan: make(chan gpio.Level)}
	clock := clockwork.NewFakeClock()
	presses := make(chan struct{}, 4)

	b := New(pin, func() { presses <- struct{}{} }, zerolog.Nop())
	b.Clock = clock

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	pin.EdgesChan <- gpio.Low
	select {
	case <-presses:
	case <-time.After(time.Second):
		t.Fatal("first press not reported")
	}

	// A bounce inside the window, then a release edge to know it was consumed.
	pin.EdgesChan <- gpio.Low
	pin.EdgesChan <- gpio.High
	assert.Empty(t, presses)

	clock.Advance(2 * DefaultDebounce)
	pin.EdgesChan <- gpio.Low
	select {
	case <-presses:
	case <-time.After(time.Second):
		t.Fatal("second press not reported")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("button loop did not stop")
	}
	assert.Equal(t, gpio.PullUp, pin.P)
}

func TestRunWithoutEdgeSupport(t *testing.T) {
	b := New(&gpiotest.Pin{N: "GPIO4"}, nil, zerolog.Nop())
	assert.Error(t, b.Run(context.Background()))
}
