//go:build tinygo

// Command lightstrip-fw is the microcontroller build: UART bytes in, WS2812
// frames out, same render loop as the host daemon.
package main

import (
	"machine"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lightstrip/internal/led/ws2812"
	"github.com/coreman2200/funtimes-lightstrip/internal/pattern"
	"github.com/coreman2200/funtimes-lightstrip/internal/render"
	"github.com/coreman2200/funtimes-lightstrip/internal/scheduler"
	"github.com/coreman2200/funtimes-lightstrip/internal/strip"
)

const (
	dataPin    = machine.Pin(23)
	numLEDs    = 300
	brightness = 164
	baud       = 9600
	fps        = 60
)

// uartSource polls the hardware UART without blocking.
type uartSource struct {
	uart *machine.UART
}

func (u uartSource) Poll() (byte, bool) {
	if u.uart.Buffered() == 0 {
		return 0, false
	}
	b, err := u.uart.ReadByte()
	return b, err == nil
}

func main() {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: baud})

	table := pattern.Default()
	eng, err := render.NewEngine(numLEDs, table, strip.New(table.Len(), brightness), ws2812.New(dataPin, numLEDs))
	if err != nil {
		println("engine:", err.Error())
		return
	}
	s := scheduler.New(scheduler.FromFPS(fps), eng, uartSource{uart: uart}, zerolog.Nop())

	time.Sleep(s.Config().StartupDelay)
	for {
		s.Tick(time.Now())
		time.Sleep(time.Millisecond)
	}
}
