//go:build rpi

package led

import (
	"fmt"
	"sync"

	ws "github.com/rpi-ws281x/rpi-ws281x-go"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

var stripTypes = map[string]int{
	"RGB": ws.WS2811StripRGB,
	"RBG": ws.WS2811StripRBG,
	"GRB": ws.WS2811StripGRB,
	"GBR": ws.WS2811StripGBR,
	"BRG": ws.WS2811StripBRG,
	"BGR": ws.WS2811StripBGR,
}

// PWM drives the strip with the Raspberry Pi PWM/DMA peripheral.
type PWM struct {
	mu         sync.Mutex
	dev        *ws.WS2811
	count      int
	brightness uint8
}

func NewPWM(gpio, dma, count int, order pixel.Order, brightness uint8) (*PWM, error) {
	opt := ws.DefaultOptions
	if dma > 0 {
		opt.DmaNum = dma
	}
	opt.Channels[0].GpioPin = gpio
	opt.Channels[0].LedCount = count
	opt.Channels[0].Brightness = int(brightness)
	opt.Channels[0].StripeType = stripTypes[order.String()]

	dev, err := ws.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("ws2811 setup: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("ws2811 init: %w", err)
	}
	return &PWM{dev: dev, count: count, brightness: brightness}, nil
}

// Write hands the channel brightness to the library, which scales in
// hardware.
func (p *PWM) Write(frame []pixel.RGB, brightness uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return fmt.Errorf("pwm not initialized")
	}
	if brightness != p.brightness {
		p.dev.SetBrightness(0, int(brightness))
		p.brightness = brightness
	}
	leds := p.dev.Leds(0)
	n := min(len(frame), len(leds))
	for i := 0; i < n; i++ {
		leds[i] = pixel.OrderRGB.Pack(frame[i])
	}
	clear(leds[n:])
	if err := p.dev.Render(); err != nil {
		return fmt.Errorf("ws2811 render: %w", err)
	}
	return nil
}

func (p *PWM) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev != nil {
		p.dev.Fini()
		p.dev = nil
	}
	return nil
}
