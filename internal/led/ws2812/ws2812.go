//go:build tinygo

// Package ws2812 drives a strip from a microcontroller pin under TinyGo.
package ws2812

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

// Strip bit-bangs GRB frames on one pin.
type Strip struct {
	dev ws2812.Device
	buf []color.RGBA
}

func New(pin machine.Pin, count int) *Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Strip{dev: ws2812.New(pin), buf: make([]color.RGBA, count)}
}

// Write scales by brightness in software; the driver emits GRB itself.
func (s *Strip) Write(frame []pixel.RGB, brightness uint8) error {
	n := min(len(frame), len(s.buf))
	for i := 0; i < n; i++ {
		c := frame[i].Nscale8(brightness)
		s.buf[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	clear(s.buf[n:])
	return s.dev.WriteColors(s.buf)
}

func (s *Strip) Close() error {
	clear(s.buf)
	return s.dev.WriteColors(s.buf)
}
