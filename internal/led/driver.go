// Package led pushes rendered frames to an addressable LED strip.
package led

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes one frame at the given hardware brightness. The frame
	// itself is never modified.
	Write(frame []pixel.RGB, brightness uint8) error
	// Close releases resources.
	Close() error
}

// Options selects and configures a driver.
type Options struct {
	Name       string // sim, spi or pwm
	Count      int
	Order      pixel.Order
	Brightness uint8

	SPIDev     string
	SPISpeedHz int

	GPIO int
	DMA  int
}

// Open returns the requested driver and the name of the one actually in
// use. A hardware driver that fails to start is replaced by Sim.
func Open(o Options, log zerolog.Logger) (Driver, string) {
	var (
		d   Driver
		err error
	)
	switch o.Name {
	case "", "sim":
		return NewSim(log), "sim"
	case "spi":
		d, err = OpenSPI(o.SPIDev, o.Count, o.Order, o.SPISpeedHz)
	case "pwm":
		d, err = NewPWM(o.GPIO, o.DMA, o.Count, o.Order, o.Brightness)
	default:
		err = fmt.Errorf("unknown driver %q", o.Name)
	}
	if err != nil {
		log.Warn().Err(err).Str("driver", o.Name).Msg("led driver unavailable, using sim")
		return NewSim(log), "sim"
	}
	log.Info().Str("driver", o.Name).Int("count", o.Count).Stringer("order", o.Order).Msg("led driver ready")
	return d, o.Name
}
