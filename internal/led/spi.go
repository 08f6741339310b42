package led

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

// DefaultSPISpeed is the SPI clock for an 800 kHz NRZ strip; nrzled spends
// three SPI bits on each NRZ bit.
const DefaultSPISpeed = 2400000

// SPI drives a WS2812-class strip through an SPI MOSI line.
type SPI struct {
	dev    *nrzled.Dev
	port   spi.PortCloser
	order  pixel.Order
	count  int
	raw    []byte
	closed bool
}

// OpenSPI initializes the periph host and opens the named SPI port ("" for
// the first one available).
func OpenSPI(name string, count int, order pixel.Order, speedHz int) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	d, err := NewSPI(p, count, order, speedHz)
	if err != nil {
		p.Close()
		return nil, err
	}
	return d, nil
}

// NewSPI wraps an already opened port.
func NewSPI(p spi.PortCloser, count int, order pixel.Order, speedHz int) (*SPI, error) {
	if speedHz <= 0 {
		speedHz = DefaultSPISpeed
	}
	dev, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      physic.Frequency(speedHz/3) * physic.Hertz,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &SPI{dev: dev, port: p, order: order, count: count, raw: make([]byte, 3*count)}, nil
}

func (s *SPI) String() string { return s.dev.String() }

// Write scales by brightness, since nrzled has no global brightness, and
// reorders channels for the strip.
func (s *SPI) Write(frame []pixel.RGB, brightness uint8) error {
	n := min(len(frame), s.count)
	for i := 0; i < n; i++ {
		w := s.order.Wire(frame[i].Nscale8(brightness))
		// nrzled emits its input as G, R, B.
		s.raw[3*i], s.raw[3*i+1], s.raw[3*i+2] = w[1], w[0], w[2]
	}
	clear(s.raw[3*n:])
	if _, err := s.dev.Write(s.raw); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

func (s *SPI) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.dev.Halt()
	if cerr := s.port.Close(); err == nil {
		err = cerr
	}
	return err
}
