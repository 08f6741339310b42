//go:build !rpi

package led

import (
	"errors"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

var errNoPWM = errors.New("pwm driver not built in (build with -tags rpi)")

type PWM struct{}

func NewPWM(gpio, dma, count int, order pixel.Order, brightness uint8) (*PWM, error) {
	return nil, errNoPWM
}

func (p *PWM) Write(frame []pixel.RGB, brightness uint8) error { return errNoPWM }
func (p *PWM) Close() error                                    { return nil }
