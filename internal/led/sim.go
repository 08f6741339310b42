package led

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

// Sim keeps the last frame in memory and logs a compact summary of every
// Every-th frame, useful for headless runs.
type Sim struct {
	Every int

	mu         sync.Mutex
	log        zerolog.Logger
	count      int
	last       []pixel.RGB
	brightness uint8
}

func NewSim(log zerolog.Logger) *Sim {
	return &Sim{Every: 100, log: log}
}

func (d *Sim) Write(frame []pixel.RGB, brightness uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.count++
	d.last = append(d.last[:0], frame...)
	d.brightness = brightness
	if d.Every <= 0 || d.count%d.Every != 0 {
		return nil
	}
	var r, g, b int
	for _, c := range frame {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	n := len(frame)
	if n == 0 {
		n = 1
	}
	ev := d.log.Debug().
		Int("frame", d.count).
		Uint8("brightness", brightness).
		Ints("avg", []int{r / n, g / n, b / n})
	if len(frame) > 0 {
		ev = ev.Str("first", fmt.Sprintf("#%06x", frame[0].Hex()))
	}
	ev.Msg("sim frame")
	return nil
}

// Last returns a copy of the most recent frame and its brightness.
func (d *Sim) Last() ([]pixel.RGB, uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]pixel.RGB(nil), d.last...), d.brightness
}

func (d *Sim) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

func (d *Sim) Close() error { return nil }
