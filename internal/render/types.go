package render

import (
	"math/rand"
	"time"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

// Frame is everything a pattern may read while drawing one frame.
type Frame struct {
	Buf     []pixel.RGB
	Hue     uint8
	Theta   uint8
	Elapsed time.Duration
	Rand    *rand.Rand
}

// Pattern rewrites Frame.Buf in place. Buf keeps the previous frame's
// contents, so fading patterns build on what is already there.
type Pattern interface {
	Name() string
	Render(f *Frame)
}

// Overlay temporarily replaces pattern output. Step fills dst and
// returns false once the overlay has nothing more to show.
type Overlay interface {
	Name() string
	Step(dst []pixel.RGB) bool
}

// Table is the fixed, ordered list of patterns.
type Table struct {
	list []Pattern
	idx  map[string]int
}

func NewTable(ps ...Pattern) *Table {
	t := &Table{idx: map[string]int{}}
	for _, p := range ps {
		if p == nil {
			continue
		}
		t.idx[p.Name()] = len(t.list)
		t.list = append(t.list, p)
	}
	return t
}

func (t *Table) Len() int { return len(t.list) }

func (t *Table) At(i int) (Pattern, bool) {
	if i < 0 || i >= len(t.list) {
		return nil, false
	}
	return t.list[i], true
}

func (t *Table) Index(name string) (int, bool) {
	i, ok := t.idx[name]
	return i, ok
}

func (t *Table) Names() []string {
	out := make([]string, len(t.list))
	for i, p := range t.list {
		out[i] = p.Name()
	}
	return out
}
