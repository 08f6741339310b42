package render

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
	"github.com/coreman2200/funtimes-lightstrip/internal/strip"
)

// Driver abstracts the LED transport (SPI, PWM, sim).
type Driver interface {
	Write(frame []pixel.RGB, brightness uint8) error
}

// Engine renders the active pattern from State, optionally crossfades into
// an armed next pattern, applies post-processing, then writes to the driver.
type Engine struct {
	Table *Table
	State *strip.State
	Drv   Driver

	// framebuffers
	Buf  []pixel.RGB // active pattern, persists between frames
	Next []pixel.RGB // armed pattern during crossfade
	Out  []pixel.RGB // mixed + post, what the driver sees

	// crossfade
	nextIdx int
	alpha   float64
	fading  bool

	overlay Overlay
	// OverlayDone is called once when the running overlay finishes.
	OverlayDone func(o Overlay)

	rnd    *rand.Rand
	t0     time.Time
	frames uint64
	post   PostPipeline

	// metrics (last durations in ms)
	Last struct {
		RenderMS float64
		PostMS   float64
		TotalMS  float64
		Scale    float64
	}
}

// PostPipeline groups post stages; all are optional.
type PostPipeline struct {
	WhiteCap float64
	Limiter  func(buf []pixel.RGB, brightness uint8) float64
}

// NewEngine allocates buffers of length n.
func NewEngine(n int, table *Table, st *strip.State, drv Driver) (*Engine, error) {
	if n <= 0 {
		return nil, errors.New("invalid strip length")
	}
	if table == nil || table.Len() == 0 {
		return nil, errors.New("empty pattern table")
	}
	if st == nil {
		return nil, errors.New("state is nil")
	}
	if st.PatternCount() != table.Len() {
		return nil, fmt.Errorf("state indexes %d patterns, table has %d", st.PatternCount(), table.Len())
	}
	return &Engine{
		Table:   table,
		State:   st,
		Drv:     drv,
		Buf:     make([]pixel.RGB, n),
		Next:    make([]pixel.RGB, n),
		Out:     make([]pixel.RGB, n),
		nextIdx: -1,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		t0:      time.Now(),
	}, nil
}

// Seed makes the random patterns reproducible.
func (e *Engine) Seed(seed int64) { e.rnd = rand.New(rand.NewSource(seed)) }

// Start resets the elapsed-time origin used by beat patterns.
func (e *Engine) Start(t0 time.Time) { e.t0 = t0 }

func (e *Engine) SetPost(p PostPipeline) { e.post = p }

// Frames counts frames written since start.
func (e *Engine) Frames() uint64 { return e.frames }

// RenderOnce renders and submits a single frame for wall time now.
func (e *Engine) RenderOnce(now time.Time) error {
	start := time.Now()
	if !e.renderOverlay() {
		f := Frame{Buf: e.Buf, Hue: e.State.Hue, Theta: e.State.Theta, Elapsed: now.Sub(e.t0), Rand: e.rnd}
		if p, ok := e.Table.At(e.State.Pattern()); ok {
			p.Render(&f)
		}
		if e.fading && e.nextIdx >= 0 {
			f.Buf = e.Next
			if p, ok := e.Table.At(e.nextIdx); ok {
				p.Render(&f)
			}
			Mix(e.Out, e.Buf, e.Next, e.alpha)
		} else {
			copy(e.Out, e.Buf)
		}
	}
	e.Last.RenderMS = float64(time.Since(start).Microseconds()) / 1000.0

	// Post
	postStart := time.Now()
	e.Last.Scale = 1
	WhiteCap(e.Out, e.post.WhiteCap)
	if e.post.Limiter != nil {
		e.Last.Scale = e.post.Limiter(e.Out, e.State.Brightness)
	}
	e.Last.PostMS = float64(time.Since(postStart).Microseconds()) / 1000.0

	// Write
	if e.Drv != nil {
		if err := e.Drv.Write(e.Out, e.State.Brightness); err != nil {
			return err
		}
	}
	e.frames++
	e.Last.TotalMS = float64(time.Since(start).Microseconds()) / 1000.0
	return nil
}

func (e *Engine) renderOverlay() bool {
	if e.overlay == nil {
		return false
	}
	if e.overlay.Step(e.Out) {
		return true
	}
	done := e.overlay
	e.overlay = nil
	if e.OverlayDone != nil {
		e.OverlayDone(done)
	}
	return false
}

// Blank writes an all-black frame.
func (e *Engine) Blank() error {
	pixel.Fill(e.Out, pixel.Black)
	if e.Drv == nil {
		return nil
	}
	return e.Drv.Write(e.Out, e.State.Brightness)
}

// ---- Overlay and crossfade hooks ----

// SetOverlay replaces pattern output until o completes; nil cancels.
func (e *Engine) SetOverlay(o Overlay) { e.overlay = o }

func (e *Engine) Overlay() Overlay { return e.overlay }

// ArmNext prepares pattern idx for a crossfade, seeding its buffer from the active one.
func (e *Engine) ArmNext(idx int) error {
	if _, ok := e.Table.At(idx); !ok {
		return errors.New("pattern index out of range")
	}
	copy(e.Next, e.Buf)
	e.nextIdx = idx
	e.alpha = 0
	e.fading = true
	return nil
}

// SetCrossfade sets mix alpha 0..1; 0 cancels the crossfade.
func (e *Engine) SetCrossfade(alpha float64) {
	switch {
	case alpha <= 0:
		e.alpha = 0
		e.fading = false
		e.nextIdx = -1
	case alpha >= 1:
		e.alpha = 1
	default:
		e.alpha = alpha
	}
}

// PatternChanged must be called after State.Pattern changes. If idx was
// armed, its buffer becomes the active one so the handoff is seamless.
func (e *Engine) PatternChanged(idx int) {
	if e.fading && e.nextIdx == idx {
		e.Buf, e.Next = e.Next, e.Buf
	}
	e.fading = false
	e.alpha = 0
	e.nextIdx = -1
}
