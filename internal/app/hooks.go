package app

import (
	"time"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
	"github.com/coreman2200/funtimes-lightstrip/internal/events"
	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
	"github.com/coreman2200/funtimes-lightstrip/internal/render"
	"github.com/coreman2200/funtimes-lightstrip/internal/selftest"
)

// Scheduler hooks; all run on the loop goroutine.

func (a *App) onCommand(r command.Result) {
	a.Metrics.Command(r)
	switch r.Kind {
	case command.Ignored:
		a.Bus.Publish(events.CommandIgnored{Byte: r.Byte})
	case command.Brightness:
		if r.Changed {
			a.Bus.Publish(events.BrightnessChanged{Value: uint8(r.Value), Byte: r.Byte})
		}
	}
}

func (a *App) onPatternChanged(idx int, cause string) {
	name := ""
	if p, ok := a.Table.At(idx); ok {
		name = p.Name()
	}
	a.Metrics.PatternChanges.WithLabelValues(cause).Inc()
	a.Metrics.Pattern.Set(float64(idx))
	a.Log.Info().Int("index", idx).Str("pattern", name).Str("cause", cause).Msg("pattern changed")
	a.Bus.Publish(events.PatternChanged{Index: idx, Name: name, Cause: cause})
}

func (a *App) onFrame(e *render.Engine) {
	a.Metrics.Frame(e.Last.TotalMS, e.Last.Scale)
	if a.Monitor == nil {
		return
	}
	now := time.Now()
	if now.Sub(a.lastPublish) < monitorFrameEvery {
		return
	}
	a.lastPublish = now
	a.Bus.Publish(events.FrameRendered{
		FrameID:    e.Frames(),
		Brightness: e.State.Brightness,
		RGB:        pixel.Bytes(e.Out),
		RenderMS:   e.Last.RenderMS,
	})
}

func (a *App) onWriteError(err error) {
	a.Metrics.WriteErrors.Inc()
	now := time.Now()
	if now.Sub(a.lastDriverErr) < driverErrorEvery {
		return
	}
	a.lastDriverErr = now
	a.Bus.Publish(events.DriverError{Driver: a.DriverName, Err: err.Error()})
}

// Controller methods, safe from any goroutine.

// Push queues one command byte behind any already waiting.
func (a *App) Push(b byte) bool {
	if !a.Queue.Push(b) {
		a.Metrics.Dropped.Inc()
		return false
	}
	return true
}

// Next advances the pattern at the next loop pass.
func (a *App) Next() bool {
	return a.Sched.Post(func() { a.Sched.Next("control") })
}

func (a *App) RunTest(k selftest.Kind) bool {
	return a.Sched.Post(func() { a.startSelfTest(k) })
}
