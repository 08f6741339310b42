// Package app wires configuration, the render loop and every input and
// output around it.
package app

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
	"github.com/coreman2200/funtimes-lightstrip/internal/config"
	"github.com/coreman2200/funtimes-lightstrip/internal/events"
	"github.com/coreman2200/funtimes-lightstrip/internal/led"
	"github.com/coreman2200/funtimes-lightstrip/internal/metrics"
	"github.com/coreman2200/funtimes-lightstrip/internal/monitor"
	"github.com/coreman2200/funtimes-lightstrip/internal/pattern"
	"github.com/coreman2200/funtimes-lightstrip/internal/playlist"
	"github.com/coreman2200/funtimes-lightstrip/internal/render"
	"github.com/coreman2200/funtimes-lightstrip/internal/scheduler"
	"github.com/coreman2200/funtimes-lightstrip/internal/selftest"
	"github.com/coreman2200/funtimes-lightstrip/internal/strip"
)

// monitorFrameEvery throttles frames copied out to websocket clients.
const monitorFrameEvery = 50 * time.Millisecond

// driverErrorEvery throttles driver failures pushed to /diag.
const driverErrorEvery = 5 * time.Second

type App struct {
	Cfg *config.Config
	Log zerolog.Logger

	Table      *render.Table
	State      *strip.State
	Engine     *render.Engine
	Sched      *scheduler.Scheduler
	Queue      *command.Queue
	Driver     led.Driver
	DriverName string
	Player     *playlist.Player

	Bus      *events.Bus
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Monitor  *monitor.Server

	// Ready is called once every input and output is up.
	Ready func()

	lastPublish   time.Time
	lastDriverErr time.Time
}

// New builds the render stack from cfg and opens the LED driver. Serial,
// button and HTTP are opened by Run.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	order, _ := cfg.Order()

	a := &App{Cfg: cfg, Log: log, Bus: events.New()}
	a.Table = pattern.Default()
	a.State = strip.New(a.Table.Len(), uint8(cfg.Brightness))

	a.Driver, a.DriverName = led.Open(led.Options{
		Name:       cfg.Driver,
		Count:      cfg.Strip.Length,
		Order:      order,
		Brightness: uint8(cfg.Brightness),
		SPIDev:     cfg.SPI.Dev,
		SPISpeedHz: cfg.SPI.SpeedHz,
		GPIO:       cfg.PWM.GPIO,
		DMA:        cfg.PWM.DMA,
	}, component(log, "led"))

	eng, err := render.NewEngine(cfg.Strip.Length, a.Table, a.State, a.Driver)
	if err != nil {
		a.Driver.Close()
		return nil, err
	}
	power := render.Power{ChanMA: cfg.Power.ChanMA, BudgetMA: cfg.Power.BudgetMA, Knee: cfg.Power.Knee}
	eng.SetPost(render.PostPipeline{WhiteCap: cfg.Power.WhiteCap, Limiter: power.Limit})
	eng.OverlayDone = func(o render.Overlay) {
		a.Log.Info().Str("test", o.Name()).Msg("self-test complete")
		a.Bus.Publish(events.SelfTest{Kind: o.Name(), State: "done"})
	}
	a.Engine = eng

	frame, hue, theta, poll := cfg.Cadence()
	a.Queue = command.NewQueue(cfg.Serial.Queue)
	a.Sched = scheduler.New(scheduler.Config{
		Frame:        frame,
		Hue:          hue,
		Theta:        theta,
		Poll:         poll,
		StartupDelay: time.Millisecond,
	}, eng, a.Queue, component(log, "scheduler"))
	a.Sched.Hooks = scheduler.Hooks{
		Command:        a.onCommand,
		PatternChanged: a.onPatternChanged,
		Frame:          a.onFrame,
		WriteError:     a.onWriteError,
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)
	a.Metrics.Brightness.Set(float64(cfg.Brightness))

	if !cfg.Playlist.Empty() {
		if err := a.loadPlaylist(cfg.Playlist); err != nil {
			a.Driver.Close()
			return nil, err
		}
	}
	if cfg.SelfTest != "" {
		k, err := selftest.Parse(cfg.SelfTest)
		if err != nil {
			a.Driver.Close()
			return nil, err
		}
		a.startSelfTest(k)
	}
	if cfg.Monitor.Addr != "" {
		a.Monitor = monitor.New(a.Bus, a, monitor.Options{
			Driver:     a.DriverName,
			Count:      cfg.Strip.Length,
			Brightness: a.State.Brightness,
			Pattern:    a.State.Pattern(),
			Gatherer:   a.Registry,
		}, component(log, "monitor"))
	}
	return a, nil
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func (a *App) loadPlaylist(prog playlist.Program) error {
	for _, c := range prog.Clips {
		if _, ok := a.Table.Index(c.Pattern); !ok {
			return fmt.Errorf("playlist: %w: %q", command.ErrUnknownPattern, c.Pattern)
		}
	}
	a.Player = playlist.NewPlayer(playlist.Hooks{
		SetPattern: func(name string) {
			if idx, ok := a.Table.Index(name); ok {
				a.Sched.Select(idx, "playlist")
			}
		},
		ArmNext: func(name string) {
			if idx, ok := a.Table.Index(name); ok {
				_ = a.Engine.ArmNext(idx)
			}
		},
		SetCrossfade: a.Engine.SetCrossfade,
		Next:         func() { a.Sched.Next("playlist") },
	})
	if err := a.Player.Load(prog); err != nil {
		return fmt.Errorf("playlist: %w", err)
	}
	a.Sched.Prog = a.Player
	return nil
}

// startSelfTest runs on the loop goroutine.
func (a *App) startSelfTest(k selftest.Kind) {
	a.Engine.SetOverlay(selftest.NewRunner(k))
	a.Log.Info().Str("test", string(k)).Msg("self-test started")
	a.Bus.Publish(events.SelfTest{Kind: string(k), State: "running"})
}
