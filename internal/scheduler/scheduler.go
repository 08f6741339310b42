package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
	"github.com/coreman2200/funtimes-lightstrip/internal/render"
	"github.com/coreman2200/funtimes-lightstrip/internal/strip"
)

// Config holds the cadence intervals.
type Config struct {
	Frame        time.Duration
	Hue          time.Duration
	Theta        time.Duration
	Poll         time.Duration
	StartupDelay time.Duration
}

// FromFPS derives the cadences the firmware uses: a frame every fps/2 ms,
// a hue step every fps ms and a theta step every 300 ms.
func FromFPS(fps int) Config {
	if fps <= 0 {
		fps = 60
	}
	return Config{
		Frame:        time.Duration(fps/2) * time.Millisecond,
		Hue:          time.Duration(fps) * time.Millisecond,
		Theta:        300 * time.Millisecond,
		Poll:         time.Millisecond,
		StartupDelay: time.Millisecond,
	}
}

// Program is a timed driver of pattern changes, such as a playlist.
type Program interface {
	Tick(dt time.Duration)
}

// Hooks are optional observers, called on the loop goroutine.
type Hooks struct {
	Command        func(r command.Result)
	PatternChanged func(idx int, cause string)
	Frame          func(e *render.Engine)
	WriteError     func(err error)
}

// Scheduler owns the render state and runs every cadence on one goroutine.
type Scheduler struct {
	cfg    Config
	State  *strip.State
	Engine *render.Engine
	Interp *command.Interpreter
	Source command.Source
	Prog   Program
	Hooks  Hooks

	posts chan func()
	log   zerolog.Logger
	wlog  zerolog.Logger

	started   bool
	lastFrame time.Time
	lastHue   time.Time
	lastTheta time.Time
	lastTick  time.Time
}

// New wires a scheduler around an engine. src may be nil.
func New(cfg Config, eng *render.Engine, src command.Source, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		State:  eng.State,
		Engine: eng,
		Interp: command.NewInterpreter(eng.State),
		Source: src,
		posts:  make(chan func(), 64),
		log:    log,
		wlog:   log.Sample(&zerolog.BurstSampler{Burst: 1, Period: 5 * time.Second}),
	}
}

func (s *Scheduler) Config() Config { return s.cfg }

// Start fixes the time origin for every cadence. Tick calls it on first use.
func (s *Scheduler) Start(now time.Time) {
	s.started = true
	s.lastFrame, s.lastHue, s.lastTheta, s.lastTick = now, now, now, now
	s.Engine.Start(now)
}

// Tick runs one pass: frame, theta, hue, posted closures, program, then
// at most one inbound byte. Cadences that are not due do nothing.
func (s *Scheduler) Tick(now time.Time) {
	if !s.started {
		s.Start(now)
	}
	if due(now, &s.lastFrame, s.cfg.Frame) {
		s.renderFrame(now)
	}
	if due(now, &s.lastTheta, s.cfg.Theta) {
		s.State.AdvanceTheta()
	}
	if due(now, &s.lastHue, s.cfg.Hue) {
		s.State.AdvanceHue()
	}
	s.drainPosts()
	if s.Prog != nil {
		s.Prog.Tick(now.Sub(s.lastTick))
	}
	s.lastTick = now
	if s.Source != nil {
		if b, ok := s.Source.Poll(); ok {
			s.apply(b)
		}
	}
}

func due(now time.Time, last *time.Time, every time.Duration) bool {
	if now.Sub(*last) < every {
		return false
	}
	*last = now
	return true
}

func (s *Scheduler) renderFrame(now time.Time) {
	if err := s.Engine.RenderOnce(now); err != nil {
		s.wlog.Warn().Err(err).Msg("led write failed")
		if s.Hooks.WriteError != nil {
			s.Hooks.WriteError(err)
		}
		return
	}
	if s.Hooks.Frame != nil {
		s.Hooks.Frame(s.Engine)
	}
}

func (s *Scheduler) drainPosts() {
	for {
		select {
		case f := <-s.posts:
			f()
		default:
			return
		}
	}
}

func (s *Scheduler) apply(b byte) {
	r := s.Interp.Apply(b)
	s.log.Debug().Stringer("result", r).Msg("command")
	if r.Kind == command.Pattern && r.Changed {
		s.patternChanged("command")
	}
	if s.Hooks.Command != nil {
		s.Hooks.Command(r)
	}
}

func (s *Scheduler) patternChanged(cause string) {
	s.Engine.PatternChanged(s.State.Pattern())
	if s.Hooks.PatternChanged != nil {
		s.Hooks.PatternChanged(s.State.Pattern(), cause)
	}
}

// Post queues f to run on the loop goroutine at the next pass. It reports
// false when the queue is full.
func (s *Scheduler) Post(f func()) bool {
	select {
	case s.posts <- f:
		return true
	default:
		return false
	}
}

// Next advances to the following pattern. Loop goroutine only.
func (s *Scheduler) Next(cause string) {
	s.State.AdvanceToNextPattern()
	s.patternChanged(cause)
}

// Select switches to pattern idx. Loop goroutine only.
func (s *Scheduler) Select(idx int, cause string) bool {
	if idx == s.State.Pattern() {
		return false
	}
	if !s.State.SetPattern(idx) {
		return false
	}
	s.patternChanged(cause)
	return true
}

// Run ticks every Poll interval until ctx is cancelled, then blanks the strip.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cfg.StartupDelay > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.cfg.StartupDelay):
		}
	}
	poll := s.cfg.Poll
	if poll <= 0 {
		poll = time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	s.log.Info().
		Dur("frame", s.cfg.Frame).
		Dur("hue", s.cfg.Hue).
		Dur("theta", s.cfg.Theta).
		Msg("render loop started")
	for {
		select {
		case now := <-ticker.C:
			s.Tick(now)
		case <-ctx.Done():
			s.drainPosts()
			if err := s.Engine.Blank(); err != nil {
				s.log.Warn().Err(err).Msg("blank on shutdown")
			}
			s.log.Info().Uint64("frames", s.Engine.Frames()).Msg("render loop stopped")
			return nil
		}
	}
}
