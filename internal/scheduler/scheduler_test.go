package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
	"github.com/coreman2200/funtimes-lightstrip/internal/pattern"
	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
	"github.com/coreman2200/funtimes-lightstrip/internal/render"
	"github.com/coreman2200/funtimes-lightstrip/internal/strip"
)

const defaultBrightness = 164

type submission struct {
	frame      []pixel.RGB
	brightness uint8
}

// recorder keeps every frame it is handed.
type recorder struct {
	mu   sync.Mutex
	subs []submission
	fail error
}

func (r *recorder) Write(frame []pixel.RGB, brightness uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.subs = append(r.subs, submission{append([]pixel.RGB(nil), frame...), brightness})
	return nil
}

func (r *recorder) last() submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[len(r.subs)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

type countingProgram struct{ total time.Duration }

func (p *countingProgram) Tick(dt time.Duration) { p.total += dt }

func newScheduler(t *testing.T) (*Scheduler, *command.Queue, *recorder) {
	t.Helper()
	table := pattern.Default()
	rec := &recorder{}
	eng, err := render.NewEngine(300, table, strip.New(table.Len(), defaultBrightness), rec)
	require.NoError(t, err)
	eng.Seed(1)
	q := command.NewQueue(16)
	return New(FromFPS(60), eng, q, zerolog.Nop()), q, rec
}

// runFor ticks every millisecond from t0 for d.
func runFor(s *Scheduler, t0 time.Time, d time.Duration) time.Time {
	for ms := time.Duration(1); ms <= d/time.Millisecond; ms++ {
		s.Tick(t0.Add(ms * time.Millisecond))
	}
	return t0.Add(d)
}

func TestFromFPSDefaults(t *testing.T) {
	c := FromFPS(60)
	assert.Equal(t, 30*time.Millisecond, c.Frame)
	assert.Equal(t, 60*time.Millisecond, c.Hue)
	assert.Equal(t, 300*time.Millisecond, c.Theta)
	assert.Equal(t, FromFPS(60), FromFPS(0))
}

func TestCadencesFireIndependently(t *testing.T) {
	s, _, rec := newScheduler(t)
	t0 := time.Now()
	s.Tick(t0)
	runFor(s, t0, 300*time.Millisecond)

	assert.Equal(t, 10, rec.count())
	assert.Equal(t, uint8(5), s.State.Hue)
	assert.Equal(t, uint8(1), s.State.Theta)
}

func TestWhiteCommandShowsOnNextFrame(t *testing.T) {
	s, q, rec := newScheduler(t)
	t0 := time.Now()
	s.Tick(t0)

	require.True(t, q.Push(0x06))
	s.Tick(t0.Add(time.Millisecond))
	assert.Equal(t, int(pattern.White), s.State.Pattern())
	assert.Equal(t, 0, rec.count())

	runFor(s, t0, 30*time.Millisecond)
	require.Equal(t, 1, rec.count())
	sub := rec.last()
	assert.Equal(t, uint8(defaultBrightness), sub.brightness)
	for _, c := range sub.frame {
		require.Equal(t, pixel.White, c)
	}
}

func TestBrightnessCommandAppliesToEveryPattern(t *testing.T) {
	s, q, rec := newScheduler(t)
	t0 := time.Now()
	s.Tick(t0)
	require.True(t, q.Push(0xFA))
	s.Tick(t0.Add(time.Millisecond))

	now := t0.Add(time.Millisecond)
	for _, k := range pattern.Kinds() {
		require.True(t, q.Push(byte(k)))
		now = runFor(s, now, 30*time.Millisecond)
		assert.Equal(t, uint8(88), rec.last().brightness, k.String())
	}
}

func TestFrameRendersBeforeInboundByte(t *testing.T) {
	s, q, rec := newScheduler(t)
	t0 := time.Now()
	s.Tick(t0)

	require.True(t, q.Push(0x06))
	s.Tick(t0.Add(30 * time.Millisecond))
	assert.NotEqual(t, pixel.White, rec.last().frame[0], "rainbow frame expected before the byte applies")
	assert.Equal(t, int(pattern.White), s.State.Pattern())
}

func TestOneBytePerPass(t *testing.T) {
	s, q, _ := newScheduler(t)
	for _, b := range []byte{0x02, 0x03, 0x04} {
		require.True(t, q.Push(b))
	}
	t0 := time.Now()
	s.Tick(t0)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 2, s.State.Pattern())
	s.Tick(t0.Add(time.Millisecond))
	s.Tick(t0.Add(2 * time.Millisecond))
	assert.Equal(t, 4, s.State.Pattern())
}

func TestHooksSeeCommandsAndPatternChanges(t *testing.T) {
	s, q, _ := newScheduler(t)
	var results []command.Result
	var causes []string
	s.Hooks.Command = func(r command.Result) { results = append(results, r) }
	s.Hooks.PatternChanged = func(idx int, cause string) { causes = append(causes, cause) }

	q.Push(0x42)
	q.Push(0x0D)
	q.Push(0x0D)
	t0 := time.Now()
	for i := 0; i < 3; i++ {
		s.Tick(t0.Add(time.Duration(i) * time.Millisecond))
	}
	require.Len(t, results, 3)
	assert.Equal(t, command.Ignored, results[0].Kind)
	assert.True(t, results[1].Changed)
	assert.False(t, results[2].Changed)
	assert.Equal(t, []string{"command"}, causes)
}

func TestPostRunsOnNextPass(t *testing.T) {
	s, _, _ := newScheduler(t)
	var causes []string
	s.Hooks.PatternChanged = func(idx int, cause string) { causes = append(causes, cause) }
	s.State.SetPattern(13)

	require.True(t, s.Post(func() { s.Next("button") }))
	assert.Equal(t, 13, s.State.Pattern())
	s.Tick(time.Now())
	assert.Equal(t, 0, s.State.Pattern())
	assert.Equal(t, []string{"button"}, causes)
}

func TestSelectIgnoresSameAndInvalid(t *testing.T) {
	s, _, _ := newScheduler(t)
	assert.False(t, s.Select(0, "playlist"))
	assert.False(t, s.Select(99, "playlist"))
	assert.True(t, s.Select(5, "playlist"))
	assert.Equal(t, 5, s.State.Pattern())
}

func TestProgramReceivesElapsedTime(t *testing.T) {
	s, _, _ := newScheduler(t)
	p := &countingProgram{}
	s.Prog = p
	t0 := time.Now()
	s.Tick(t0)
	runFor(s, t0, 100*time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, p.total)
}

func TestWriteErrorsDoNotStopTheLoop(t *testing.T) {
	s, _, rec := newScheduler(t)
	rec.fail = errors.New("bus fault")
	var errs int
	s.Hooks.WriteError = func(error) { errs++ }

	t0 := time.Now()
	s.Tick(t0)
	runFor(s, t0, 90*time.Millisecond)
	assert.Equal(t, 3, errs)
	assert.Equal(t, uint8(1), s.State.Hue)
}

func TestRunBlanksOnCancel(t *testing.T) {
	s, q, rec := newScheduler(t)
	q.Push(0x06)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return rec.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	for _, c := range rec.last().frame {
		require.Equal(t, pixel.Black, c)
	}
}
