package app

import (
	"context"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
	"github.com/coreman2200/funtimes-lightstrip/internal/config"
	"github.com/coreman2200/funtimes-lightstrip/internal/events"
	"github.com/coreman2200/funtimes-lightstrip/internal/led"
	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
	"github.com/coreman2200/funtimes-lightstrip/internal/playlist"
	"github.com/coreman2200/funtimes-lightstrip/internal/selftest"
)

func testConfig() *config.Config {
	c := config.Default()
	c.Strip.Length = 8
	c.Monitor.Addr = ""
	return c
}

func newApp(t *testing.T, c *config.Config) *App {
	t.Helper()
	a, err := New(c, zerolog.Nop())
	require.NoError(t, err)
	return a
}

// tickFor runs the loop by hand, one pass per millisecond.
func tickFor(a *App, t0 time.Time, d time.Duration) time.Time {
	for ms := time.Duration(0); ms <= d; ms += time.Millisecond {
		a.Sched.Tick(t0.Add(ms))
	}
	return t0.Add(d)
}

func TestCommandsReachEventsAndMetrics(t *testing.T) {
	a := newApp(t, testConfig())

	var mu sync.Mutex
	var got []string
	record := func(s string) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	}
	defer a.Bus.Subscribe(func(e events.PatternChanged) { record("pattern:" + e.Name) })()
	defer a.Bus.Subscribe(func(e events.CommandIgnored) { record("ignored") })()
	defer a.Bus.Subscribe(func(e events.BrightnessChanged) { record("brightness") })()

	for _, b := range []byte{0x06, 0x42, 0xFA} {
		require.True(t, a.Push(b))
	}
	tickFor(a, time.Now(), 2*time.Millisecond)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"pattern:white", "ignored", "brightness"}, got)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.Ignored))
	assert.Equal(t, 6.0, testutil.ToFloat64(a.Metrics.Pattern))
	assert.Equal(t, 88.0, testutil.ToFloat64(a.Metrics.Brightness))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Metrics.PatternChanges.WithLabelValues("command")))
}

func TestSelfTestAtStartup(t *testing.T) {
	c := testConfig()
	c.SelfTest = "halves"
	a := newApp(t, c)
	sim := a.Driver.(*led.Sim)

	done := make(chan struct{}, 1)
	defer a.Bus.Subscribe(func(e events.SelfTest) {
		if e.State == "done" {
			done <- struct{}{}
		}
	})()

	t0 := time.Now()
	tickFor(a, t0, 30*time.Millisecond)
	frame, b := sim.Last()
	require.Len(t, frame, 8)
	assert.Equal(t, uint8(164), b)
	for i, px := range frame {
		if i < 4 {
			assert.Equal(t, pixel.FromHex(0x00FFFF), px, "pixel %d", i)
		} else {
			assert.Equal(t, pixel.Black, px, "pixel %d", i)
		}
	}

	tickFor(a, t0.Add(31*time.Millisecond), 2*time.Second)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("self-test never finished")
	}
	assert.Nil(t, a.Engine.Overlay())
}

func TestPlaylistDrivesPatterns(t *testing.T) {
	c := testConfig()
	c.Playlist = playlist.Program{Loop: true, Clips: []playlist.Clip{
		{Pattern: "white", Seconds: 1},
		{Pattern: "red", Seconds: 1},
	}}
	a := newApp(t, c)
	require.NotNil(t, a.Player)
	white, _ := a.Table.Index("white")
	red, _ := a.Table.Index("red")

	a.Player.Start()
	assert.Equal(t, white, a.State.Pattern())
	tickFor(a, time.Now(), 1100*time.Millisecond)
	assert.Equal(t, red, a.State.Pattern())
	assert.Equal(t, 2.0, testutil.ToFloat64(a.Metrics.PatternChanges.WithLabelValues("playlist")))
}

func TestUnknownPlaylistPattern(t *testing.T) {
	c := testConfig()
	c.Playlist = playlist.Program{Clips: []playlist.Clip{{Pattern: "strobe", Seconds: 1}}}
	_, err := New(c, zerolog.Nop())
	assert.ErrorIs(t, err, command.ErrUnknownPattern)
}

func TestUnknownSelfTest(t *testing.T) {
	c := testConfig()
	c.SelfTest = "plane_z"
	_, err := New(c, zerolog.Nop())
	assert.ErrorIs(t, err, selftest.ErrUnknownKind)
}

func TestControllerPostsToLoop(t *testing.T) {
	a := newApp(t, testConfig())
	require.True(t, a.Next())
	require.True(t, a.RunTest(selftest.IndexSweep))
	assert.Equal(t, 0, a.State.Pattern())

	a.Sched.Tick(time.Now())
	assert.Equal(t, 1, a.State.Pattern())
	assert.NotNil(t, a.Engine.Overlay())
}

func TestRunBlanksOnShutdown(t *testing.T) {
	c := testConfig()
	c.Monitor.Addr = "127.0.0.1:0"
	a := newApp(t, c)
	require.NotNil(t, a.Monitor)
	sim := a.Driver.(*led.Sim)

	ready := make(chan struct{})
	a.Ready = func() { close(ready) }
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- a.Run(ctx) }()

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("never became ready")
	}
	assert.Eventually(t, func() bool { return sim.Count() > 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return")
	}
	frame, _ := sim.Last()
	for _, px := range frame {
		require.Equal(t, pixel.Black, px)
	}
}

// litStrip renders a few white frames so a later blank is observable.
func litStrip(t *testing.T, a *App) *led.Sim {
	t.Helper()
	sim := a.Driver.(*led.Sim)
	require.True(t, a.Push(0x06))
	tickFor(a, time.Now(), 100*time.Millisecond)
	frame, _ := sim.Last()
	require.Equal(t, pixel.White, frame[0])
	return sim
}

func requireBlank(t *testing.T, sim *led.Sim) {
	t.Helper()
	frame, _ := sim.Last()
	for _, px := range frame {
		require.Equal(t, pixel.Black, px)
	}
}

func TestRunBlanksWhenSerialFailsToOpen(t *testing.T) {
	c := testConfig()
	c.Serial.Port = filepath.Join(t.TempDir(), "no-such-tty")
	a := newApp(t, c)
	sim := litStrip(t, a)

	assert.Error(t, a.Run(context.Background()))
	requireBlank(t, sim)
}

func TestRunBlanksWhenMonitorCannotListen(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	c := testConfig()
	c.Monitor.Addr = ln.Addr().String()
	a := newApp(t, c)
	sim := litStrip(t, a)

	assert.ErrorContains(t, a.Run(context.Background()), "monitor listen")
	requireBlank(t, sim)
}
