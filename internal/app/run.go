package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-lightstrip/internal/button"
	"github.com/coreman2200/funtimes-lightstrip/internal/serial"
)

// Run opens the inputs and the monitor, runs the render loop until ctx is
// done, then tears everything down. The strip is blanked on the way out.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Driver.Close()
	// The scheduler blanks on its own way out; startup failures blank here.
	running := false
	defer func() {
		if running {
			return
		}
		if err := a.Engine.Blank(); err != nil {
			a.Log.Warn().Err(err).Msg("blank on startup failure")
		}
	}()
	var wg sync.WaitGroup

	if p := a.Cfg.Serial.Port; p != "" {
		port, err := serial.Open(p, a.Cfg.Serial.Baud)
		if err != nil {
			return err
		}
		defer port.Close()
		r := &serial.Reader{
			Port:   port,
			Queue:  a.Queue,
			Log:    component(a.Log, "serial"),
			OnDrop: func(byte) { a.Metrics.Dropped.Inc() },
		}
		a.Log.Info().Str("port", p).Int("baud", a.Cfg.Serial.Baud).Msg("serial input open")
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Run(ctx); err != nil {
				a.Log.Error().Err(err).Msg("serial reader stopped")
			}
		}()
	}

	if name := a.Cfg.Button.Pin; name != "" {
		pin, err := button.Open(name)
		if err != nil {
			a.Log.Warn().Err(err).Msg("button disabled")
		} else {
			b := button.New(pin, func() {
				a.Sched.Post(func() { a.Sched.Next("button") })
			}, component(a.Log, "button"))
			b.Debounce = time.Duration(a.Cfg.Button.DebounceMS) * time.Millisecond
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := b.Run(ctx); err != nil {
					a.Log.Warn().Err(err).Msg("button stopped")
				}
			}()
		}
	}

	defer func() {
		cancel()
		wg.Wait()
	}()

	if a.Monitor != nil {
		ln, err := net.Listen("tcp", a.Cfg.Monitor.Addr)
		if err != nil {
			return fmt.Errorf("monitor listen: %w", err)
		}
		srv := &http.Server{
			Handler:      a.Monitor.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		a.Log.Info().Str("addr", ln.Addr().String()).Str("driver", a.DriverName).Msg("HTTP server starting")
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.Log.Error().Err(err).Msg("http server crashed")
			}
		}()
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			a.Monitor.Close()
			_ = srv.Shutdown(sctx)
		}()
	}

	if a.Player != nil {
		a.Player.Start()
	}
	if a.Ready != nil {
		a.Ready()
	}
	running = true
	return a.Sched.Run(ctx)
}
