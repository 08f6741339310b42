// Package serial feeds command bytes from a serial link into a command queue.
package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	tarm "github.com/tarm/serial"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
)

// DefaultBaud matches the microcontroller link.
const DefaultBaud = 9600

// readTimeout bounds each Read so Run notices cancellation.
const readTimeout = 100 * time.Millisecond

// Open opens name at baud with a short read timeout.
func Open(name string, baud int) (*tarm.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := tarm.OpenPort(&tarm.Config{Name: name, Baud: baud, ReadTimeout: readTimeout})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return p, nil
}

// Send writes one command byte to the port.
func Send(w io.Writer, b byte) error {
	if _, err := w.Write([]byte{b}); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// Reader copies bytes from Port into Queue until cancelled.
type Reader struct {
	Port  io.Reader
	Queue *command.Queue
	Log   zerolog.Logger
	// OnDrop is called for bytes lost to a full queue.
	OnDrop func(b byte)
}

// Run blocks until ctx is done or the port fails. A timed-out read
// surfaces as io.EOF on POSIX and is not an error.
func (r *Reader) Run(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, err := r.Port.Read(buf)
		for _, b := range buf[:n] {
			if !r.Queue.Push(b) {
				r.Log.Warn().Uint8("byte", b).Msg("command queue full; dropping byte")
				if r.OnDrop != nil {
					r.OnDrop(b)
				}
			}
		}
		switch {
		case err == nil, errors.Is(err, io.EOF):
			if n == 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(time.Millisecond):
				}
			}
		default:
			return fmt.Errorf("serial read: %w", err)
		}
	}
}
