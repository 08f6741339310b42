package serial

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
)

type failingPort struct{}

func (failingPort) Read([]byte) (int, error) { return 0, errors.New("device unplugged") }

func TestReaderQueuesBytesUntilCancelled(t *testing.T) {
	q := command.NewQueue(8)
	r := &Reader{Port: bytes.NewReader([]byte{0x06, 0xFA, 0x42}), Queue: q, Log: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	assert.Eventually(t, func() bool { return q.Len() == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reader did not stop")
	}

	for _, want := range []byte{0x06, 0xFA, 0x42} {
		b, ok := q.Poll()
		require.True(t, ok)
		assert.Equal(t, want, b)
	}
}

func TestReaderReportsDrops(t *testing.T) {
	q := command.NewQueue(1)
	var dropped []byte
	r := &Reader{
		Port:   bytes.NewReader([]byte{1, 2, 3}),
		Queue:  q,
		Log:    zerolog.Nop(),
		OnDrop: func(b byte) { dropped = append(dropped, b) },
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, []byte{2, 3}, dropped)
}

func TestReaderSurfacesPortErrors(t *testing.T) {
	r := &Reader{Port: failingPort{}, Queue: command.NewQueue(1), Log: zerolog.Nop()}
	err := r.Run(context.Background())
	assert.ErrorContains(t, err, "device unplugged")
}

func TestSendWritesSingleByte(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Send(&buf, 0x0D))
	assert.Equal(t, []byte{0x0D}, buf.Bytes())
}
