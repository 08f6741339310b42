package monitor

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
	diag "github.com/coreman2200/funtimes-lightstrip/internal/diagnostics"
	"github.com/coreman2200/funtimes-lightstrip/internal/selftest"
)

var errBusy = errors.New("command queue full")

// Control is one /control message. Fields are applied in declaration
// order; the first failure stops the rest.
type Control struct {
	Byte       *int    `json:"byte,omitempty"`
	Pattern    *string `json:"pattern,omitempty"`
	Brightness *int    `json:"brightness,omitempty"`
	Next       bool    `json:"next,omitempty"`
	RunTest    *string `json:"runTest,omitempty"`
}

type Reply struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Health Health `json:"health"`
}

func (s *Server) apply(m Control) error {
	if m.Byte != nil {
		if *m.Byte < 0 || *m.Byte > 0xFF {
			return fmt.Errorf("byte %d outside 0..255", *m.Byte)
		}
		if err := s.push(byte(*m.Byte)); err != nil {
			return err
		}
	}
	if m.Pattern != nil {
		b, err := command.PatternByte(*m.Pattern)
		if err != nil {
			return err
		}
		if err := s.push(b); err != nil {
			return err
		}
	}
	if m.Brightness != nil {
		b, err := command.BrightnessByte(*m.Brightness)
		if err != nil {
			return err
		}
		if err := s.push(b); err != nil {
			return err
		}
	}
	if m.Next && !s.ctl.Next() {
		return errBusy
	}
	if m.RunTest != nil {
		k, err := selftest.Parse(*m.RunTest)
		if err != nil {
			s.pushDiag(diag.SelfTest(*m.RunTest, "unknown"))
			return err
		}
		if !s.ctl.RunTest(k) {
			return errBusy
		}
	}
	return nil
}

func (s *Server) push(b byte) error {
	if !s.ctl.Push(b) {
		return errBusy
	}
	return nil
}
