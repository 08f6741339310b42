// Package selftest draws hardware bring-up sequences over the pattern
// output.
package selftest

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

type Kind string

const (
	IndexSweep  Kind = "index_sweep"
	RGBChannels Kind = "rgb_channels"
	Halves      Kind = "halves"
)

var ErrUnknownKind = errors.New("unknown self-test")

func Kinds() []Kind { return []Kind{IndexSweep, RGBChannels, Halves} }

// Parse accepts a kind name.
func Parse(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// DefaultHold is how many frames each stage of rgb_channels and halves stays
// lit.
const DefaultHold = 20

// Runner steps one sequence, one stage per Hold frames.
type Runner struct {
	kind Kind
	Hold int
	step int
}

func NewRunner(k Kind) *Runner { return &Runner{kind: k, Hold: DefaultHold} }

func (r *Runner) Kind() Kind { return r.kind }

// Name implements render.Overlay.
func (r *Runner) Name() string { return string(r.kind) }

// Step fills dst; returns false when complete.
func (r *Runner) Step(dst []pixel.RGB) bool {
	pixel.Fill(dst, pixel.Black)
	n := len(dst)
	hold := max(r.Hold, 1)

	switch r.kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		dst[r.step] = pixel.White
	case RGBChannels:
		phase := r.step / hold
		if phase >= 3 {
			return false
		}
		c := [3]pixel.RGB{pixel.Red, pixel.FromHex(0x00FF00), pixel.Blue}[phase]
		pixel.Fill(dst, c)
	case Halves:
		phase := r.step / hold
		if phase >= 2 {
			return false
		}
		lo, hi := 0, n/2
		if phase == 1 {
			lo, hi = n/2, n
		}
		pixel.Fill(dst[lo:hi], pixel.FromHex(0x00FFFF))
	default:
		return false
	}
	r.step++
	return true
}
