package command

import (
	"fmt"

	"github.com/coreman2200/funtimes-lightstrip/internal/strip"
)

// Command byte ranges.
const (
	PatternFirst    byte = 0x00
	PatternLast     byte = 0x0D
	BrightnessFirst byte = 0xF0
	BrightnessLast  byte = 0xFA
)

// Presets maps brightness commands 0xF0..0xFA onto the hardware scale.
var Presets = [11]uint8{5, 10, 20, 30, 40, 50, 60, 70, 80, 85, 88}

// Kind classifies what a byte did.
type Kind int

const (
	Ignored Kind = iota
	Pattern
	Brightness
)

func (k Kind) String() string {
	switch k {
	case Pattern:
		return "pattern"
	case Brightness:
		return "brightness"
	}
	return "ignored"
}

// Result describes the effect of one byte.
type Result struct {
	Byte    byte
	Kind    Kind
	Value   int
	Changed bool
}

func (r Result) String() string {
	return fmt.Sprintf("0x%02X %s=%d changed=%t", r.Byte, r.Kind, r.Value, r.Changed)
}

// Interpreter maps command bytes onto render-state mutations.
type Interpreter struct {
	State *strip.State
}

func NewInterpreter(s *strip.State) *Interpreter { return &Interpreter{State: s} }

// Apply interprets b. Bytes outside both ranges, and pattern bytes past
// the end of the table, leave the state untouched.
func (in *Interpreter) Apply(b byte) Result {
	switch {
	case b <= PatternLast:
		idx := int(b - PatternFirst)
		if idx >= in.State.PatternCount() {
			return Result{Byte: b, Kind: Ignored, Value: idx}
		}
		changed := in.State.Pattern() != idx
		in.State.SetPattern(idx)
		return Result{Byte: b, Kind: Pattern, Value: idx, Changed: changed}
	case b >= BrightnessFirst && b <= BrightnessLast:
		v := Presets[b-BrightnessFirst]
		changed := in.State.Brightness != v
		in.State.Brightness = v
		return Result{Byte: b, Kind: Brightness, Value: int(v), Changed: changed}
	}
	return Result{Byte: b, Kind: Ignored, Value: int(b)}
}
