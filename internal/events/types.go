package events

// Event type constants for kelindar/event.
const (
	TypePatternChanged uint32 = iota + 1
	TypeBrightnessChanged
	TypeCommandIgnored
	TypeFrameRendered
	TypeSelfTest
	TypeDriverError
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// PatternChanged is published whenever the active pattern index moves.
type PatternChanged struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Cause string `json:"cause"` // command | button | playlist | control
}

func (e PatternChanged) Type() uint32 { return TypePatternChanged }

// BrightnessChanged carries the new hardware brightness.
type BrightnessChanged struct {
	Value uint8 `json:"value"`
	Byte  byte  `json:"byte"`
}

func (e BrightnessChanged) Type() uint32 { return TypeBrightnessChanged }

// CommandIgnored reports a byte with no effect.
type CommandIgnored struct {
	Byte byte `json:"byte"`
}

func (e CommandIgnored) Type() uint32 { return TypeCommandIgnored }

// FrameRendered is a copy of one submitted frame.
type FrameRendered struct {
	FrameID    uint64  `json:"frame_id"`
	Brightness uint8   `json:"brightness"`
	RGB        []byte  `json:"rgb"`
	RenderMS   float64 `json:"render_ms"`
}

func (e FrameRendered) Type() uint32 { return TypeFrameRendered }

// SelfTest tracks a hardware self-test sequence.
type SelfTest struct {
	Kind  string `json:"kind"`
	State string `json:"state"` // running | done | unknown
}

func (e SelfTest) Type() uint32 { return TypeSelfTest }

// DriverError reports a failed LED write.
type DriverError struct {
	Driver string `json:"driver"`
	Err    string `json:"error"`
}

func (e DriverError) Type() uint32 { return TypeDriverError }
