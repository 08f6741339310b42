package playlist

// Clip shows one pattern for Seconds, optionally crossfading into the next
// clip over its last XFade seconds.
type Clip struct {
	Pattern string  `json:"pattern" yaml:"pattern" toml:"pattern"`
	Seconds float64 `json:"seconds" yaml:"seconds" toml:"seconds"`
	XFade   float64 `json:"xfade,omitempty" yaml:"xfade,omitempty" toml:"xfade,omitempty"`
	Ease    string  `json:"ease,omitempty" yaml:"ease,omitempty" toml:"ease,omitempty"` // linear, smooth or smoother
}

// Program is either a clip list or, with no clips, a bare cycle that
// advances to the next pattern every CycleSeconds.
type Program struct {
	Loop         bool    `json:"loop" yaml:"loop" toml:"loop"`
	CycleSeconds float64 `json:"cycle_seconds,omitempty" yaml:"cycle_seconds,omitempty" toml:"cycle_seconds,omitempty"`
	Clips        []Clip  `json:"clips,omitempty" yaml:"clips,omitempty" toml:"clips,omitempty"`
}

// Empty reports whether the program would never do anything.
func (p Program) Empty() bool { return len(p.Clips) == 0 && p.CycleSeconds <= 0 }

type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
)

// Hooks drive the render loop. They are called from Tick, so on whatever
// goroutine ticks the player.
type Hooks struct {
	SetPattern   func(name string)
	ArmNext      func(name string)
	SetCrossfade func(alpha float64) // 0..1 mix between active and armed
	Next         func()
}

// Player owns the program timeline.
type Player struct {
	State State

	prog  Program
	nowS  float64
	idx   int
	cycle float64

	armed     bool
	lastAlpha float64

	hooks Hooks
}
