package strip

// State is the render state owned by the loop goroutine. The pattern index
// is always inside [0, PatternCount).
type State struct {
	Brightness uint8
	Hue        uint8
	Theta      uint8

	pattern int
	count   int
}

// New returns a state over a table of patternCount entries.
func New(patternCount int, brightness uint8) *State {
	if patternCount < 1 {
		patternCount = 1
	}
	return &State{Brightness: brightness, count: patternCount}
}

// Pattern is the active pattern index.
func (s *State) Pattern() int { return s.pattern }

// PatternCount is the size of the pattern table this state indexes.
func (s *State) PatternCount() int { return s.count }

// SetPattern selects index i; out-of-range indexes leave the state unchanged.
func (s *State) SetPattern(i int) bool {
	if i < 0 || i >= s.count {
		return false
	}
	s.pattern = i
	return true
}

// AdvanceToNextPattern moves to the next pattern, wrapping to 0.
func (s *State) AdvanceToNextPattern() int {
	s.pattern = (s.pattern + 1) % s.count
	return s.pattern
}

// AdvanceHue and AdvanceTheta step the phase counters, wrapping at 256.
func (s *State) AdvanceHue()   { s.Hue++ }
func (s *State) AdvanceTheta() { s.Theta++ }

// Snapshot is a copy safe to hand to other goroutines.
func (s *State) Snapshot() State { return *s }
