package pattern

import "github.com/coreman2200/funtimes-lightstrip/internal/render"

// Kind identifies a pattern; its value is the table index and the command byte.
type Kind int

const (
	Rainbow Kind = iota
	FadeToBlack
	Confetti
	Sinelon
	Juggle
	BPM
	White
	Green
	Orange
	Blue
	Red
	Yellow
	Purple
	Gradient

	kindCount
)

var kindNames = [kindCount]string{
	Rainbow:     "rainbow",
	FadeToBlack: "fade-to-black",
	Confetti:    "confetti",
	Sinelon:     "sinelon",
	Juggle:      "juggle",
	BPM:         "bpm",
	White:       "white",
	Green:       "green",
	Orange:      "orange",
	Blue:        "blue",
	Red:         "red",
	Yellow:      "yellow",
	Purple:      "purple",
	Gradient:    "gradient",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds lists every kind in table order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Parse looks a kind up by name.
func Parse(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// New builds the pattern for k, or nil for an unknown kind.
func New(k Kind) render.Pattern {
	switch k {
	case Rainbow:
		return rainbow{}
	case FadeToBlack:
		return fadeToBlack{amount: 60}
	case Confetti:
		return confetti{}
	case Sinelon:
		return sinelon{}
	case Juggle:
		return juggle{}
	case BPM:
		return bpm{}
	case White, Green, Orange, Blue, Red, Yellow, Purple:
		return solid{kind: k, c: solidColors[k]}
	case Gradient:
		return gradient{}
	}
	return nil
}

// Default builds the canonical table, indexed by Kind.
func Default() *render.Table {
	ps := make([]render.Pattern, 0, kindCount)
	for _, k := range Kinds() {
		ps = append(ps, New(k))
	}
	return render.NewTable(ps...)
}
