package playlist

import "fmt"

// validEase accepts linear (or empty), smooth and smoother. cubic is kept
// as another name for smoother.
func validEase(kind string) error {
	switch kind {
	case "", "linear", "smooth", "smoother", "cubic":
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownEase, kind)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// 6x^5 - 15x^4 + 10x^3
func smootherstep(x float64) float64 {
	return x * x * x * (x*(x*6-15) + 10)
}

func easeApply(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		return x * x * (3 - 2*x)
	case "smoother", "cubic":
		return smootherstep(x)
	default:
		return x
	}
}
