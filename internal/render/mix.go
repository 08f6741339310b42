package render

import "github.com/coreman2200/funtimes-lightstrip/internal/pixel"

// Mix blends two framebuffers (a,b) into dst using alpha (0..1).
func Mix(dst, a, b []pixel.RGB, alpha float64) {
	if alpha <= 0 {
		copy(dst, a)
		return
	}
	if alpha >= 1 {
		copy(dst, b)
		return
	}
	frac := uint8(alpha * 255)
	for i := range dst {
		dst[i] = a[i].Lerp(b[i], frac)
	}
}
