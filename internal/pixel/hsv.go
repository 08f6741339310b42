package pixel

import colorful "github.com/lucasb-eyer/go-colorful"

// HSV is an 8-bit hue/saturation/value triple; hue 0..255 spans the full wheel.
type HSV struct{ H, S, V uint8 }

func (h HSV) color() colorful.Color {
	return colorful.Hsv(HueDegrees(h.H), float64(h.S)/255, float64(h.V)/255)
}

// RGB converts through the spectrum HSV model.
func (h HSV) RGB() RGB {
	r, g, b := h.color().Clamped().RGB255()
	return RGB{r, g, b}
}

// HueDegrees maps an 8-bit hue onto 0..360.
func HueDegrees(h uint8) float64 { return float64(h) * 360 / 256 }

// FromColorful converts a go-colorful color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Colorful exposes the pixel as a go-colorful color.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// FillRainbow paints hues starting at start and stepping by delta per pixel.
func FillRainbow(buf []RGB, start, delta, sat, val uint8) {
	h := HSV{H: start, S: sat, V: val}
	for i := range buf {
		buf[i] = h.RGB()
		h.H += delta
	}
}

// FillGradientHSV blends from a to b along buf in HSV space, taking the
// shorter way around the hue wheel.
func FillGradientHSV(buf []RGB, a, b HSV) {
	n := len(buf)
	if n == 0 {
		return
	}
	ca, cb := a.color(), b.color()
	if n == 1 {
		buf[0] = FromColorful(ca)
		return
	}
	for i := range buf {
		t := float64(i) / float64(n-1)
		buf[i] = FromColorful(ca.BlendHsv(cb, t))
	}
}
