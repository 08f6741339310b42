package pattern

import (
	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
	"github.com/coreman2200/funtimes-lightstrip/internal/render"
)

const (
	rainbowDelta = 7
	sinelonBPM   = 13
	beatBPM      = 62
	juggleDots   = 8
)

var solidColors = map[Kind]pixel.RGB{
	White:  pixel.White,
	Green:  pixel.Green,
	Orange: pixel.Orange,
	Blue:   pixel.Blue,
	Red:    pixel.Red,
	Yellow: pixel.Yellow,
	Purple: pixel.Purple,
}

type solid struct {
	kind Kind
	c    pixel.RGB
}

func (s solid) Name() string           { return s.kind.String() }
func (s solid) Render(f *render.Frame) { pixel.Fill(f.Buf, s.c) }

type rainbow struct{}

func (rainbow) Name() string { return Rainbow.String() }
func (rainbow) Render(f *render.Frame) {
	pixel.FillRainbow(f.Buf, f.Hue, rainbowDelta, 240, 255)
}

type fadeToBlack struct{ amount uint8 }

func (fadeToBlack) Name() string             { return FadeToBlack.String() }
func (p fadeToBlack) Render(f *render.Frame) { pixel.FadeToBlackBy(f.Buf, p.amount) }

// confetti: random colored speckles that blink in and fade smoothly.
type confetti struct{}

func (confetti) Name() string { return Confetti.String() }
func (confetti) Render(f *render.Frame) {
	n := len(f.Buf)
	if n == 0 {
		return
	}
	pixel.FadeToBlackBy(f.Buf, 10)
	pos := f.Rand.Intn(n)
	c := pixel.HSV{H: f.Hue + uint8(f.Rand.Intn(64)), S: 200, V: 255}.RGB()
	f.Buf[pos] = f.Buf[pos].Add(c)
}

// sinelon: a colored dot sweeping back and forth, with fading trails.
type sinelon struct{}

func (sinelon) Name() string { return Sinelon.String() }
func (sinelon) Render(f *render.Frame) {
	n := len(f.Buf)
	if n == 0 {
		return
	}
	pixel.FadeToBlackBy(f.Buf, 20)
	pos := pixel.BeatSin16(sinelonBPM, 0, uint16(n-1), f.Elapsed)
	f.Buf[pos] = f.Buf[pos].Add(pixel.HSV{H: f.Hue, S: 255, V: 192}.RGB())
}

// bpm: colored stripes pulsing at a defined beats-per-minute.
type bpm struct{}

func (bpm) Name() string { return BPM.String() }
func (bpm) Render(f *render.Frame) {
	beat := pixel.BeatSin8(beatBPM, 64, 255, f.Elapsed)
	for i := range f.Buf {
		f.Buf[i] = pixel.PartyColors.At(f.Hue+uint8(i*2), beat-f.Hue+uint8(i*10))
	}
}

// juggle: eight colored dots, weaving in and out of sync with each other.
type juggle struct{}

func (juggle) Name() string { return Juggle.String() }
func (juggle) Render(f *render.Frame) {
	n := len(f.Buf)
	if n == 0 {
		return
	}
	pixel.FadeToBlackBy(f.Buf, 20)
	var dothue uint8
	for k := 0; k < juggleDots; k++ {
		pos := pixel.BeatSin16(uint8(k+7), 0, uint16(n-1), f.Elapsed)
		f.Buf[pos] = f.Buf[pos].Max(pixel.HSV{H: dothue, S: 200, V: 255}.RGB())
		dothue += 32
	}
}

// gradient: a two-color blend whose endpoints drift with Theta.
type gradient struct{}

func (gradient) Name() string { return Gradient.String() }
func (gradient) Render(f *render.Frame) {
	h1 := pixel.Clamp8(pixel.Sin8(f.Theta), 10, 200)
	h2 := pixel.Clamp8(pixel.Cos8(f.Theta), 50, 150)
	pixel.FillGradientHSV(f.Buf, pixel.HSV{H: h1, S: 255, V: 210}, pixel.HSV{H: h2, S: 255, V: 200})
}
