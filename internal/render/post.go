package render

import (
	"math"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

// Power models strip current draw for the limiter.
//   - ChanMA: mA per color channel at full scale (WS2812 ≈ 20)
//   - BudgetMA: global budget in mA; 0 disables limiting
//   - Knee: fraction of budget where soft limiting begins
type Power struct {
	ChanMA   float64
	BudgetMA float64
	Knee     float64
}

// EstimateMA returns the current the frame would draw at brightness.
func (p Power) EstimateMA(buf []pixel.RGB, brightness uint8) float64 {
	chanMA := p.ChanMA
	if chanMA <= 0 {
		chanMA = 20
	}
	var sum float64
	for i := range buf {
		sum += float64(buf[i].Sum())
	}
	return sum / 255 * chanMA * float64(brightness) / 255
}

// Limit scales buf so the estimated draw stays under the budget and
// returns the scale applied (1 when untouched).
func (p Power) Limit(buf []pixel.RGB, brightness uint8) float64 {
	if p.BudgetMA <= 0 {
		return 1
	}
	knee := p.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	total := p.EstimateMA(buf, brightness)
	if total <= 0 {
		return 1
	}
	// Soft knee: start scaling gently after knee*budget, fully meet budget above budget
	ratio := total / p.BudgetMA
	var s float64
	switch {
	case ratio <= knee:
		return 1
	case ratio <= 1:
		minS := p.BudgetMA / total
		t := (ratio - knee) / (1 - knee)
		s = 1 - t*(1-minS)
	default:
		s = p.BudgetMA / total
	}
	applyGlobalScale(buf, s)
	return s
}

func applyGlobalScale(buf []pixel.RGB, s float64) {
	if s >= 1 {
		return
	}
	scale := uint8(s * 255)
	for i := range buf {
		buf[i] = buf[i].Nscale8(scale)
	}
}

// WhiteCap clamps each pixel so r+g+b <= limit*3*255. Limits outside (0,1)
// leave the frame alone.
func WhiteCap(buf []pixel.RGB, limit float64) {
	if limit <= 0 || limit >= 1 {
		return
	}
	ceiling := limit * 3 * 255
	for i, c := range buf {
		s := float64(c.Sum())
		if s <= ceiling {
			continue
		}
		k := ceiling / s
		buf[i] = pixel.RGB{
			R: uint8(math.Round(float64(c.R) * k)),
			G: uint8(math.Round(float64(c.G) * k)),
			B: uint8(math.Round(float64(c.B) * k)),
		}
	}
}
