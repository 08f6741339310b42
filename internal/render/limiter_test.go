package render

import (
	"testing"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
)

func TestLimiterBudgetClamp(t *testing.T) {
	// 10 pixels all white at full brightness
	buf := make([]pixel.RGB, 10)
	pixel.Fill(buf, pixel.White)
	p := Power{ChanMA: 20, BudgetMA: 300, Knee: 0.9}

	// pre-limit current would be 10 * 60 = 600 mA
	s := p.Limit(buf, 255)
	if s > 0.51 {
		t.Fatalf("expected scale <= 0.5, got %.3f", s)
	}
	if cur := p.EstimateMA(buf, 255); cur > 300.1 {
		t.Fatalf("expected <= 300mA after limit, got %.2f mA", cur)
	}
}

func TestLimiterAccountsForBrightness(t *testing.T) {
	buf := make([]pixel.RGB, 10)
	pixel.Fill(buf, pixel.White)
	p := Power{ChanMA: 20, BudgetMA: 300}

	// 600 mA at full scale drops to ~118 mA at brightness 50
	if s := p.Limit(buf, 50); s != 1 {
		t.Fatalf("expected untouched frame, got scale %.3f", s)
	}
	if buf[0] != pixel.White {
		t.Fatalf("frame modified: %#v", buf[0])
	}
}

func TestLimiterDisabledWithoutBudget(t *testing.T) {
	buf := []pixel.RGB{pixel.White}
	if s := (Power{}).Limit(buf, 255); s != 1 || buf[0] != pixel.White {
		t.Fatalf("limiter should be a no-op, got %.3f %#v", s, buf[0])
	}
}

func TestWhiteCap(t *testing.T) {
	buf := []pixel.RGB{pixel.White, pixel.Red, {R: 200, G: 200, B: 0}}
	WhiteCap(buf, 0.5)

	// 765 -> 382.5 total, split evenly
	if got := buf[0]; got != (pixel.RGB{R: 128, G: 128, B: 128}) {
		t.Fatalf("white not capped: %#v", got)
	}
	if buf[1] != pixel.Red {
		t.Fatalf("red is under the cap and should be untouched: %#v", buf[1])
	}
	if s := buf[2].Sum(); s > 383 {
		t.Fatalf("yellow over cap: %d", s)
	}
}

func TestWhiteCapDisabled(t *testing.T) {
	buf := []pixel.RGB{pixel.White}
	WhiteCap(buf, 0)
	WhiteCap(buf, 1)
	if buf[0] != pixel.White {
		t.Fatalf("cap outside (0,1) must be a no-op: %#v", buf[0])
	}
}
