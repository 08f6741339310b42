// Package playlist sequences patterns over time.
package playlist

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrEmptyProgram = errors.New("program has no clips and no cycle")
	ErrUnknownEase  = errors.New("unknown ease")
)

func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h}
}

// Load replaces the current program and resets to Idle.
func (p *Player) Load(prog Program) error {
	if prog.Empty() {
		return ErrEmptyProgram
	}
	for _, c := range prog.Clips {
		if c.Seconds <= 0 {
			return errors.New("clip " + c.Pattern + " has no duration")
		}
		if err := validEase(c.Ease); err != nil {
			return fmt.Errorf("clip %s: %w", c.Pattern, err)
		}
	}
	p.prog = prog
	p.nowS = 0
	p.idx = 0
	p.cycle = 0
	p.State = Idle
	p.armed = false
	p.lastAlpha = 0
	return nil
}

func (p *Player) Program() Program { return p.prog }

// Start moves to Running and selects the first clip.
func (p *Player) Start() {
	if p.State == Running || p.prog.Empty() {
		return
	}
	p.State = Running
	if len(p.prog.Clips) > 0 {
		p.enter(p.idx)
	}
}

func (p *Player) Pause() { p.State = Paused }

func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Stop rewinds to the start.
func (p *Player) Stop() {
	p.State = Idle
	p.nowS = 0
	p.idx = 0
	p.cycle = 0
	p.armed = false
	p.setAlpha(0)
}

// Seek jumps to absolute program time t, clamped into [0, total).
func (p *Player) Seek(t float64) {
	if len(p.prog.Clips) == 0 {
		return
	}
	t = max(t, 0)
	if total := p.totalDuration(); t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	idx := 0
	for i, c := range p.prog.Clips {
		if t < acc+c.Seconds {
			idx = i
			break
		}
		acc += c.Seconds
	}
	p.nowS = t
	p.enter(idx)
}

// Tick advances the timeline by dt. A dt spanning several clips passes
// through each of them in order.
func (p *Player) Tick(dt time.Duration) {
	if p.State != Running || dt <= 0 {
		return
	}
	sec := dt.Seconds()
	if len(p.prog.Clips) == 0 {
		p.cycle += sec
		for p.cycle >= p.prog.CycleSeconds {
			p.cycle -= p.prog.CycleSeconds
			if p.hooks.Next != nil {
				p.hooks.Next()
			}
		}
		return
	}
	p.nowS += sec

	clip, localT := p.current()
	for localT >= clip.Seconds {
		p.advance()
		if p.State != Running {
			return
		}
		clip, localT = p.current()
	}
	if clip.XFade > 0 {
		remain := clip.Seconds - localT
		if remain <= clip.XFade && remain >= 0 {
			next := p.nextIndex()
			if !p.armed && next != -1 && p.hooks.ArmNext != nil {
				p.hooks.ArmNext(p.prog.Clips[next].Pattern)
				p.armed = true
			}
			if p.armed {
				p.setAlpha(easeApply(clip.Ease, clamp01(1-remain/clip.XFade)))
			}
		}
	}
}

func (p *Player) current() (Clip, float64) {
	acc := 0.0
	for i := 0; i < p.idx; i++ {
		acc += p.prog.Clips[i].Seconds
	}
	return p.prog.Clips[p.idx], p.nowS - acc
}

func (p *Player) totalDuration() float64 {
	total := 0.0
	for _, c := range p.prog.Clips {
		total += c.Seconds
	}
	return total
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni >= len(p.prog.Clips) {
		if p.prog.Loop {
			return 0
		}
		return -1
	}
	return ni
}

func (p *Player) advance() {
	next := p.nextIndex()
	if next == -1 {
		p.State = Idle
		p.setAlpha(0)
		return
	}
	if next == 0 {
		p.nowS -= p.totalDuration()
	}
	p.enter(next)
}

// enter switches to clip idx and clears any crossfade.
func (p *Player) enter(idx int) {
	p.idx = idx
	if p.hooks.SetPattern != nil {
		p.hooks.SetPattern(p.prog.Clips[idx].Pattern)
	}
	p.armed = false
	p.lastAlpha = -1
	p.setAlpha(0)
}

func (p *Player) setAlpha(a float64) {
	if a == p.lastAlpha {
		return
	}
	p.lastAlpha = a
	if p.hooks.SetCrossfade != nil {
		p.hooks.SetCrossfade(a)
	}
}
