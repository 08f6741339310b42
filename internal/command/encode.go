package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/coreman2200/funtimes-lightstrip/internal/pattern"
)

var (
	ErrUnknownPattern  = errors.New("unknown pattern")
	ErrBrightnessLevel = errors.New("brightness level must be 0..10")
)

// aliases are the spoken mode names used by the voice front end.
var aliases = map[string]pattern.Kind{
	"on":      pattern.Rainbow,
	"off":     pattern.FadeToBlack,
	"sparkle": pattern.Confetti,
	"mode 3":  pattern.Sinelon,
	"mode 4":  pattern.Juggle,
	"mode 5":  pattern.BPM,
}

// PatternByte encodes a pattern name or alias.
func PatternByte(name string) (byte, error) {
	n := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if k, ok := aliases[n]; ok {
		return PatternFirst + byte(k), nil
	}
	if k, ok := pattern.Parse(n); ok {
		return PatternFirst + byte(k), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// BrightnessByte encodes a 0..10 brightness level.
func BrightnessByte(level int) (byte, error) {
	if level < 0 || level > len(Presets)-1 {
		return 0, fmt.Errorf("%w: %d", ErrBrightnessLevel, level)
	}
	return BrightnessFirst + byte(level), nil
}

// Encode turns a human command into a byte. It accepts a raw byte
// ("0x06"), a brightness level ("brightness 7", "brightness 70%") or a
// pattern name or alias ("gradient", "mode 4").
func Encode(s string) (byte, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("raw byte %q: %w", s, err)
		}
		return byte(v), nil
	}
	if rest, ok := strings.CutPrefix(s, "brightness"); ok {
		return BrightnessByte(parseLevel(rest))
	}
	return PatternByte(s)
}

// parseLevel reads "7" as level 7 and "70%" as level 7; garbage yields -1.
func parseLevel(s string) int {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil {
		return -1
	}
	if pct {
		if v < 0 || v > 100 {
			return -1
		}
		return (v + 5) / 10
	}
	return v
}
