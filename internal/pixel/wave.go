package pixel

import "time"

var sin8Table = [8]uint8{0, 49, 49, 41, 90, 27, 117, 10}

// Sin8 approximates 128+127*sin(theta*2π/256).
func Sin8(theta uint8) uint8 {
	offset := theta
	if theta&0x40 != 0 {
		offset = 255 - offset
	}
	offset &= 0x3F

	secoffset := offset & 0x0F
	if theta&0x40 != 0 {
		secoffset++
	}
	section := offset >> 4
	b := sin8Table[section*2]
	m16 := sin8Table[section*2+1]
	mx := uint8((uint16(m16) * uint16(secoffset)) >> 4)

	y := int8(mx + b)
	if theta&0x80 != 0 {
		y = -y
	}
	return uint8(int16(y) + 128)
}

// Cos8 is Sin8 shifted a quarter turn.
func Cos8(theta uint8) uint8 { return Sin8(theta + 64) }

var (
	sin16Base  = [8]uint16{0, 6393, 12539, 18204, 23170, 27245, 30273, 32137}
	sin16Slope = [8]uint8{49, 48, 44, 38, 31, 23, 14, 4}
)

// Sin16 approximates 32767*sin(theta*2π/65536).
func Sin16(theta uint16) int16 {
	offset := (theta & 0x3FFF) >> 3
	if theta&0x4000 != 0 {
		offset = 2047 - offset
	}
	section := offset / 256
	b := sin16Base[section]
	m := sin16Slope[section]
	secoffset8 := uint8(offset) / 2

	y := int16(uint16(m)*uint16(secoffset8) + b)
	if theta&0x8000 != 0 {
		y = -y
	}
	return y
}

// Beat16 is a sawtooth that wraps bpm times per minute of elapsed time.
func Beat16(bpm uint8, elapsed time.Duration) uint16 {
	ms := uint32(elapsed.Milliseconds())
	bpm88 := uint32(bpm) << 8
	return uint16((ms * bpm88 * 280) >> 16)
}

// Beat8 is the 8-bit Beat16.
func Beat8(bpm uint8, elapsed time.Duration) uint8 {
	return uint8(Beat16(bpm, elapsed) >> 8)
}

// BeatSin8 oscillates between lo and hi at bpm.
func BeatSin8(bpm uint8, lo, hi uint8, elapsed time.Duration) uint8 {
	s := Sin8(Beat8(bpm, elapsed))
	return lo + Scale8(s, hi-lo)
}

// BeatSin16 oscillates between lo and hi at bpm.
func BeatSin16(bpm uint8, lo, hi uint16, elapsed time.Duration) uint16 {
	s := uint16(int32(Sin16(Beat16(bpm, elapsed))) + 32768)
	return lo + Scale16(s, hi-lo)
}

// Clamp8 limits v to [lo, hi].
func Clamp8(v, lo, hi uint8) uint8 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
