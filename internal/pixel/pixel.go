package pixel

// RGB is one 8-bit-per-channel pixel.
type RGB struct{ R, G, B uint8 }

var Black = RGB{}

// FromHex unpacks 0xRRGGBB.
func FromHex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Hex packs the pixel as 0xRRGGBB.
func (c RGB) Hex() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Scale8 returns i scaled by scale/256, with 255 meaning unity.
func Scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}

// Scale16 is the 16-bit counterpart of Scale8.
func Scale16(i, scale uint16) uint16 {
	return uint16((uint32(i) * (1 + uint32(scale))) >> 16)
}

// QAdd8 adds with saturation at 255.
func QAdd8(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// Lerp8 blends a toward b by frac/256.
func Lerp8(a, b, frac uint8) uint8 {
	if b > a {
		return a + Scale8(b-a, frac)
	}
	return a - Scale8(a-b, frac)
}

// Nscale8 scales every channel by scale/256.
func (c RGB) Nscale8(scale uint8) RGB {
	return RGB{Scale8(c.R, scale), Scale8(c.G, scale), Scale8(c.B, scale)}
}

// Add is the saturating per-channel sum.
func (c RGB) Add(o RGB) RGB {
	return RGB{QAdd8(c.R, o.R), QAdd8(c.G, o.G), QAdd8(c.B, o.B)}
}

// Max keeps the brighter value of each channel.
func (c RGB) Max(o RGB) RGB {
	return RGB{max(c.R, o.R), max(c.G, o.G), max(c.B, o.B)}
}

// Lerp blends c toward o by frac/256.
func (c RGB) Lerp(o RGB, frac uint8) RGB {
	return RGB{Lerp8(c.R, o.R, frac), Lerp8(c.G, o.G, frac), Lerp8(c.B, o.B, frac)}
}

// Sum returns R+G+B.
func (c RGB) Sum() int { return int(c.R) + int(c.G) + int(c.B) }

// Fill sets every pixel of buf to c.
func Fill(buf []RGB, c RGB) {
	for i := range buf {
		buf[i] = c
	}
}

// FadeToBlackBy dims every pixel by amount/256 of its current value.
func FadeToBlackBy(buf []RGB, amount uint8) {
	keep := 255 - amount
	for i := range buf {
		buf[i] = buf[i].Nscale8(keep)
	}
}

// Bytes flattens buf into R,G,B triplets.
func Bytes(buf []RGB) []byte {
	out := make([]byte, len(buf)*3)
	for i, c := range buf {
		out[i*3+0], out[i*3+1], out[i*3+2] = c.R, c.G, c.B
	}
	return out
}
