package pixel

// Palette16 is a 16-entry gradient palette sampled with linear blending.
type Palette16 [16]RGB

// PartyColors is a fully saturated purple/red/orange/yellow rainbow with no greens.
var PartyColors = Palette16{
	FromHex(0x5500AB), FromHex(0x84007C), FromHex(0xB5004B), FromHex(0xE5001B),
	FromHex(0xE81700), FromHex(0xB84700), FromHex(0xAB7700), FromHex(0xABAB00),
	FromHex(0xAB5500), FromHex(0xDD2200), FromHex(0xF2000E), FromHex(0xC2003E),
	FromHex(0x8F0071), FromHex(0x5F00A1), FromHex(0x2F00D0), FromHex(0x0007F9),
}

// At samples the palette at index, blending between neighbouring entries
// and wrapping from the last entry back to the first, then scales by brightness.
func (p *Palette16) At(index, brightness uint8) RGB {
	hi4 := index >> 4
	lo4 := index & 0x0F
	c := p[hi4]
	if lo4 != 0 {
		next := p[(hi4+1)&0x0F]
		f2 := lo4 << 4
		f1 := 255 - f2
		c = RGB{
			R: Scale8(c.R, f1) + Scale8(next.R, f2),
			G: Scale8(c.G, f1) + Scale8(next.G, f2),
			B: Scale8(c.B, f1) + Scale8(next.B, f2),
		}
	}
	switch brightness {
	case 255:
		return c
	case 0:
		return Black
	}
	return c.Nscale8(brightness + 1)
}
