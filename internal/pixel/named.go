package pixel

// Web colors used by the solid patterns.
var (
	White  = FromHex(0xFFFFFF)
	Green  = FromHex(0x008000)
	Orange = FromHex(0xFFA500)
	Blue   = FromHex(0x0000FF)
	Red    = FromHex(0xFF0000)
	Yellow = FromHex(0xFFFF00)
	Purple = FromHex(0x800080)
)
