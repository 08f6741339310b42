package pixel

import (
	"errors"
	"strings"
)

var ErrUnknownOrder = errors.New("unknown color order")

// Order describes how a strip expects the three channels on the wire.
// Each field is the bit offset of that channel in a packed 24-bit word,
// most significant byte first.
type Order struct {
	name    string
	r, g, b uint8
}

var (
	OrderRGB = Order{"RGB", 16, 8, 0}
	OrderRBG = Order{"RBG", 16, 0, 8}
	OrderGRB = Order{"GRB", 8, 16, 0}
	OrderGBR = Order{"GBR", 0, 16, 8}
	OrderBRG = Order{"BRG", 8, 0, 16}
	OrderBGR = Order{"BGR", 0, 8, 16}
)

var orders = []Order{OrderRGB, OrderRBG, OrderGRB, OrderGBR, OrderBRG, OrderBGR}

// ParseOrder accepts names like "GRB", case-insensitively.
func ParseOrder(s string) (Order, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, o := range orders {
		if o.name == up {
			return o, nil
		}
	}
	return Order{}, ErrUnknownOrder
}

func (o Order) String() string { return o.name }

// Pack places each channel at its offset.
func (o Order) Pack(c RGB) uint32 {
	return uint32(c.R)<<o.r | uint32(c.G)<<o.g | uint32(c.B)<<o.b
}

// Wire returns the three bytes in transmission order.
func (o Order) Wire(c RGB) [3]byte {
	v := o.Pack(c)
	return [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}
