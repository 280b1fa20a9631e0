package lcxl

// Color is the LED velocity byte: red in bits 0-1, green in bits 4-5.
// Bits 2-3 (copy and clear) are always set so both LED buffers update.
type Color byte

const flagsCopyClear = 0x0c

const (
	Off        Color = 12
	RedLow     Color = 13
	RedFull    Color = 15
	GreenLow   Color = 28
	GreenFull  Color = 60
	AmberLow   Color = 29
	AmberFull  Color = 63
	YellowLow  Color = 30
	YellowFull Color = 62
)

// Level builds a color from red and green intensities 0-3.
func Level(red, green int) Color {
	return Color(byte(red&3) | byte(green&3)<<4 | flagsCopyClear)
}

func (c Color) Red() int {
	return int(c & 0x3)
}

func (c Color) Green() int {
	return int(c>>4) & 0x3
}

func (c Color) String() string {
	switch c {
	case Off:
		return "off"
	case RedLow:
		return "red-low"
	case RedFull:
		return "red"
	case GreenLow:
		return "green-low"
	case GreenFull:
		return "green"
	case AmberLow:
		return "amber-low"
	case AmberFull:
		return "amber"
	case YellowLow:
		return "yellow-low"
	case YellowFull:
		return "yellow"
	}
	return "custom"
}
