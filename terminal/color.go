package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// Equal returns true if colors match
func (c RGB) Equal(other RGB) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Sum returns the plain channel sum, used by the empirically tuned background thresholds
func (c RGB) Sum() int {
	return int(c.R) + int(c.G) + int(c.B)
}

// Hex formats the color as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Darken subtracts delta from every channel, clamping at 0
func (c RGB) Darken(delta uint8) RGB {
	sub := func(v uint8) uint8 {
		if v < delta {
			return 0
		}
		return v - delta
	}
	return RGB{sub(c.R), sub(c.G), sub(c.B)}
}

// Color cube values for 6x6x6 palette (indices 16-231)
// Levels: 0, 95, 135, 175, 215, 255
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// grayscaleStart is the first grayscale index (232-255 = 24 shades)
const grayscaleStart = 232

// ansi16 holds the fixed 0-15 entries, taken from tcell's palette so the
// palette a game sees through tcell and the one used here agree
var ansi16 [16]RGB

func init() {
	for i := range ansi16 {
		r, g, b := tcell.PaletteColor(i).RGB()
		ansi16[i] = RGB{uint8(r), uint8(g), uint8(b)}
	}
}

// Palette256 converts an xterm 256-color index to RGB
// 0-15: fixed table, 16-231: 6x6x6 cube, 232-255: 24-step gray ramp (8 + 10*n)
func Palette256(index uint8) RGB {
	switch {
	case index < 16:
		return ansi16[index]
	case index < grayscaleStart:
		n := index - 16
		return RGB{cubeValues[n/36], cubeValues[(n%36)/6], cubeValues[n%6]}
	default:
		level := 8 + 10*(index-grayscaleStart)
		return RGB{level, level, level}
	}
}
