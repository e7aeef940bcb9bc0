package terminal

import "math"

const (
	// MinContrast is the readability threshold for rewritten foregrounds
	MinContrast = 4.2

	// readableSteps is how many darkening steps are tried before giving up
	readableSteps = 20
)

// ReadableFallback is returned when no darkened candidate reaches MinContrast
var ReadableFallback = RGB{0x33, 0x33, 0x33}

// Linearize maps one 0-255 sRGB channel to linear light (0-1)
func Linearize(v uint8) float64 {
	c := float64(v) / 255
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Luminance returns the WCAG relative luminance of c
func Luminance(c RGB) float64 {
	return 0.2126*Linearize(c.R) + 0.7152*Linearize(c.G) + 0.0722*Linearize(c.B)
}

// ContrastRatio returns (lighter+0.05)/(darker+0.05), in [1, 21]
func ContrastRatio(a, b RGB) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Scale multiplies every channel by f (0-1), moving the color toward black
func Scale(c RGB, f float64) RGB {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	ch := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) * f))
	}
	return RGB{ch(c.R), ch(c.G), ch(c.B)}
}

// EnsureReadableForeground returns fg unchanged if it already meets
// MinContrast against bg. Otherwise fg is darkened in readableSteps equal
// steps toward black and the first passing candidate is returned, or
// ReadableFallback if none passes.
func EnsureReadableForeground(fg, bg RGB) RGB {
	if ContrastRatio(fg, bg) >= MinContrast {
		return fg
	}
	for step := 1; step <= readableSteps; step++ {
		candidate := Scale(fg, 1-float64(step)/readableSteps)
		if ContrastRatio(candidate, bg) >= MinContrast {
			return candidate
		}
	}
	return ReadableFallback
}
