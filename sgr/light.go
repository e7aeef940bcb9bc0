package sgr

import "github.com/lixenwraith/vi-arcade/terminal"

// Light channel-sum cutoff: 24-bit backgrounds below it become the theme
// background, the rest the highlight
const lightBgCutoff = 600

// Substitutes for the legacy black and white foregrounds
var lightFgSubstitutes = map[int]terminal.RGB{
	30: {R: 30, G: 30, B: 30},
	90: {R: 90, G: 90, B: 90},
	37: {R: 70, G: 70, B: 70},
	97: {R: 50, G: 50, B: 50},
}

// Light remaps an embedded program's colors onto a light theme background
type Light struct {
	bg        terminal.RGB
	highlight terminal.RGB
}

// NewLight returns the light transform for a background and its highlight
func NewLight(bg, highlight terminal.RGB) *Light {
	return &Light{bg: bg, highlight: highlight}
}

func (l *Light) rewrite(f []field, b *builder) {
	for i := 0; i < len(f); {
		p := f[i]
		g := groupLen(f, i)

		// Stray sub-parameter
		if p.colon {
			b.keep(p)
			i++
			continue
		}

		switch p.val {
		case 48, 38:
			ec, ok := decodeExtended(f, i)
			if !ok {
				// Trailing fields cannot be interpreted reliably
				b.keep(f[i:]...)
				return
			}
			if p.val == 48 {
				l.background(ec, f[i:i+ec.n], b)
			} else {
				l.foreground(ec, f[i:i+ec.n], b)
			}
			i += ec.n
			continue
		case 58:
			n, ok := skipExtended(f, i, b)
			if !ok {
				b.keep(f[i:]...)
				return
			}
			i += n
			continue
		}

		if g == 1 && l.simple(p.val, b) {
			i++
			continue
		}

		b.keep(f[i : i+g]...)
		i += g
	}
}

// simple handles single-field codes, reporting whether it consumed the field
func (l *Light) simple(code int, b *builder) bool {
	switch code {
	case 2:
		b.drop()
	case 40:
		b.emitRGB(48, l.bg)
	case 47, 100, 107, 7:
		b.emitRGB(48, l.highlight)
	case 27:
		b.emit(49)
	case 30, 90, 37, 97:
		b.emitRGB(38, lightFgSubstitutes[code])
	default:
		return false
	}
	return true
}

func (l *Light) background(ec extColor, raw []field, b *builder) {
	if ec.truecolor {
		if ec.rgb.Sum() < lightBgCutoff {
			b.emitRGB(48, l.bg)
		} else {
			b.emitRGB(48, l.highlight)
		}
		return
	}

	switch idx := ec.index; {
	case idx == 7 || idx == 8 || idx == 15 || idx >= 247:
		b.emitRGB(48, l.highlight)
	case idx == 0 || idx == 16 || (idx >= 232 && idx <= 246):
		b.emitRGB(48, l.bg)
	default:
		b.keep(raw...)
	}
}

func (l *Light) foreground(ec extColor, raw []field, b *builder) {
	c := ec.color()
	adjusted := terminal.EnsureReadableForeground(c, l.bg)
	if adjusted == c {
		b.keep(raw...)
		return
	}
	b.emitRGB(38, adjusted)
}
