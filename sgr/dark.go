package sgr

import "github.com/lixenwraith/vi-arcade/terminal"

// Dark cutoffs: 24-bit backgrounds with a channel sum outside [40, 700]
// are near-black or near-white
const (
	darkNearBlack = 40
	darkNearWhite = 700
)

var darkIndexed = map[int]bool{
	0: true, 16: true, 232: true, 233: true, 234: true, 235: true,
	15: true, 231: true, 253: true, 254: true, 255: true,
}

// Dark flattens near-black and near-white backgrounds onto a dark,
// non-black theme background. Foregrounds and other codes are untouched.
type Dark struct {
	bg terminal.RGB
}

// NewDark returns the dark transform for a background
func NewDark(bg terminal.RGB) *Dark {
	return &Dark{bg: bg}
}

func (d *Dark) rewrite(f []field, b *builder) {
	for i := 0; i < len(f); {
		p := f[i]
		if !p.colon {
			switch p.val {
			case 48:
				ec, ok := decodeExtended(f, i)
				if !ok {
					b.keep(f[i:]...)
					return
				}
				d.background(ec, f[i:i+ec.n], b)
				i += ec.n
				continue
			case 38, 58:
				n, ok := skipExtended(f, i, b)
				if !ok {
					b.keep(f[i:]...)
					return
				}
				i += n
				continue
			}
		}
		b.keep(p)
		i++
	}
}

func (d *Dark) background(ec extColor, raw []field, b *builder) {
	remap := false
	if ec.truecolor {
		sum := ec.rgb.Sum()
		remap = sum < darkNearBlack || sum > darkNearWhite
	} else {
		remap = darkIndexed[ec.index]
	}

	if remap {
		b.emitRGB(48, d.bg)
		return
	}
	b.keep(raw...)
}
