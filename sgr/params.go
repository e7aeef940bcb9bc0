package sgr

import (
	"strconv"
	"strings"

	"github.com/lixenwraith/vi-arcade/terminal"
)

// field is one decoded SGR parameter
type field struct {
	val   int
	text  string // original digits, "" for an empty field
	colon bool   // joined to the previous field by ':' (sub-parameter)
}

// parseParams splits on ';' and ':' with empty fields as 0.
// ok is false if a field is not a number; callers then leave the sequence alone.
func parseParams(s string) (fields []field, ok bool) {
	fields = make([]field, 0, 8)
	start := 0
	colon := false
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ';' && s[i] != ':' {
			continue
		}
		txt := s[start:i]
		v := 0
		if txt != "" {
			n, err := strconv.Atoi(txt)
			if err != nil {
				return nil, false
			}
			v = n
		}
		fields = append(fields, field{val: v, text: txt, colon: colon})
		if i < len(s) {
			colon = s[i] == ':'
		}
		start = i + 1
	}
	return fields, true
}

// groupLen counts field i plus the colon-joined sub-parameters that follow it
func groupLen(f []field, i int) int {
	n := 1
	for i+n < len(f) && f[i+n].colon {
		n++
	}
	return n
}

// extColor is a decoded 38/48/58 extended color
type extColor struct {
	rgb       terminal.RGB
	index     int
	truecolor bool
	n         int // fields consumed, including the introducer
}

// decodeExtended reads the color that follows an introducer at f[i].
// Accepted forms: I;5;N  I;2;R;G;B  I;2;0;R;G;B  I:5:N  I:2:R:G:B  I:2:CS:R:G:B
func decodeExtended(f []field, i int) (extColor, bool) {
	var ec extColor

	if i+1 < len(f) && f[i+1].colon {
		g := groupLen(f, i)
		sub := f[i+1 : i+g]
		ec.n = g
		switch {
		case sub[0].val == 5 && len(sub) >= 2:
			ec.index = sub[1].val
		case sub[0].val == 2 && len(sub) >= 5:
			// sub[1] is the colorspace id
			return rgbFrom(ec, sub[2], sub[3], sub[4])
		case sub[0].val == 2 && len(sub) == 4:
			return rgbFrom(ec, sub[1], sub[2], sub[3])
		default:
			return ec, false
		}
		return ec, ec.index <= 255
	}

	switch {
	case i+2 < len(f) && f[i+1].val == 5:
		ec.index = f[i+2].val
		ec.n = 3
		return ec, ec.index <= 255
	case i+5 < len(f) && f[i+1].val == 2 && f[i+2].val == 0:
		// Colorspace id 0 ahead of the channels
		ec.n = 6
		return rgbFrom(ec, f[i+3], f[i+4], f[i+5])
	case i+4 < len(f) && f[i+1].val == 2:
		ec.n = 5
		return rgbFrom(ec, f[i+2], f[i+3], f[i+4])
	}
	return ec, false
}

func rgbFrom(ec extColor, r, g, b field) (extColor, bool) {
	if r.val > 255 || g.val > 255 || b.val > 255 {
		return ec, false
	}
	ec.truecolor = true
	ec.rgb = terminal.RGB{R: uint8(r.val), G: uint8(g.val), B: uint8(b.val)}
	return ec, true
}

// color resolves the extended color to RGB through the 256-color palette if needed
func (ec extColor) color() terminal.RGB {
	if ec.truecolor {
		return ec.rgb
	}
	return terminal.Palette256(uint8(ec.index))
}

// builder reassembles a parameter list, tracking whether anything changed
type builder struct {
	sb      strings.Builder
	n       int
	changed bool
}

// keep re-emits fields with their original text and separators
func (b *builder) keep(fields ...field) {
	for _, f := range fields {
		if b.n > 0 {
			if f.colon {
				b.sb.WriteByte(':')
			} else {
				b.sb.WriteByte(';')
			}
		}
		b.sb.WriteString(f.text)
		b.n++
	}
}

// emit writes replacement codes, ';'-separated
func (b *builder) emit(vals ...int) {
	var buf [8]byte
	for _, v := range vals {
		if b.n > 0 {
			b.sb.WriteByte(';')
		}
		b.sb.Write(strconv.AppendInt(buf[:0], int64(v), 10))
		b.n++
	}
	b.changed = true
}

// emitRGB writes introducer;2;R;G;B
func (b *builder) emitRGB(introducer int, c terminal.RGB) {
	b.emit(introducer, 2, int(c.R), int(c.G), int(c.B))
}

// drop removes the current field from the output
func (b *builder) drop() {
	b.changed = true
}
