package sgr

import (
	"strings"

	"github.com/lixenwraith/vi-arcade/terminal"
)

// Transform rewrites the parameter list of one SGR sequence.
// Implementations are provided by NewLight and NewDark.
type Transform interface {
	rewrite(f []field, b *builder)
}

// Rewrite returns text with every SGR sequence passed through t.
// With a nil transform, or no SGR sequence in text, text is returned as is.
func Rewrite(text string, t Transform) string {
	if t == nil || !strings.Contains(text, terminal.CSI) {
		return text
	}

	var sb strings.Builder
	changed := false
	last := 0
	i := 0
	for {
		j := strings.Index(text[i:], terminal.CSI)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(terminal.CSI)
		for end < len(text) && isParamByte(text[end]) {
			end++
		}
		if end >= len(text) || text[end] != 'm' {
			// Other CSI sequence or unterminated: leave for the caller
			i = start + 1
			continue
		}

		seq := text[start : end+1]
		out := rewriteSequence(text[start+len(terminal.CSI):end], seq, t)
		if out != seq {
			if !changed {
				sb.Grow(len(text))
				changed = true
			}
			sb.WriteString(text[last:start])
			sb.WriteString(out)
			last = end + 1
		}
		i = end + 1
	}

	if !changed {
		return text
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// rewriteSequence rewrites one sequence; seq is the full original text
func rewriteSequence(params, seq string, t Transform) string {
	fields, ok := parseParams(params)
	if !ok {
		return seq
	}

	var b builder
	t.rewrite(fields, &b)
	if !b.changed {
		return seq
	}
	// Every parameter dropped: ESC[m would reset all attributes
	if b.n == 0 {
		return ""
	}
	return terminal.CSI + b.sb.String() + "m"
}

func isParamByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == ';' || c == ':'
}

// skipExtended consumes a 38/48/58 group it does not rewrite, so color
// index values inside it are never read as codes of their own
func skipExtended(f []field, i int, b *builder) (int, bool) {
	ec, ok := decodeExtended(f, i)
	if !ok {
		return 0, false
	}
	b.keep(f[i : i+ec.n]...)
	return ec.n, true
}
