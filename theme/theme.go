// @focus: #theme { background, kind }
package theme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/vi-arcade/terminal"
)

// HighlightDelta is subtracted from each background channel to derive the
// panel surface color
const HighlightDelta = 20

// lightThreshold is the relative luminance above which a background is light
const lightThreshold = 0.179

// Kind selects which remap the session applies to embedded output
type Kind uint8

const (
	KindNone  Kind = iota // black background: embedded colors already fit
	KindDark              // non-black dark background
	KindLight             // light background
)

func (k Kind) String() string {
	switch k {
	case KindDark:
		return "dark"
	case KindLight:
		return "light"
	default:
		return "none"
	}
}

// Background is a theme background with its derived highlight
type Background struct {
	Background terminal.RGB
	Highlight  terminal.RGB
}

// NewBackground derives the highlight for bg
func NewBackground(bg terminal.RGB) Background {
	return Background{Background: bg, Highlight: bg.Darken(HighlightDelta)}
}

// Theme is a named host background
type Theme struct {
	Name string
	Background
}

// New builds a theme from a background color
func New(name string, bg terminal.RGB) Theme {
	return Theme{Name: name, Background: NewBackground(bg)}
}

// Kind classifies the background by relative luminance
func (t Theme) Kind() Kind {
	if t.Background.Background == terminal.RGBBlack {
		return KindNone
	}
	if terminal.Luminance(t.Background.Background) > lightThreshold {
		return KindLight
	}
	return KindDark
}

// ParseHex parses a #RRGGBB color
func ParseHex(s string) (terminal.RGB, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return terminal.RGB{}, fmt.Errorf("theme: invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return terminal.RGB{R: r, G: g, B: b}, nil
}

// DefaultName is the theme used when none is configured
const DefaultName = "default"

var builtins = map[string]terminal.RGB{
	DefaultName: terminal.RGBBlack,
	"sand":      {R: 0xF5, G: 0xE6, B: 0xD3},
	"paper":     {R: 0xFA, G: 0xFA, B: 0xF7},
	"nord":      {R: 0x2E, G: 0x34, B: 0x40},
	"midnight":  {R: 0x1A, G: 0x1B, B: 0x26},
}

// Builtin returns a built-in theme by name
func Builtin(name string) (Theme, bool) {
	bg, ok := builtins[strings.ToLower(name)]
	if !ok {
		return Theme{}, false
	}
	return New(strings.ToLower(name), bg), true
}

// BuiltinNames lists built-in theme names in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
