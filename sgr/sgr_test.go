package sgr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lixenwraith/vi-arcade/terminal"
)

var (
	sand          = terminal.RGB{R: 245, G: 230, B: 211}
	sandHighlight = sand.Darken(20)
	nord          = terminal.RGB{R: 46, G: 52, B: 64}
)

func bgSeq(c terminal.RGB) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

func fgSeq(c terminal.RGB) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

func TestRewrite_NoSGRIdentity(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	inputs := []string{
		"",
		"plain text",
		"\x1b[2J\x1b[H\x1b[?25l\x1b[10;5Hscore: 42",
		"\x1b]0;title\x07 unicode ✓",
	}
	for _, in := range inputs {
		if got := Rewrite(in, light); got != in {
			t.Errorf("Expected %q unchanged, got %q", in, got)
		}
	}
	if got := Rewrite("\x1b[48;2;0;0;0m", nil); got != "\x1b[48;2;0;0;0m" {
		t.Errorf("Expected nil transform to pass through, got %q", got)
	}
}

// TestRewrite_UnmatchedVerbatim checks untouched sequences keep their exact bytes
func TestRewrite_UnmatchedVerbatim(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	for _, in := range []string{"\x1b[1m", "\x1b[01;04m", "\x1b[m", "\x1b[0m", "\x1b[4:3m", "\x1b[;1m"} {
		text := "a" + in + "b"
		if got := Rewrite(text, light); got != text {
			t.Errorf("Expected %q verbatim, got %q", text, got)
		}
	}
}

func TestRewrite_Scenario(t *testing.T) {
	got := Rewrite("\x1b[48;2;0;0;0mX\x1b[0m", NewLight(sand, sandHighlight))
	want := "\x1b[48;2;245;230;211mX\x1b[0m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestLight_TruecolorBackgroundBoundary(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sum 599 is dark", "\x1b[48;2;200;200;199m", bgSeq(sand)},
		{"sum 600 is light", "\x1b[48;2;200;200;200m", bgSeq(sandHighlight)},
		{"white", "\x1b[48;2;255;255;255m", bgSeq(sandHighlight)},
		{"colon with colorspace", "\x1b[48:2:0:10:10:10m", bgSeq(sand)},
		{"colon empty colorspace", "\x1b[48:2::250:250:250m", bgSeq(sandHighlight)},
		{"colon without colorspace", "\x1b[48:2:10:10:10m", bgSeq(sand)},
		{"semicolon colorspace sum 600", "\x1b[48;2;0;200;200;200m", bgSeq(sandHighlight)},
		{"semicolon colorspace sum 599", "\x1b[48;2;0;200;200;199m", bgSeq(sand)},
		{"semicolon colorspace white", "\x1b[48;2;0;255;255;255m", bgSeq(sandHighlight)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Rewrite(tc.in, light); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLight_IndexedBackground(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	for _, idx := range []int{7, 8, 15, 247, 250, 255} {
		in := fmt.Sprintf("\x1b[48;5;%dm", idx)
		if got := Rewrite(in, light); got != bgSeq(sandHighlight) {
			t.Errorf("Index %d: expected highlight, got %q", idx, got)
		}
	}
	for _, idx := range []int{0, 16, 232, 240, 246} {
		in := fmt.Sprintf("\x1b[48;5;%dm", idx)
		if got := Rewrite(in, light); got != bgSeq(sand) {
			t.Errorf("Index %d: expected theme background, got %q", idx, got)
		}
	}
	for _, idx := range []int{1, 21, 196, 231} {
		in := fmt.Sprintf("\x1b[48;5;%dm", idx)
		if got := Rewrite(in, light); got != in {
			t.Errorf("Index %d: expected unchanged, got %q", idx, got)
		}
	}
}

func TestLight_Foreground(t *testing.T) {
	light := NewLight(sand, sandHighlight)

	readable := "\x1b[38;2;20;20;20m"
	if got := Rewrite(readable, light); got != readable {
		t.Errorf("Expected readable foreground unchanged, got %q", got)
	}

	yellow := terminal.RGB{R: 255, G: 255, B: 0}
	want := fgSeq(terminal.EnsureReadableForeground(yellow, sand))
	if got := Rewrite("\x1b[38;2;255;255;0m", light); got != want {
		t.Errorf("Expected adjusted truecolor %q, got %q", want, got)
	}

	// Colorspace id consumed with the channels
	if got := Rewrite("\x1b[38;2;0;255;255;0m", light); got != want {
		t.Errorf("Expected adjusted colorspace truecolor %q, got %q", want, got)
	}
	if got := Rewrite("\x1b[38;2;0;20;20;20m", light); got != "\x1b[38;2;0;20;20;20m" {
		t.Errorf("Expected readable colorspace foreground unchanged, got %q", got)
	}

	// Indexed colors are re-emitted as 24-bit
	idx := terminal.Palette256(11)
	want = fgSeq(terminal.EnsureReadableForeground(idx, sand))
	if got := Rewrite("\x1b[38;5;11m", light); got != want {
		t.Errorf("Expected adjusted indexed %q, got %q", want, got)
	}
}

func TestLight_Faint(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	if got := Rewrite("\x1b[1;2m", light); got != "\x1b[1m" {
		t.Errorf("Expected faint dropped, got %q", got)
	}
	// Emptied sequence is removed, never emitted as a reset
	if got := Rewrite("A\x1b[2mB", light); got != "AB" {
		t.Errorf("Expected emptied sequence removed, got %q", got)
	}
}

func TestLight_LegacyCodes(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	tests := []struct {
		in   string
		want string
	}{
		{"\x1b[40m", bgSeq(sand)},
		{"\x1b[47m", bgSeq(sandHighlight)},
		{"\x1b[100m", bgSeq(sandHighlight)},
		{"\x1b[107m", bgSeq(sandHighlight)},
		{"\x1b[30m", "\x1b[38;2;30;30;30m"},
		{"\x1b[90m", "\x1b[38;2;90;90;90m"},
		{"\x1b[37m", "\x1b[38;2;70;70;70m"},
		{"\x1b[97m", "\x1b[38;2;50;50;50m"},
		{"\x1b[7m", bgSeq(sandHighlight)},
		{"\x1b[27m", "\x1b[49m"},
		{"\x1b[31m", "\x1b[31m"},
	}
	for _, tc := range tests {
		if got := Rewrite(tc.in, light); got != tc.want {
			t.Errorf("Rewrite(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

// TestLight_MixedPositions verifies unmatched codes keep their position
func TestLight_MixedPositions(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	got := Rewrite("\x1b[1;48;5;0;4m", light)
	want := "\x1b[1;48;2;245;230;211;4m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestLight_ExtendedValuesNotCodes ensures an index inside 38/58 is not read as a code
func TestLight_ExtendedValuesNotCodes(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	for _, in := range []string{"\x1b[58;5;40m", "\x1b[58;2;0;0;2m", "\x1b[38;2;0;0;2m"} {
		if got := Rewrite(in, light); got != in {
			t.Errorf("Expected %q unchanged, got %q", in, got)
		}
	}
}

func TestRewrite_Malformed(t *testing.T) {
	light := NewLight(sand, sandHighlight)
	inputs := []string{
		"\x1b[99999999999999999999999m",
		"\x1b[48;2;300;0;0m",
		"\x1b[48;5;999m",
		"\x1b[48;5m",
		"\x1b[38m",
		"\x1b[48;2;0;0;0", // unterminated
	}
	for _, in := range inputs {
		if got := Rewrite(in, light); got != in {
			t.Errorf("Expected malformed %q unchanged, got %q", in, got)
		}
	}
}

func TestDark_Backgrounds(t *testing.T) {
	dark := NewDark(nord)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sum 39 near black", "\x1b[48;2;13;13;13m", bgSeq(nord)},
		{"sum 40 kept", "\x1b[48;2;20;10;10m", "\x1b[48;2;20;10;10m"},
		{"sum 700 kept", "\x1b[48;2;234;233;233m", "\x1b[48;2;234;233;233m"},
		{"sum 701 near white", "\x1b[48;2;234;234;233m", bgSeq(nord)},
		{"mid gray kept", "\x1b[48;2;100;100;100m", "\x1b[48;2;100;100;100m"},
		{"indexed near black", "\x1b[48;5;234m", bgSeq(nord)},
		{"indexed white", "\x1b[48;5;15m", bgSeq(nord)},
		{"indexed other", "\x1b[48;5;100m", "\x1b[48;5;100m"},
		{"foreground untouched", "\x1b[2;38;5;0m", "\x1b[2;38;5;0m"},
		{"legacy untouched", "\x1b[40;7m", "\x1b[40;7m"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Rewrite(tc.in, dark); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStream_SplitSequence(t *testing.T) {
	s := NewStream(NewLight(sand, sandHighlight))

	out := s.Rewrite("X\x1b[48;2;0;")
	if out != "X" {
		t.Fatalf("Expected partial sequence held back, got %q", out)
	}
	if s.Pending() == 0 {
		t.Fatal("Expected held bytes")
	}

	out = s.Rewrite("0;0mY")
	if want := bgSeq(sand) + "Y"; out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}
	if s.Pending() != 0 {
		t.Errorf("Expected nothing held, got %d bytes", s.Pending())
	}
}

func TestStream_NonSGRTailPassesThrough(t *testing.T) {
	s := NewStream(NewLight(sand, sandHighlight))
	for _, in := range []string{"\x1b]0;title", "\x1b[?25", "abc\x1bO"} {
		if got := s.Rewrite(in); got != in {
			t.Errorf("Expected %q written immediately, got %q", in, got)
		}
	}
}

func TestStream_LoneEscapeAndFlush(t *testing.T) {
	s := NewStream(NewDark(nord))
	if got := s.Rewrite("A\x1b"); got != "A" {
		t.Fatalf("Expected trailing ESC held, got %q", got)
	}
	if got := s.Flush(); got != "\x1b" {
		t.Errorf("Expected flush to return held ESC, got %q", got)
	}
	if s.Pending() != 0 {
		t.Error("Expected flush to clear held bytes")
	}
}

func TestStream_CarryBounded(t *testing.T) {
	s := NewStream(NewLight(sand, sandHighlight))
	long := "\x1b[" + strings.Repeat("1;", maxCarry)
	if got := s.Rewrite(long); got != long {
		t.Errorf("Expected oversize tail written through, got %d bytes", len(got))
	}
}
