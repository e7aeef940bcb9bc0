package terminal

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestLinearize_Endpoints(t *testing.T) {
	if Linearize(0) != 0 {
		t.Errorf("Expected 0 for black channel, got %f", Linearize(0))
	}
	if math.Abs(Linearize(255)-1) > 1e-12 {
		t.Errorf("Expected 1 for full channel, got %f", Linearize(255))
	}
}

// TestLinearize_MatchesColorful cross-checks the piecewise curve with go-colorful
func TestLinearize_MatchesColorful(t *testing.T) {
	for v := 0; v < 256; v++ {
		c := colorful.Color{R: float64(v) / 255, G: float64(v) / 255, B: float64(v) / 255}
		r, _, _ := c.LinearRgb()
		if math.Abs(Linearize(uint8(v))-r) > 1e-9 {
			t.Fatalf("Channel %d: expected %f, got %f", v, r, Linearize(uint8(v)))
		}
	}
}

func TestContrastRatio_Known(t *testing.T) {
	white := RGB{255, 255, 255}
	black := RGB{0, 0, 0}

	if got := ContrastRatio(white, black); math.Abs(got-21) > 1e-9 {
		t.Errorf("Expected 21:1 for white on black, got %f", got)
	}
	if got := ContrastRatio(black, white); math.Abs(got-21) > 1e-9 {
		t.Errorf("Expected ratio to be symmetric, got %f", got)
	}
	if got := ContrastRatio(RGB{120, 30, 200}, RGB{120, 30, 200}); got != 1 {
		t.Errorf("Expected 1:1 for identical colors, got %f", got)
	}
}

func TestEnsureReadableForeground_AlreadyReadable(t *testing.T) {
	bg := RGB{245, 230, 211}
	fg := RGB{20, 20, 20}
	if got := EnsureReadableForeground(fg, bg); got != fg {
		t.Errorf("Expected readable color unchanged, got %v", got)
	}
}

func TestEnsureReadableForeground_Darkens(t *testing.T) {
	bg := RGB{245, 230, 211}
	fg := RGB{255, 255, 0}

	got := EnsureReadableForeground(fg, bg)
	if got == fg {
		t.Fatal("Expected yellow on cream to be adjusted")
	}
	if ContrastRatio(got, bg) < MinContrast {
		t.Errorf("Expected contrast >= %.1f, got %f", MinContrast, ContrastRatio(got, bg))
	}
	// Hue kept: blue stays zero, red and green scaled together
	if got.B != 0 || got.R != got.G {
		t.Errorf("Expected scaled yellow, got %v", got)
	}
}

func TestEnsureReadableForeground_FallbackOnDark(t *testing.T) {
	// Nothing darker than black reaches 4.2 against near-black
	bg := RGB{10, 10, 10}
	if got := EnsureReadableForeground(RGB{30, 30, 30}, bg); got != ReadableFallback {
		t.Errorf("Expected fallback gray, got %v", got)
	}
}

// TestEnsureReadableForeground_Property checks the contrast guarantee over random inputs
func TestEnsureReadableForeground_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randRGB := func() RGB {
		return RGB{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))}
	}

	for i := 0; i < 5000; i++ {
		fg, bg := randRGB(), randRGB()
		got := EnsureReadableForeground(fg, bg)
		if got == ReadableFallback {
			continue
		}
		if ContrastRatio(got, bg) < MinContrast {
			t.Fatalf("fg=%v bg=%v: got %v with contrast %f", fg, bg, got, ContrastRatio(got, bg))
		}
	}
}

func TestScale_Clamps(t *testing.T) {
	c := RGB{200, 100, 50}
	if got := Scale(c, 1.5); got != c {
		t.Errorf("Expected factor >1 to clamp to identity, got %v", got)
	}
	if got := Scale(c, -1); got != RGBBlack {
		t.Errorf("Expected factor <0 to clamp to black, got %v", got)
	}
	if got := Scale(c, 0.5); got != (RGB{100, 50, 25}) {
		t.Errorf("Expected half scale, got %v", got)
	}
}
