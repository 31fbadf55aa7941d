package conrec

import (
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestLoadFontFromBytesRejectsGarbage(t *testing.T) {
	if _, err := LoadFontFromBytes([]byte("not a font"), 12); err == nil {
		t.Error("expected an error parsing non-font bytes")
	}
}

func TestRenderFrameWithFontProducesChromeAndBackground(t *testing.T) {
	g := NewGridSnapshot(3, 2)
	g.set(0, 0, StyledCell{Glyph: 'x'})

	f := RenderFrameWithFont(g, ThemeByName("dracula"), basicfont.Face7x13)

	if f.Width <= 0 || f.Height <= 0 {
		t.Fatalf("unexpected frame dimensions %dx%d", f.Width, f.Height)
	}
	if len(f.Pix) != f.Width*f.Height*3 {
		t.Fatalf("expected packed RGB buffer, got %d bytes for %dx%d", len(f.Pix), f.Width, f.Height)
	}

	// the title bar strip at the very top should be the chrome gray, not
	// the theme background.
	i := (0*f.Width + 0) * 3
	if f.Pix[i] != 60 || f.Pix[i+1] != 60 || f.Pix[i+2] != 60 {
		t.Errorf("expected title bar chrome color at origin, got (%d,%d,%d)", f.Pix[i], f.Pix[i+1], f.Pix[i+2])
	}
}
