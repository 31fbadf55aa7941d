package conrec

import (
	"bytes"
	"testing"
)

func TestRenderFrameDimensions(t *testing.T) {
	g := NewGridSnapshot(4, 2)
	f := RenderFrame(g, ThemeByName("asciinema"))

	wantW := 4 * glyphWidth
	wantH := 2*glyphHeight + titleBarHeight
	if f.Width != wantW || f.Height != wantH {
		t.Fatalf("got %dx%d, want %dx%d", f.Width, f.Height, wantW, wantH)
	}
	if len(f.Pix) != wantW*wantH*3 {
		t.Fatalf("unexpected pixel buffer length %d", len(f.Pix))
	}
}

func TestEncodePPMHeader(t *testing.T) {
	g := NewGridSnapshot(2, 1)
	f := RenderFrame(g, ThemeByName("asciinema"))
	out := EncodePPM(f)

	wantHeader := []byte("P6\n16 40\n255\n")
	if !bytes.HasPrefix(out, wantHeader) {
		t.Fatalf("unexpected PPM header: %q", out[:min(len(out), 20)])
	}
	if len(out) != len(wantHeader)+len(f.Pix) {
		t.Errorf("unexpected PPM length %d", len(out))
	}
}
