package conrec

import "testing"

func TestEmulatorWritesPlainText(t *testing.T) {
	e := NewEmulator(10, 2)
	e.Write([]byte("hi"))

	g := e.Snapshot()
	if g.At(0, 0).Glyph != 'h' || g.At(0, 1).Glyph != 'i' {
		t.Fatalf("unexpected grid content")
	}
	if g.CursorX != 2 || g.CursorY != 0 {
		t.Errorf("expected cursor at (2,0), got (%d,%d)", g.CursorX, g.CursorY)
	}
}

func TestEmulatorCarriageReturnLineFeed(t *testing.T) {
	e := NewEmulator(5, 3)
	e.Write([]byte("ab\r\ncd"))

	g := e.Snapshot()
	if g.At(0, 0).Glyph != 'a' || g.At(0, 1).Glyph != 'b' {
		t.Fatal("expected first row unchanged")
	}
	if g.At(1, 0).Glyph != 'c' || g.At(1, 1).Glyph != 'd' {
		t.Fatal("expected second row written after CRLF")
	}
}

func TestEmulatorBackspace(t *testing.T) {
	e := NewEmulator(5, 1)
	e.Write([]byte("ab\bc"))

	g := e.Snapshot()
	if g.At(0, 1).Glyph != 'c' {
		t.Errorf("expected backspace overwrite, got %q", g.At(0, 1).Glyph)
	}
}

func TestEmulatorHorizontalTab(t *testing.T) {
	e := NewEmulator(20, 1)
	e.Write([]byte("a\tb"))

	g := e.Snapshot()
	if g.At(0, 0).Glyph != 'a' {
		t.Fatal("expected a at column 0")
	}
	if g.At(0, 8).Glyph != 'b' {
		t.Errorf("expected b at column 8 after tab, got %q at %d", g.At(0, 8).Glyph, 8)
	}
}

func TestEmulatorWrapsAtRightEdge(t *testing.T) {
	e := NewEmulator(2, 2)
	e.Write([]byte("abc"))

	g := e.Snapshot()
	if g.At(1, 0).Glyph != 'c' {
		t.Errorf("expected wrap to next row, got %q", g.At(1, 0).Glyph)
	}
}

func TestEmulatorScrollsWhenPastLastRow(t *testing.T) {
	e := NewEmulator(5, 2)
	e.Write([]byte("one\r\ntwo\r\nthree"))

	g := e.Snapshot()
	if g.At(1, 0).Glyph != 't' {
		t.Errorf("expected row 1 to hold the last written row, got %q", g.At(1, 0).Glyph)
	}
}

func TestEmulatorSGRColorsAndAttributes(t *testing.T) {
	e := NewEmulator(5, 1)
	e.Write([]byte("\x1b[1;31mx\x1b[0my"))

	g := e.Snapshot()
	first := g.At(0, 0)
	if !first.Bold {
		t.Error("expected bold attribute")
	}
	if first.Fg != Ansi16Color(1) {
		t.Errorf("expected red fg, got %+v", first.Fg)
	}
	second := g.At(0, 1)
	if second.Bold || !second.Fg.IsDefault() {
		t.Error("expected SGR reset to clear attributes")
	}
}

func TestEmulatorSGRTrueColor(t *testing.T) {
	e := NewEmulator(5, 1)
	e.Write([]byte("\x1b[38;2;10;20;30mx"))

	c := e.Snapshot().At(0, 0)
	if c.Fg != RGBColor(10, 20, 30) {
		t.Errorf("expected true color fg, got %+v", c.Fg)
	}
}

func TestEmulatorSGRPalette256(t *testing.T) {
	e := NewEmulator(5, 1)
	e.Write([]byte("\x1b[48;5;200mx"))

	c := e.Snapshot().At(0, 0)
	if c.Bg != Palette256Color(200) {
		t.Errorf("expected palette bg, got %+v", c.Bg)
	}
}

func TestEmulatorCursorPositioning(t *testing.T) {
	e := NewEmulator(10, 10)
	e.Write([]byte("\x1b[3;4Hx"))

	g := e.Snapshot()
	if g.At(2, 3).Glyph != 'x' {
		t.Errorf("expected write at row 2 col 3, got %+v", g.Cells)
	}
}

func TestEmulatorEraseInLine(t *testing.T) {
	e := NewEmulator(5, 1)
	e.Write([]byte("abcde\x1b[3G\x1b[K"))

	g := e.Snapshot()
	if g.At(0, 0).Glyph != 'a' || g.At(0, 1).Glyph != 'b' {
		t.Fatal("expected prefix preserved")
	}
	if g.At(0, 2).Glyph != ' ' {
		t.Errorf("expected erase-to-end-of-line from column 2, got %q", g.At(0, 2).Glyph)
	}
}

func TestEmulatorIgnoresPrivateModeSequences(t *testing.T) {
	e := NewEmulator(10, 1)
	// cursor-visibility toggle and bracketed-paste mode, both common on
	// interactive shell startup; neither should leak trailing digits as text.
	e.Write([]byte("\x1b[?25l\x1b[?2004hx"))

	g := e.Snapshot()
	if g.At(0, 0).Glyph != 'x' {
		t.Fatalf("expected private-mode sequences fully consumed, got %q at column 0", g.At(0, 0).Glyph)
	}
	if g.CursorX != 1 {
		t.Errorf("expected cursor to advance only for the literal 'x', got column %d", g.CursorX)
	}
}

func TestEmulatorResizePreservesTopLeftAndClampsCursor(t *testing.T) {
	e := NewEmulator(5, 2)
	e.Write([]byte("ab\r\ncd"))
	e.Write([]byte("\x1b[1;5H")) // move cursor to the last column of row 0

	e.Resize(3, 2)

	g := e.Snapshot()
	if g.Width != 3 || g.Height != 2 {
		t.Fatalf("expected resized dimensions 3x2, got %dx%d", g.Width, g.Height)
	}
	if g.At(0, 0).Glyph != 'a' || g.At(1, 0).Glyph != 'c' {
		t.Fatalf("expected top-left content preserved across resize")
	}
	if g.CursorX >= 3 {
		t.Errorf("expected cursor clamped into the narrower width, got column %d", g.CursorX)
	}
}

func TestEmulatorDeterministicAcrossChunkBoundaries(t *testing.T) {
	whole := NewEmulator(10, 2)
	whole.Write([]byte("\x1b[1;31mhello\r\nworld\x1b[0m"))

	chunks := NewEmulator(10, 2)
	input := []byte("\x1b[1;31mhello\r\nworld\x1b[0m")
	for _, b := range input {
		chunks.Write([]byte{b})
	}

	a, b := whole.Snapshot(), chunks.Snapshot()
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Fatalf("cell %d differs: %+v vs %+v", i, a.Cells[i], b.Cells[i])
		}
	}
}
