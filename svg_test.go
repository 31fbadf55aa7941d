package conrec

import (
	"strings"
	"testing"
)

func TestRenderSVGContainsChromeAndText(t *testing.T) {
	g := NewGridSnapshot(5, 1)
	g.set(0, 0, StyledCell{Glyph: 'h'})
	g.set(0, 1, StyledCell{Glyph: 'i'})

	out := RenderSVG(g, ThemeByName("dracula"))

	if !strings.HasPrefix(out, "<svg") {
		t.Fatal("expected document to start with <svg")
	}
	if !strings.Contains(out, "<circle") {
		t.Error("expected title bar circles")
	}
	if !strings.Contains(out, ">hi<") {
		t.Errorf("expected coalesced 'hi' span, got: %s", out)
	}
}

func TestRenderSVGOmitsBlankDefaultRuns(t *testing.T) {
	g := NewGridSnapshot(5, 1) // all default, blank cells

	out := RenderSVG(g, ThemeByName("dracula"))
	if strings.Contains(out, "<text") {
		t.Errorf("expected no text spans for an all-blank default row, got: %s", out)
	}
}

func TestRenderSVGEscapesSpecialCharacters(t *testing.T) {
	g := NewGridSnapshot(3, 1)
	g.set(0, 0, StyledCell{Glyph: '<'})
	g.set(0, 1, StyledCell{Glyph: '&'})

	out := RenderSVG(g, ThemeByName("dracula"))
	if !strings.Contains(out, "&lt;&amp;") {
		t.Errorf("expected escaped text, got: %s", out)
	}
}

func TestRenderSVGThumbnailUsesExplicitDimensions(t *testing.T) {
	g := NewGridSnapshot(4, 2)
	out := RenderSVGThumbnail(g, ThemeByName("dracula"), 200, 100)

	if !strings.Contains(out, `width="200" height="100"`) {
		t.Errorf("expected explicit output dimensions, got: %s", out)
	}
	if !strings.Contains(out, "viewBox=") {
		t.Error("expected viewBox to preserve native coordinate system")
	}
}

func TestRenderSVGBackgroundRectForNonDefaultBg(t *testing.T) {
	g := NewGridSnapshot(3, 1)
	g.set(0, 0, StyledCell{Glyph: 'x', Bg: Ansi16Color(1)})

	out := RenderSVG(g, ThemeByName("dracula"))
	if !strings.Contains(out, "<rect") || strings.Count(out, "<rect") < 2 {
		t.Errorf("expected a background rect in addition to the chrome rect, got: %s", out)
	}
}
