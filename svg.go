package conrec

import (
	"fmt"
	"strings"
)

// RenderSVG renders g as a single SVG document: a window-chrome
// container (rounded rect, title bar with three colored circles) around
// a grid of coalesced, styled text spans.
func RenderSVG(g *GridSnapshot, theme Theme) string {
	width := g.Width * glyphWidth
	height := g.Height*glyphHeight + titleBarHeight
	return renderSVGSized(g, theme, width, height, width, height)
}

// RenderSVGThumbnail renders g scaled to an explicit pixel size, via the
// SVG viewBox mechanism: the document's native coordinate system is
// unchanged, only its rendered width/height attributes differ.
func RenderSVGThumbnail(g *GridSnapshot, theme Theme, pixelWidth, pixelHeight int) string {
	nativeW := g.Width * glyphWidth
	nativeH := g.Height*glyphHeight + titleBarHeight
	return renderSVGSized(g, theme, nativeW, nativeH, pixelWidth, pixelHeight)
}

func renderSVGSized(g *GridSnapshot, theme Theme, nativeW, nativeH, outW, outH int) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="%d">`,
		outW, outH, nativeW, nativeH, glyphHeight-4)
	b.WriteString("\n")

	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" rx="8" fill="%s"/>`+"\n",
		nativeW, nativeH, cssColor(theme.Background))

	writeTitleBar(&b, nativeW)

	for row := 0; row < g.Height; row++ {
		writeRowSpans(&b, g, row, theme)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func writeTitleBar(b *strings.Builder, width int) {
	fmt.Fprintf(b, `<rect x="0" y="0" width="%d" height="%d" fill="#3c3c3c"/>`+"\n", width, titleBarHeight)
	circleColors := [3]string{"#ff5f56", "#ffbd2c", "#27c93f"}
	for i, c := range circleColors {
		cx := 14 + i*20
		cy := titleBarHeight / 2
		fmt.Fprintf(b, `<circle cx="%d" cy="%d" r="6" fill="%s"/>`+"\n", cx, cy, c)
	}
}

type span struct {
	text  string
	style StyledCell
	col   int
}

func writeRowSpans(b *strings.Builder, g *GridSnapshot, row int, theme Theme) {
	y := titleBarHeight + row*glyphHeight + glyphHeight - 4 // baseline approximation

	var spans []span
	var cur *span
	for col := 0; col < g.Width; col++ {
		cell := g.At(row, col)
		if cell.Glyph == ' ' && cell.SameStyle(DefaultCell()) {
			cur = nil // default-style whitespace is never rendered
			continue
		}
		if cur != nil && cell.SameStyle(cur.style) {
			cur.text += string(cell.Glyph)
			continue
		}
		spans = append(spans, span{text: string(cell.Glyph), style: cell, col: col})
		cur = &spans[len(spans)-1]
	}

	for _, s := range spans {
		if isBlankDefaultSpan(s) {
			continue
		}
		writeSpan(b, s, y, theme)
	}
}

func isBlankDefaultSpan(s span) bool {
	if strings.Trim(s.text, " ") != "" {
		return false
	}
	return s.style.Fg.IsDefault() && s.style.Bg.IsDefault() &&
		!s.style.Bold && !s.style.Italic && !s.style.Underline && !s.style.Strikethrough
}

func writeSpan(b *strings.Builder, s span, y int, theme Theme) {
	x := s.col * glyphWidth

	if !s.style.Bg.IsDefault() {
		bg := resolveRGB(s.style.Bg, theme.Background, theme)
		fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			x, y-(glyphHeight-4), len([]rune(s.text))*glyphWidth, glyphHeight, cssColor(bg))
	}

	fg := resolveRGB(s.style.Fg, theme.Foreground, theme)
	var decorations []string
	if s.style.Underline {
		decorations = append(decorations, "underline")
	}
	if s.style.Strikethrough {
		decorations = append(decorations, "line-through")
	}
	decoAttr := ""
	if len(decorations) > 0 {
		decoAttr = fmt.Sprintf(` text-decoration="%s"`, strings.Join(decorations, " "))
	}
	weightAttr := ""
	if s.style.Bold {
		weightAttr = ` font-weight="bold"`
	}
	styleAttr := ""
	if s.style.Italic {
		styleAttr = ` font-style="italic"`
	}

	fmt.Fprintf(b, `<text x="%d" y="%d" fill="%s"%s%s%s>%s</text>`+"\n",
		x, y, cssColor(fg), weightAttr, styleAttr, decoAttr, xmlEscape(s.text))
}

func cssColor(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func xmlEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
