package conrec

import (
	"bytes"
	"fmt"
)

// titleBarHeight is the height, in pixels, of the chrome strip rendered
// above the cell grid by [RenderFrame].
const titleBarHeight = 24

// Frame is a raw RGB pixel buffer plus its dimensions, ready to be
// encoded as PPM or fed frame-by-frame to the video muxer.
type Frame struct {
	Width, Height int
	Pix           []byte // width*height*3, row-major, no padding
}

// RenderFrame rasterizes snapshot into a fixed 8x16-per-cell RGB image
// with window chrome (a title bar holding three filled circles), using
// the embedded bitmap font. This is the renderer the video pipeline
// drives frame-by-frame.
func RenderFrame(g *GridSnapshot, theme Theme) *Frame {
	width := g.Width * glyphWidth
	height := g.Height*glyphHeight + titleBarHeight

	f := &Frame{Width: width, Height: height, Pix: make([]byte, width*height*3)}

	f.fillRect(0, 0, width, height, theme.Background)
	f.drawTitleBar(width, theme)

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			cell := g.At(row, col)
			f.drawCell(col*glyphWidth, titleBarHeight+row*glyphHeight, cell, theme)
		}
	}
	return f
}

func (f *Frame) set(x, y int, c RGB) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	i := (y*f.Width + x) * 3
	f.Pix[i] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
}

func (f *Frame) fillRect(x0, y0, w, h int, c RGB) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			f.set(x, y, c)
		}
	}
}

func (f *Frame) drawTitleBar(width int, theme Theme) {
	f.fillRect(0, 0, width, titleBarHeight, RGB{60, 60, 60})
	circleColors := [3]RGB{{255, 95, 86}, {255, 189, 44}, {39, 201, 63}}
	for i, c := range circleColors {
		cx := 14 + i*20
		cy := titleBarHeight / 2
		f.drawCircle(cx, cy, 6, c)
	}
}

func (f *Frame) drawCircle(cx, cy, r int, c RGB) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				f.set(cx+x, cy+y, c)
			}
		}
	}
}

// drawCell fills the cell's background rectangle, then stamps the
// glyph's bits in the resolved foreground color.
func (f *Frame) drawCell(x0, y0 int, cell StyledCell, theme Theme) {
	bg := resolveRGB(cell.Bg, theme.Background, theme)
	fg := resolveRGB(cell.Fg, theme.Foreground, theme)

	f.fillRect(x0, y0, glyphWidth, glyphHeight, bg)

	bmp := glyphFor(cell.Glyph)
	for y := 0; y < glyphHeight; y++ {
		row := bmp[y]
		for x := 0; x < glyphWidth; x++ {
			if row&(1<<uint(7-x)) != 0 {
				f.set(x0+x, y0+y, fg)
			}
		}
	}

	if cell.Underline {
		for x := 0; x < glyphWidth; x++ {
			f.set(x0+x, y0+glyphHeight-1, fg)
		}
	}
	if cell.Strikethrough {
		for x := 0; x < glyphWidth; x++ {
			f.set(x0+x, y0+glyphHeight/2, fg)
		}
	}
}

func resolveRGB(c Color, def RGB, theme Theme) RGB {
	switch c.Kind {
	case ColorDefault:
		return def
	case ColorAnsi16:
		return theme.Palette[c.Index]
	case ColorPalette256:
		return theme.ColorFor(int(c.Index))
	case ColorRGB:
		return RGB{c.R, c.G, c.B}
	default:
		return def
	}
}

// EncodePPM writes f as a portable-pixmap (P6) image: the ASCII header
// "P6\n<W> <H>\n255\n" followed by width*height*3 raw bytes.
func EncodePPM(f *Frame) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P6\n%d %d\n255\n", f.Width, f.Height)
	buf.Write(f.Pix)
	return buf.Bytes()
}
