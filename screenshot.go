package conrec

import (
	"image"
	"image/color"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// LoadFont loads a TrueType or OpenType font from a file path, for use
// with RenderFrameWithFont.
func LoadFont(path string, size float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFontFromReader(f, size)
}

// LoadFontFromReader loads a TrueType or OpenType font from an io.Reader.
func LoadFontFromReader(r io.Reader, size float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadFontFromBytes(data, size)
}

// LoadFontFromBytes loads a TrueType or OpenType font from raw bytes.
func LoadFontFromBytes(data []byte, size float64) (font.Face, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RenderFrameWithFont rasterizes g the same way RenderFrame does, but
// draws glyphs with an arbitrary font.Face via font.Drawer instead of the
// embedded bitmap table, for callers that load a real monospace font
// (through LoadFont) and want sharper export images. Cell advance is
// taken from the face's own 'M' metric rather than the fixed 8px bitmap
// width, so face and grid dimensions may disagree from RenderFrame's.
func RenderFrameWithFont(g *GridSnapshot, theme Theme, face font.Face) *Frame {
	adv, _ := face.GlyphAdvance('M')
	cellWidth := adv.Ceil()
	if cellWidth <= 0 {
		cellWidth = glyphWidth
	}
	metrics := face.Metrics()
	cellHeight := metrics.Height.Ceil()
	if cellHeight <= 0 {
		cellHeight = glyphHeight
	}

	width := g.Width * cellWidth
	height := g.Height*cellHeight + titleBarHeight
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	fillImageRect(img, 0, 0, width, height, theme.Background)
	drawImageTitleBar(img, width, theme)

	baseline := metrics.Ascent.Ceil()
	for row := 0; row < g.Height; row++ {
		y := titleBarHeight + row*cellHeight
		for col := 0; col < g.Width; col++ {
			cell := g.At(row, col)
			x := col * cellWidth

			bg := resolveRGB(cell.Bg, theme.Background, theme)
			fg := resolveRGB(cell.Fg, theme.Foreground, theme)
			fillImageRect(img, x, y, cellWidth, cellHeight, bg)

			if cell.Glyph != 0 && cell.Glyph != ' ' {
				d := &font.Drawer{
					Dst:  img,
					Src:  image.NewUniform(rgbToColor(fg)),
					Face: face,
					Dot:  fixed.P(x, y+baseline),
				}
				d.DrawString(string(cell.Glyph))
			}
			if cell.Underline {
				drawImageHLine(img, x, y+baseline+2, cellWidth, fg)
			}
			if cell.Strikethrough {
				drawImageHLine(img, x, y+cellHeight/2, cellWidth, fg)
			}
		}
	}

	return &Frame{Width: width, Height: height, Pix: rgbaToPackedRGB(img)}
}

func fillImageRect(img *image.RGBA, x0, y0, w, h int, c RGB) {
	col := rgbToColor(c)
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.Set(x, y, col)
		}
	}
}

func drawImageTitleBar(img *image.RGBA, width int, theme Theme) {
	fillImageRect(img, 0, 0, width, titleBarHeight, RGB{60, 60, 60})
	circleColors := [3]RGB{{255, 95, 86}, {255, 189, 44}, {39, 201, 63}}
	for i, c := range circleColors {
		cx := 14 + i*20
		cy := titleBarHeight / 2
		drawImageCircle(img, cx, cy, 6, c)
	}
}

func drawImageCircle(img *image.RGBA, cx, cy, r int, c RGB) {
	col := rgbToColor(c)
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				img.Set(cx+x, cy+y, col)
			}
		}
	}
}

func drawImageHLine(img *image.RGBA, x0, y, width int, c RGB) {
	col := rgbToColor(c)
	for x := x0; x < x0+width; x++ {
		img.Set(x, y, col)
	}
}

func rgbToColor(c RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// rgbaToPackedRGB strips img's alpha channel, matching Frame.Pix's
// width*height*3 row-major layout.
func rgbaToPackedRGB(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, b.Dx()*b.Dy()*3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			out[i] = c.R
			out[i+1] = c.G
			out[i+2] = c.B
			i += 3
		}
	}
	return out
}
