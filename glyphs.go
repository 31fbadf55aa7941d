package conrec

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// glyphWidth and glyphHeight are the fixed cell dimensions the frame
// renderer stamps, per spec's required 8x16 embedded bitmap font.
const (
	glyphWidth  = 8
	glyphHeight = 16
)

// glyphBitmap is one glyph's pixels, one byte per row, MSB = leftmost
// column (columns 0..7).
type glyphBitmap [glyphHeight]uint8

var blankGlyph glyphBitmap

var glyphTable map[rune]glyphBitmap

// requiredBoxRunes is the exact box-drawing/block/arrow/mark set spec
// requires beyond plain ASCII; basicfont.Face7x13 doesn't cover these,
// so they're hand-authored geometric bitmaps below.
var requiredBoxRunes = []rune{
	0x2500, 0x2502, 0x250C, 0x2510, 0x2514, 0x2518, 0x251C, 0x2524, 0x252C, 0x2534, 0x253C,
	0x2550, 0x2551, 0x2554, 0x2557, 0x255A, 0x255D,
	0x2588, 0x2591, 0x2592, 0x2593,
	0x2190, 0x2192, 0x2713, 0x2717, 0x25B6,
}

func init() {
	glyphTable = make(map[rune]glyphBitmap, 95+len(requiredBoxRunes))

	face := basicfont.Face7x13
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()

	for r := rune(32); r <= 126; r++ {
		img := image.NewAlpha(image.Rect(0, 0, glyphWidth, glyphHeight))
		d := &font.Drawer{
			Dst:  img,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.P(0, ascent),
		}
		d.DrawString(string(r))
		glyphTable[r] = rasterizeAlpha(img)
	}

	for r, bmp := range handAuthoredGlyphs() {
		glyphTable[r] = bmp
	}
}

func rasterizeAlpha(img *image.Alpha) glyphBitmap {
	var bmp glyphBitmap
	bounds := img.Bounds()
	for y := 0; y < glyphHeight; y++ {
		var row uint8
		for x := 0; x < glyphWidth; x++ {
			if y >= bounds.Dy() || x >= bounds.Dx() {
				continue
			}
			if img.AlphaAt(x, y).A > 127 {
				row |= 1 << uint(7-x)
			}
		}
		bmp[y] = row
	}
	return bmp
}

// glyphFor returns the embedded bitmap for r, or the blank (space)
// bitmap for any code point outside the supported set.
func glyphFor(r rune) glyphBitmap {
	if bmp, ok := glyphTable[r]; ok {
		return bmp
	}
	return blankGlyph
}

// handAuthoredGlyphs builds the box-drawing, block-element, double-line,
// arrow, and check/cross/triangle glyphs as literal row bitmaps: simple
// enough geometry (straight lines, filled rects, triangles) to encode
// exactly, unlike prose glyphs.
func handAuthoredGlyphs() map[rune]glyphBitmap {
	g := map[rune]glyphBitmap{}

	hLine := rowsOf(0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	vLine := colLine(3, 4)
	g[0x2500] = hLine // ─
	g[0x2502] = vLine // │

	g[0x250C] = cornerGlyph(false, true, true, false)  // ┌ down+right
	g[0x2510] = cornerGlyph(false, false, true, true)  // ┐ down+left
	g[0x2514] = cornerGlyph(true, true, false, false)  // └ up+right
	g[0x2518] = cornerGlyph(true, false, false, true)  // ┘ up+left
	g[0x251C] = cornerGlyph(true, true, true, false)   // ├ up+down+right
	g[0x2524] = cornerGlyph(true, false, true, true)    // ┤ up+down+left
	g[0x252C] = cornerGlyph(false, true, true, true)    // ┬ down+left+right
	g[0x2534] = cornerGlyph(true, true, false, true)    // ┴ up+left+right
	g[0x253C] = cornerGlyph(true, true, true, true)     // ┼ all four

	g[0x2550] = doubleRowsOf(7, 9) // ═
	g[0x2551] = colLine(3, 4)      // ║ (single column approximation)
	g[0x2554] = doubleCorner(false, true, true, false)
	g[0x2557] = doubleCorner(false, false, true, true)
	g[0x255A] = doubleCorner(true, true, false, false)
	g[0x255D] = doubleCorner(true, false, false, true)

	g[0x2588] = rowsOf(0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF) // █ full block
	g[0x2591] = ditherBlock(4)                                                                                       // ░ light shade
	g[0x2592] = ditherBlock(2)                                                                                       // ▒ medium shade
	g[0x2593] = ditherBlock(1)                                                                                       // ▓ dark shade

	g[0x2190] = arrowLeft()
	g[0x2192] = arrowRight()
	g[0x2713] = checkMark()
	g[0x2717] = crossMark()
	g[0x25B6] = triangleRight()

	return g
}

func rowsOf(rows ...uint8) glyphBitmap {
	var bmp glyphBitmap
	for i := 0; i < glyphHeight && i < len(rows); i++ {
		bmp[i] = rows[i]
	}
	return bmp
}

// colLine draws a single-pixel vertical line at the given bit column
// (0-indexed from the left) across all rows.
func colLine(bitFromLeft, _ int) glyphBitmap {
	var bmp glyphBitmap
	mask := uint8(1) << uint(7-bitFromLeft)
	for i := range bmp {
		bmp[i] = mask
	}
	return bmp
}

// cornerGlyph draws a box-drawing join centered in the cell: up/down
// extend the vertical line above/below center, left/right extend the
// horizontal line left/right of center.
func cornerGlyph(up, down, left, right bool) glyphBitmap {
	var bmp glyphBitmap
	centerRow := glyphHeight / 2
	centerCol := 3
	mask := uint8(1) << uint(7-centerCol)

	if up {
		for y := 0; y <= centerRow; y++ {
			bmp[y] |= mask
		}
	}
	if down {
		for y := centerRow; y < glyphHeight; y++ {
			bmp[y] |= mask
		}
	}
	if left || right {
		var rowMask uint8
		if left {
			rowMask |= 0xFF << uint(8-centerCol)
		}
		if right {
			rowMask |= 0xFF >> uint(centerCol+1)
		}
		rowMask |= mask
		bmp[centerRow] |= rowMask
	}
	return bmp
}

func doubleRowsOf(r1, r2 int) glyphBitmap {
	var bmp glyphBitmap
	bmp[r1] = 0xFF
	bmp[r2] = 0xFF
	return bmp
}

func doubleCorner(up, down, left, right bool) glyphBitmap {
	var bmp glyphBitmap
	rows := []int{7, 9}
	col := 3

	if left || right {
		for _, r := range rows {
			var rowMask uint8
			if left {
				rowMask |= 0xFF << uint(8-col)
			}
			if right {
				rowMask |= 0xFF >> uint(col)
			}
			bmp[r] |= rowMask
		}
	}
	if up {
		for y := 0; y <= rows[1]; y++ {
			bmp[y] |= 1 << uint(7-col) | 1<<uint(7-col-2)
		}
	}
	if down {
		for y := rows[0]; y < glyphHeight; y++ {
			bmp[y] |= 1 << uint(7-col) | 1<<uint(7-col-2)
		}
	}
	return bmp
}

func ditherBlock(step int) glyphBitmap {
	var bmp glyphBitmap
	for y := 0; y < glyphHeight; y++ {
		var row uint8
		for x := 0; x < glyphWidth; x++ {
			if (x+y)%step == 0 {
				row |= 1 << uint(7-x)
			}
		}
		bmp[y] = row
	}
	return bmp
}

func arrowLeft() glyphBitmap {
	var bmp glyphBitmap
	mid := glyphHeight / 2
	for x := 2; x < 7; x++ {
		bmp[mid] |= 1 << uint(7-x)
	}
	bmp[mid-1] |= 1 << uint(7-3)
	bmp[mid-2] |= 1 << uint(7-4)
	bmp[mid+1] |= 1 << uint(7-3)
	bmp[mid+2] |= 1 << uint(7-4)
	return bmp
}

func arrowRight() glyphBitmap {
	var bmp glyphBitmap
	mid := glyphHeight / 2
	for x := 1; x < 6; x++ {
		bmp[mid] |= 1 << uint(7-x)
	}
	bmp[mid-1] |= 1 << uint(7-4)
	bmp[mid-2] |= 1 << uint(7-3)
	bmp[mid+1] |= 1 << uint(7-4)
	bmp[mid+2] |= 1 << uint(7-3)
	return bmp
}

func checkMark() glyphBitmap {
	var bmp glyphBitmap
	pts := [][2]int{{1, 8}, {2, 9}, {3, 10}, {4, 9}, {5, 8}, {6, 6}, {7, 4}}
	for _, p := range pts {
		x, y := p[0], p[1]
		if y >= 0 && y < glyphHeight {
			bmp[y] |= 1 << uint(7-x)
		}
	}
	return bmp
}

func crossMark() glyphBitmap {
	var bmp glyphBitmap
	for i := 0; i < 8; i++ {
		bmp[4+i] |= 1 << uint(7-i)
		bmp[4+i] |= 1 << uint(7-(7-i))
	}
	return bmp
}

func triangleRight() glyphBitmap {
	var bmp glyphBitmap
	for y := 2; y < 14; y++ {
		width := 6 - abs(y-8)/2
		for x := 1; x < 1+width; x++ {
			bmp[y] |= 1 << uint(7-x)
		}
	}
	return bmp
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
