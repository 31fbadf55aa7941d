package conrec

import (
	"fmt"
	"strings"
)

// DefaultDiffThreshold is the fraction of changed cells above which
// [GridSnapshot.Diff] abandons incremental output and emits a full dump.
const DefaultDiffThreshold = 0.5

// GridSnapshot is an immutable capture of one screen's worth of styled
// cells plus cursor position. Rows are stored in row-major order:
// Cells[row*Width+col].
type GridSnapshot struct {
	Width, Height  int
	CursorX        int
	CursorY        int
	Cells          []StyledCell
	CapturedAt     float64 // monotonic seconds
	DiffThreshold  float64 // 0 means DefaultDiffThreshold
}

// NewGridSnapshot builds a snapshot of width x height, filled with
// default cells, cursor at the origin.
func NewGridSnapshot(width, height int) *GridSnapshot {
	cells := make([]StyledCell, width*height)
	for i := range cells {
		cells[i] = DefaultCell()
	}
	return &GridSnapshot{Width: width, Height: height, Cells: cells}
}

// At returns the cell at (row, col). Out-of-bounds coordinates return
// the zero StyledCell.
func (g *GridSnapshot) At(row, col int) StyledCell {
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
		return StyledCell{}
	}
	return g.Cells[row*g.Width+col]
}

func (g *GridSnapshot) set(row, col int, c StyledCell) {
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
		return
	}
	g.Cells[row*g.Width+col] = c
}

func (g *GridSnapshot) threshold() float64 {
	if g.DiffThreshold > 0 {
		return g.DiffThreshold
	}
	return DefaultDiffThreshold
}

// Diff produces the minimal ANSI byte sequence that turns a terminal
// currently displaying previous into one displaying g. previous may be
// nil, in which case a full-screen dump is produced.
//
// If the fraction of differing cells exceeds g's diff threshold, Diff
// falls back to a full dump rather than an incremental walk, on the
// assumption that the cursor-positioning overhead of many small jumps
// outweighs the cost of redrawing everything.
func (g *GridSnapshot) Diff(previous *GridSnapshot) []byte {
	if previous == nil {
		return g.fullDump()
	}

	changed := g.changedCells(previous)
	total := g.Width * g.Height
	if total == 0 {
		return nil
	}
	if float64(len(changed))/float64(total) > g.threshold() {
		return g.fullDump()
	}
	if len(changed) == 0 {
		return nil
	}
	return g.incrementalDump(changed, previous)
}

type cellPos struct {
	row, col int
}

func (g *GridSnapshot) changedCells(previous *GridSnapshot) []cellPos {
	var changed []cellPos
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if !g.At(row, col).Equal(previous.At(row, col)) {
				changed = append(changed, cellPos{row, col})
			}
		}
	}
	return changed
}

func (g *GridSnapshot) fullDump() []byte {
	var b strings.Builder
	b.WriteString("\x1b[H")

	var lastStyle StyledCell
	haveStyle := false
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			cell := g.At(row, col)
			if !haveStyle || !cell.SameStyle(lastStyle) {
				writeSGR(&b, cell)
				lastStyle = cell
				haveStyle = true
			}
			b.WriteRune(cell.Glyph)
		}
		if row != g.Height-1 {
			b.WriteString("\r\n")
		}
	}
	b.WriteString("\x1b[0m")
	fmt.Fprintf(&b, "\x1b[%d;%dH", g.CursorY+1, g.CursorX+1)
	return []byte(b.String())
}

func (g *GridSnapshot) incrementalDump(changed []cellPos, previous *GridSnapshot) []byte {
	var b strings.Builder

	lastRow, lastCol := -1, -1
	var lastStyle StyledCell
	haveStyle := false

	for _, pos := range changed {
		cell := g.At(pos.row, pos.col)

		contiguous := pos.row == lastRow && pos.col == lastCol+1
		if !contiguous {
			fmt.Fprintf(&b, "\x1b[%d;%dH", pos.row+1, pos.col+1)
		}
		if !haveStyle || !cell.SameStyle(lastStyle) {
			writeSGR(&b, cell)
			lastStyle = cell
			haveStyle = true
		}
		b.WriteRune(cell.Glyph)

		lastRow, lastCol = pos.row, pos.col
	}

	if previous == nil || g.CursorX != previous.CursorX || g.CursorY != previous.CursorY {
		fmt.Fprintf(&b, "\x1b[%d;%dH", g.CursorY+1, g.CursorX+1)
	}
	return []byte(b.String())
}

// writeSGR appends an SGR escape selecting cell's style, always starting
// from a reset so unrelated attributes from the previous style cannot
// leak through.
func writeSGR(b *strings.Builder, cell StyledCell) {
	params := []string{"0"}
	if cell.Bold {
		params = append(params, "1")
	}
	if cell.Italic {
		params = append(params, "3")
	}
	if cell.Underline {
		params = append(params, "4")
	}
	if cell.Strikethrough {
		params = append(params, "9")
	}
	params = append(params, colorSGRParams(cell.Fg, true)...)
	params = append(params, colorSGRParams(cell.Bg, false)...)

	b.WriteString("\x1b[")
	b.WriteString(strings.Join(params, ";"))
	b.WriteString("m")
}

func colorSGRParams(c Color, fg bool) []string {
	switch c.Kind {
	case ColorDefault:
		return nil
	case ColorAnsi16:
		base := 30
		idx := int(c.Index)
		if idx >= 8 {
			base = 90
			idx -= 8
		}
		if !fg {
			base += 10
		}
		return []string{fmt.Sprintf("%d", base+idx)}
	case ColorPalette256:
		lead := "38"
		if !fg {
			lead = "48"
		}
		return []string{lead, "5", fmt.Sprintf("%d", c.Index)}
	case ColorRGB:
		lead := "38"
		if !fg {
			lead = "48"
		}
		return []string{lead, "2", fmt.Sprintf("%d", c.R), fmt.Sprintf("%d", c.G), fmt.Sprintf("%d", c.B)}
	default:
		return nil
	}
}
