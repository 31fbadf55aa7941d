package conrec

// JSONSnapshot is the `export --format json` representation of one
// GridSnapshot: plain text per row plus the styled runs needed to
// reconstruct coloring, without the bulk of a cell-per-entry dump.
type JSONSnapshot struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cursor JSONCursor `json:"cursor"`
	Rows   []JSONRow  `json:"rows"`
}

// JSONCursor is the cursor position carried in a JSONSnapshot.
type JSONCursor struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// JSONRow is one row's plain text plus its styled segments (runs of
// cells sharing fg/bg/attributes).
type JSONRow struct {
	Text     string        `json:"text"`
	Segments []JSONSegment `json:"segments,omitempty"`
}

// JSONSegment is a run of same-styled text within a row.
type JSONSegment struct {
	Text          string `json:"text"`
	Fg            string `json:"fg,omitempty"`
	Bg            string `json:"bg,omitempty"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
}

// ToJSONSnapshot converts g into its JSON export form.
func ToJSONSnapshot(g *GridSnapshot) JSONSnapshot {
	snap := JSONSnapshot{
		Width:  g.Width,
		Height: g.Height,
		Cursor: JSONCursor{Row: g.CursorY, Col: g.CursorX},
		Rows:   make([]JSONRow, g.Height),
	}
	for row := 0; row < g.Height; row++ {
		snap.Rows[row] = rowToJSON(g, row)
	}
	return snap
}

func rowToJSON(g *GridSnapshot, row int) JSONRow {
	var text []rune
	var segments []JSONSegment
	var cur *JSONSegment
	var curStyle StyledCell
	haveStyle := false

	for col := 0; col < g.Width; col++ {
		cell := g.At(row, col)
		text = append(text, cell.Glyph)

		if haveStyle && cell.SameStyle(curStyle) {
			cur.Text += string(cell.Glyph)
			continue
		}
		segments = append(segments, JSONSegment{
			Text:          string(cell.Glyph),
			Fg:            colorLabel(cell.Fg),
			Bg:            colorLabel(cell.Bg),
			Bold:          cell.Bold,
			Italic:        cell.Italic,
			Underline:     cell.Underline,
			Strikethrough: cell.Strikethrough,
		})
		cur = &segments[len(segments)-1]
		curStyle = cell
		haveStyle = true
	}

	return JSONRow{Text: string(text), Segments: segments}
}

func colorLabel(c Color) string {
	if c.IsDefault() {
		return ""
	}
	return c.String()
}
