package conrec

// Emulator is a state machine that consumes a raw ANSI/UTF-8 byte stream
// and maintains a fixed-size grid of [StyledCell]s plus a [StyleState].
// It is not safe for concurrent use and is not reentrant: construct one
// per emulation pass.
//
// The teacher delegates this decoding to a sibling ansicode package; that
// package is not available here, so Emulator inlines a small private
// parser, one method per control function, the same decomposition the
// teacher itself uses internally.
type Emulator struct {
	buf    *screenBuffer
	cursor *StyleState

	parseState parseState
	params     []int
	curParam   int
	hasParam   bool
	csiPrivate bool
}

type parseState int

const (
	stateGround parseState = iota
	stateEscape
	stateCSI
	stateOSC
)

// NewEmulator creates an emulator for a grid of the given dimensions.
func NewEmulator(width, height int) *Emulator {
	return &Emulator{
		buf:    newScreenBuffer(height, width),
		cursor: newStyleState(),
	}
}

// Resize changes the emulator's grid dimensions, preserving existing
// content at the top-left corner and clamping the cursor into the new
// bounds. Replay callers (the export pipeline) call this on encountering
// an EventResize record, so a mid-session console resize renders
// correctly instead of being emulated against the recording's original
// header dimensions.
func (e *Emulator) Resize(width, height int) {
	e.buf.Resize(height, width)
	e.cursor.Row = clampInt(e.cursor.Row, 0, e.buf.rows-1)
	e.cursor.Col = clampInt(e.cursor.Col, 0, e.buf.cols-1)
}

// Snapshot returns the current grid state as an immutable [GridSnapshot].
func (e *Emulator) Snapshot() *GridSnapshot {
	return e.buf.Snapshot(e.cursor.Col, e.cursor.Row, 0)
}

// Write feeds bytes into the parser. Chunk boundaries never affect the
// resulting grid: the same byte stream produces the same final grid
// regardless of how it is split across calls.
func (e *Emulator) Write(p []byte) (int, error) {
	for _, b := range p {
		e.feed(b)
	}
	return len(p), nil
}

func (e *Emulator) feed(b byte) {
	switch e.parseState {
	case stateGround:
		e.feedGround(b)
	case stateEscape:
		e.feedEscape(b)
	case stateCSI:
		e.feedCSI(b)
	case stateOSC:
		e.feedOSC(b)
	}
}

func (e *Emulator) feedGround(b byte) {
	switch b {
	case 0x1b: // ESC
		e.parseState = stateEscape
	case '\r':
		e.carriageReturn()
	case '\n':
		e.lineFeed()
	case 0x08: // BS
		e.backspace()
	case 0x09: // HT
		e.horizontalTab()
	default:
		if b < 0x20 {
			return // ignored non-printable control byte
		}
		e.writeGlyph(rune(b))
	}
}

func (e *Emulator) feedEscape(b byte) {
	switch b {
	case '[':
		e.parseState = stateCSI
		e.params = e.params[:0]
		e.curParam = 0
		e.hasParam = false
		e.csiPrivate = false
	case ']':
		e.parseState = stateOSC
	default:
		// Other escape forms (charset selection, etc.) have no effect here.
		e.parseState = stateGround
	}
}

func (e *Emulator) feedOSC(b byte) {
	// OSC runs until BEL or ST (ESC \\); skipped without effect.
	if b == 0x07 {
		e.parseState = stateGround
	}
	// ESC handling for the ST terminator is approximated: a bare ESC
	// inside OSC re-enters the escape state, so "ESC \\" is consumed
	// as escape-then-backslash, ending OSC on the next byte.
	if b == 0x1b {
		e.parseState = stateEscape
	}
}

func (e *Emulator) feedCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		e.curParam = e.curParam*10 + int(b-'0')
		e.hasParam = true
	case b == ';':
		e.params = append(e.params, e.curParamOrDefault())
		e.curParam = 0
		e.hasParam = false
	case b == '?' || b == '<' || b == '=' || b == '>':
		// private-parameter-prefix byte, e.g. the '?' in ESC[?25h or
		// ESC[?2004h. Spec names no private-mode sequence to act on;
		// the whole form is still consumed through its final byte so
		// the trailing parameter digits never leak to feedGround as text.
		e.csiPrivate = true
	case b >= 0x20 && b <= 0x2f:
		// intermediate byte; no CSI form this parser dispatches uses one.
	case b >= 0x40 && b <= 0x7e:
		e.params = append(e.params, e.curParamOrDefault())
		if !e.csiPrivate {
			e.dispatchCSI(b, e.params)
		}
		e.parseState = stateGround
	default:
		// outside the valid CSI byte ranges; abandon the sequence.
		e.parseState = stateGround
	}
}

func (e *Emulator) curParamOrDefault() int {
	if !e.hasParam {
		return -1 // "no parameter supplied"; callers substitute their own default
	}
	return e.curParam
}

func (e *Emulator) dispatchCSI(final byte, params []int) {
	switch final {
	case 'm':
		e.setGraphicRendition(params)
	case 'H', 'f':
		e.cursorPosition(params)
	case 'A':
		e.cursorUp(param(params, 0, 1))
	case 'B':
		e.cursorDown(param(params, 0, 1))
	case 'C':
		e.cursorForward(param(params, 0, 1))
	case 'D':
		e.cursorBack(param(params, 0, 1))
	case 'G':
		e.cursorHorizontalAbsolute(param(params, 0, 1))
	case 'J':
		e.eraseInDisplay(param(params, 0, 0))
	case 'K':
		e.eraseInLine(param(params, 0, 0))
	}
}

// param returns params[i] if present and non-negative (the "no parameter
// supplied" sentinel), otherwise def.
func param(params []int, i, def int) int {
	if i >= len(params) || params[i] < 0 {
		return def
	}
	return params[i]
}

// --- control functions ---

func (e *Emulator) carriageReturn() {
	e.cursor.Col = 0
}

func (e *Emulator) lineFeed() {
	e.cursor.Row++
	if e.cursor.Row >= e.buf.rows {
		e.buf.ScrollUp(0, e.buf.rows, e.cursor.Template)
		e.cursor.Row = e.buf.rows - 1
	}
}

func (e *Emulator) backspace() {
	if e.cursor.Col > 0 {
		e.cursor.Col--
	}
}

func (e *Emulator) horizontalTab() {
	next := e.buf.NextTabStop(e.cursor.Col)
	for c := e.cursor.Col; c < next && c < e.buf.cols; c++ {
		cell := e.cursor.Template
		cell.Glyph = ' '
		e.buf.SetCell(e.cursor.Row, c, cell)
	}
	e.cursor.Col = next
}

func (e *Emulator) writeGlyph(r rune) {
	if e.cursor.Col >= e.buf.cols {
		e.cursor.Col = 0
		e.lineFeed()
	}
	cell := e.cursor.Template
	cell.Glyph = r
	e.buf.SetCell(e.cursor.Row, e.cursor.Col, cell)
	e.cursor.Col++
}

func (e *Emulator) cursorPosition(params []int) {
	row := param(params, 0, 1)
	col := param(params, 1, 1)
	e.cursor.Row = clampInt(row-1, 0, e.buf.rows-1)
	e.cursor.Col = clampInt(col-1, 0, e.buf.cols-1)
}

func (e *Emulator) cursorUp(n int)      { e.cursor.Row = clampInt(e.cursor.Row-n, 0, e.buf.rows-1) }
func (e *Emulator) cursorDown(n int)    { e.cursor.Row = clampInt(e.cursor.Row+n, 0, e.buf.rows-1) }
func (e *Emulator) cursorForward(n int) { e.cursor.Col = clampInt(e.cursor.Col+n, 0, e.buf.cols-1) }
func (e *Emulator) cursorBack(n int)    { e.cursor.Col = clampInt(e.cursor.Col-n, 0, e.buf.cols-1) }

func (e *Emulator) cursorHorizontalAbsolute(col int) {
	e.cursor.Col = clampInt(col-1, 0, e.buf.cols-1)
}

func (e *Emulator) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		e.buf.ClearRowRange(e.cursor.Row, e.cursor.Col, e.buf.cols, e.cursor.Template)
		for row := e.cursor.Row + 1; row < e.buf.rows; row++ {
			e.buf.ClearRowRange(row, 0, e.buf.cols, e.cursor.Template)
		}
	case 1:
		for row := 0; row < e.cursor.Row; row++ {
			e.buf.ClearRowRange(row, 0, e.buf.cols, e.cursor.Template)
		}
		e.buf.ClearRowRange(e.cursor.Row, 0, e.cursor.Col+1, e.cursor.Template)
	case 2, 3:
		e.buf.ClearAll(e.cursor.Template)
	}
}

func (e *Emulator) eraseInLine(mode int) {
	switch mode {
	case 0:
		e.buf.ClearRowRange(e.cursor.Row, e.cursor.Col, e.buf.cols, e.cursor.Template)
	case 1:
		e.buf.ClearRowRange(e.cursor.Row, 0, e.cursor.Col+1, e.cursor.Template)
	case 2:
		e.buf.ClearRowRange(e.cursor.Row, 0, e.buf.cols, e.cursor.Template)
	}
}

func (e *Emulator) setGraphicRendition(params []int) {
	if len(params) == 0 {
		e.cursor.resetSGR()
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		if p < 0 {
			p = 0
		}
		switch {
		case p == 0:
			e.cursor.resetSGR()
		case p == 1:
			e.cursor.Template.Bold = true
		case p == 22:
			e.cursor.Template.Bold = false
		case p == 3:
			e.cursor.Template.Italic = true
		case p == 23:
			e.cursor.Template.Italic = false
		case p == 4:
			e.cursor.Template.Underline = true
		case p == 24:
			e.cursor.Template.Underline = false
		case p == 9:
			e.cursor.Template.Strikethrough = true
		case p == 29:
			e.cursor.Template.Strikethrough = false
		case p == 39:
			e.cursor.Template.Fg = Color{}
		case p == 49:
			e.cursor.Template.Bg = Color{}
		case p >= 30 && p <= 37:
			e.cursor.Template.Fg = Ansi16Color(p - 30)
		case p >= 90 && p <= 97:
			e.cursor.Template.Fg = Ansi16Color(8 + p - 90)
		case p >= 40 && p <= 47:
			e.cursor.Template.Bg = Ansi16Color(p - 40)
		case p >= 100 && p <= 107:
			e.cursor.Template.Bg = Ansi16Color(8 + p - 100)
		case p == 38 || p == 48:
			consumed := e.setExtendedColor(p == 38, params[i+1:])
			i += consumed
		}
	}
}

// setExtendedColor handles the `38;5;n` / `38;2;r;g;b` (and 48-prefixed
// background) extended color forms. rest is the parameter slice after
// the leading 38/48. Returns how many of rest's entries were consumed.
func (e *Emulator) setExtendedColor(fg bool, rest []int) int {
	if len(rest) == 0 {
		return 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return 1
		}
		c := Palette256Color(rest[1])
		if fg {
			e.cursor.Template.Fg = c
		} else {
			e.cursor.Template.Bg = c
		}
		return 2
	case 2:
		if len(rest) < 4 {
			return len(rest)
		}
		c := RGBColor(uint8(rest[1]), uint8(rest[2]), uint8(rest[3]))
		if fg {
			e.cursor.Template.Fg = c
		} else {
			e.cursor.Template.Bg = c
		}
		return 4
	default:
		return 1
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
