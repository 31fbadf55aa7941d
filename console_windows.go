//go:build windows

package conrec

import (
	"fmt"

	"golang.org/x/sys/windows"
)

const (
	commonLVBReverseVideo = 0x4000
	commonLVBUnderscore   = 0x8000
)

// winConsoleAdapter implements ConsoleAdapter using golang.org/x/sys/windows,
// talking directly to the process's output and input console handles.
type winConsoleAdapter struct {
	out windows.Handle
	in  windows.Handle
}

// newConsoleAdapter opens the process's standard console handles. If the
// process is not attached to a console, the returned error wraps
// ErrConsoleUnavailable.
func newConsoleAdapter() (ConsoleAdapter, error) {
	out, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	in, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(out, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	return &winConsoleAdapter{out: out, in: in}, nil
}

func (a *winConsoleAdapter) WindowSize() (cols, rows int, err error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(a.out, &info); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	return windowDims(info)
}

func windowDims(info windows.ConsoleScreenBufferInfo) (cols, rows int, err error) {
	cols = int(info.Window.Right-info.Window.Left) + 1
	rows = int(info.Window.Bottom-info.Window.Top) + 1
	if cols <= 0 || rows <= 0 {
		return 0, 0, fmt.Errorf("%w: non-positive window size", ErrConsoleUnavailable)
	}
	return cols, rows, nil
}

// Capture reads every visible cell and the cursor as one logical sample,
// tolerating a racing resize by retrying once if the pre- and post-read
// dimensions disagree.
func (a *winConsoleAdapter) Capture() (*GridSnapshot, error) {
	g, err := a.captureOnce()
	if err == nil {
		return g, nil
	}
	if !isResizeRace(err) {
		return nil, err
	}
	return a.captureOnce()
}

var errResizeRace = fmt.Errorf("%w: dimensions changed mid-capture", ErrConsoleUnavailable)

func isResizeRace(err error) bool { return err == errResizeRace }

func (a *winConsoleAdapter) captureOnce() (*GridSnapshot, error) {
	var before windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(a.out, &before); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	cols, rows, err := windowDims(before)
	if err != nil {
		return nil, err
	}

	cells := make([]StyledCell, cols*rows)
	chars := make([]uint16, cols)
	attrs := make([]uint16, cols)

	for row := 0; row < rows; row++ {
		readCoord := windows.Coord{X: before.Window.Left, Y: before.Window.Top + int16(row)}
		var nRead uint32
		if err := windows.ReadConsoleOutputCharacter(a.out, chars, readCoord, &nRead); err != nil {
			return nil, fmt.Errorf("%w: reading row %d: %v", ErrConsoleUnavailable, row, err)
		}
		if err := windows.ReadConsoleOutputAttribute(a.out, attrs, readCoord, &nRead); err != nil {
			return nil, fmt.Errorf("%w: reading row %d attrs: %v", ErrConsoleUnavailable, row, err)
		}
		for col := 0; col < cols; col++ {
			cells[row*cols+col] = cellFromAttr(rune(chars[col]), attrs[col])
		}
	}

	var after windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(a.out, &after); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	afterCols, afterRows, err := windowDims(after)
	if err != nil {
		return nil, err
	}
	if afterCols != cols || afterRows != rows {
		return nil, errResizeRace
	}

	return &GridSnapshot{
		Width:   cols,
		Height:  rows,
		CursorX: int(after.CursorPosition.X - after.Window.Left),
		CursorY: int(after.CursorPosition.Y - after.Window.Top),
		Cells:   cells,
	}, nil
}

// cellFromAttr decodes one console attribute word into a StyledCell.
// The low nibble is the fg index, the next nibble the bg index, both in
// the host's BGR bit order; winAttrToAnsi16 remaps them to ANSI order.
func cellFromAttr(glyph rune, attr uint16) StyledCell {
	fgIdx := winAttrToAnsi16[attr&0xF]
	bgIdx := winAttrToAnsi16[(attr>>4)&0xF]
	if attr&commonLVBReverseVideo != 0 {
		fgIdx, bgIdx = bgIdx, fgIdx
	}
	return StyledCell{
		Glyph:     glyph,
		Fg:        Ansi16Color(int(fgIdx)),
		Bg:        Ansi16Color(int(bgIdx)),
		Underline: attr&commonLVBUnderscore != 0,
	}
}

// EnableVTOutput ORs ENABLE_VIRTUAL_TERMINAL_PROCESSING onto the output
// handle's existing mode, so repeated calls are idempotent and other
// mode bits are preserved.
func (a *winConsoleAdapter) EnableVTOutput() error {
	var mode uint32
	if err := windows.GetConsoleMode(a.out, &mode); err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	if err := windows.SetConsoleMode(a.out, mode); err != nil {
		return fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	return nil
}

// PendingInputEvents reports the number of unread input records, polled
// by the capture engine's interactive-mode input watcher (see InputPoller).
func (a *winConsoleAdapter) PendingInputEvents() (int, error) {
	var n uint32
	if err := windows.GetNumberOfConsoleInputEvents(a.in, &n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
	}
	return int(n), nil
}
