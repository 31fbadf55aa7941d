package conrec

// ConsoleAdapter is the narrow interface the capture engine uses to talk
// to the live console. Exactly one implementation is linked per
// platform, selected by build tag: console_windows.go for Windows,
// console_other.go (always returning [ErrPlatform]) elsewhere.
type ConsoleAdapter interface {
	// WindowSize returns the current visible window of the screen
	// buffer as (cols, rows).
	WindowSize() (cols, rows int, err error)
	// Capture reads every visible cell, its attributes, and the cursor
	// position as one logical sample.
	Capture() (*GridSnapshot, error)
	// EnableVTOutput idempotently puts the output handle into
	// virtual-terminal-processing mode.
	EnableVTOutput() error
}

// InputPoller is an optional capability a ConsoleAdapter may implement:
// a non-blocking count of unread input records. The capture engine's
// interactive-mode watcher polls this every 50ms (spec's Open Question 1
// resolution: a deliberate non-blocking poll rather than a blocking
// stdin.ready? predicate) to detect when the controlling console goes
// away out from under a running capture.
type InputPoller interface {
	PendingInputEvents() (int, error)
}

// winAttrToAnsi16 maps a Windows console color nibble (bit0=blue,
// bit1=green, bit2=red, bit3=intensity) to the ANSI 16-color index
// (bit0=red, bit1=green, bit2=blue, bit3=intensity). The host's BGR bit
// order differs from ANSI's RGB order, so this is a fixed table, not a
// computed bit twiddle.
var winAttrToAnsi16 = [16]uint8{
	0, 4, 2, 6, 1, 5, 3, 7,
	8, 12, 10, 14, 9, 13, 11, 15,
}
