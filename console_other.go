//go:build !windows

package conrec

import "fmt"

// genericConsoleAdapter is the non-Windows stand-in: every method
// surfaces ErrPlatform so the rest of the package (emulator, renderers,
// codec, export pipeline) stays fully portable and testable off Windows.
// Only capture construction is platform-gated.
type genericConsoleAdapter struct{}

// newConsoleAdapter returns the platform's ConsoleAdapter implementation.
func newConsoleAdapter() (ConsoleAdapter, error) {
	return genericConsoleAdapter{}, nil
}

func (genericConsoleAdapter) WindowSize() (int, int, error) {
	return 0, 0, fmt.Errorf("%w: no console adapter on this platform", ErrPlatform)
}

func (genericConsoleAdapter) Capture() (*GridSnapshot, error) {
	return nil, fmt.Errorf("%w: no console adapter on this platform", ErrPlatform)
}

func (genericConsoleAdapter) EnableVTOutput() error {
	return fmt.Errorf("%w: no console adapter on this platform", ErrPlatform)
}
