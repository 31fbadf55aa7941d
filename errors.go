package conrec

import "errors"

// Sentinel errors for the conditions named in the package's error model.
// Callers distinguish them with errors.Is; call sites wrap them with
// fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrConsoleUnavailable means the console handle is missing or does
	// not refer to a console (e.g. output is redirected to a file).
	ErrConsoleUnavailable = errors.New("console unavailable")
	// ErrFormat means a recording's header or an event record is malformed
	// or carries an unsupported version.
	ErrFormat = errors.New("malformed recording format")
	// ErrIO wraps a read/write failure on a recording file.
	ErrIO = errors.New("recording io error")
	// ErrExport means an export operation failed: unsupported format,
	// missing muxer, or a muxer that exited non-zero.
	ErrExport = errors.New("export failed")
	// ErrPlatform means capture was invoked on a platform without a
	// console adapter implementation.
	ErrPlatform = errors.New("platform not supported")
	// ErrUsage means the CLI was invoked with invalid arguments.
	ErrUsage = errors.New("usage error")
)
