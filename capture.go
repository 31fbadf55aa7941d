package conrec

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"time"
)

// CaptureState is a capture engine's position in its state machine:
// Idle -> Recording <-> Paused -> Stopped. Stopped is terminal.
type CaptureState int32

const (
	CaptureIdle CaptureState = iota
	CaptureRecording
	CapturePaused
	CaptureStopped
)

// minSampleInterval is the floor spec places on the sampling cadence.
const minSampleInterval = 33 * time.Millisecond

// Config configures a Capture engine.
type Config struct {
	Title           string
	Command         string
	IdleCap         time.Duration
	SampleInterval  time.Duration
	CapturedEnvKeys []string
}

func (c Config) sampleInterval() time.Duration {
	if c.SampleInterval < minSampleInterval {
		return minSampleInterval
	}
	return c.SampleInterval
}

// Capture drives a ConsoleAdapter on a fixed cadence, writing an event
// stream of the resulting diffs. Its sampler goroutine and the calling
// goroutine communicate only via atomics: paused is written only by the
// caller and read by the sampler; stopRequested is set by the caller, by
// the interactive-mode input watcher, or by the sampler itself after a
// write error; pendingMark is a single-slot mailbox the sampler drains on
// its next tick. No mutex
// guards capture's cross-goroutine signaling, so the "never held across
// an I/O call" rule is true by construction.
type Capture struct {
	console ConsoleAdapter
	cfg     Config

	state atomic.Int32

	stopRequested atomic.Bool
	paused        atomic.Bool
	pendingMark   atomic.Value // string, "" means none pending

	writer       *Writer
	startMono    time.Time
	lastSnapshot *GridSnapshot
	lastEventT   float64

	done chan struct{}
	err  error
}

// NewCapture constructs a Capture using the platform's console adapter.
// Construction surfaces ErrPlatform or ErrConsoleUnavailable immediately,
// per spec's failure model.
func NewCapture(cfg Config) (*Capture, error) {
	console, err := newConsoleAdapter()
	if err != nil {
		return nil, err
	}
	if _, _, err := console.WindowSize(); err != nil {
		return nil, err
	}
	return newCaptureWithAdapter(console, cfg)
}

// newCaptureWithAdapter builds a Capture around an already-constructed
// adapter, letting tests substitute a fake ConsoleAdapter.
func newCaptureWithAdapter(console ConsoleAdapter, cfg Config) (*Capture, error) {
	c := &Capture{console: console, cfg: cfg, done: make(chan struct{})}
	c.state.Store(int32(CaptureIdle))
	c.pendingMark.Store("")
	return c, nil
}

// State returns the engine's current state.
func (c *Capture) State() CaptureState { return CaptureState(c.state.Load()) }

// Start opens path, writes the header from the current console window
// size and captured environment, and launches the sampler. Interactive
// mode: pass a nil cmd. Command mode: pass a launched *exec.Cmd; the
// engine stops after it exits plus a three-sample-interval drain window.
func (c *Capture) Start(path string, cmd *exec.Cmd) error {
	if c.State() != CaptureIdle {
		return fmt.Errorf("%w: capture already started", ErrUsage)
	}
	cols, rows, err := c.console.WindowSize()
	if err != nil {
		return err
	}
	if err := c.console.EnableVTOutput(); err != nil {
		return err
	}

	w, err := CreateFile(path, Header{
		Width:         cols,
		Height:        rows,
		IdleTimeLimit: c.cfg.IdleCap.Seconds(),
		Title:         c.cfg.Title,
		Command:       c.cfg.Command,
		Env:           captureEnv(c.cfg.CapturedEnvKeys),
	}, false)
	if err != nil {
		return err
	}
	c.writer = w
	c.startMono = time.Now()
	c.state.Store(int32(CaptureRecording))

	go c.sample(cmd)
	if cmd == nil {
		go c.watchInput()
	}
	return nil
}

// watchInput is the interactive-mode input watcher: a 50ms non-blocking
// poll of the console's pending input events, implementing spec's Open
// Question 1 resolution. Its only observable effect today is detecting
// that the controlling console has gone away (PendingInputEvents wraps
// ErrConsoleUnavailable) and requesting a stop so sample() exits instead
// of polling a dead handle forever; platforms without InputPoller skip
// the watch entirely.
func (c *Capture) watchInput() {
	poller, ok := c.console.(InputPoller)
	if !ok {
		return
	}
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if c.stopRequested.Load() || c.State() == CaptureStopped {
			return
		}
		if _, err := poller.PendingInputEvents(); err != nil && errors.Is(err, ErrConsoleUnavailable) {
			c.stopRequested.Store(true)
			return
		}
	}
}

// Wait blocks until the sampler goroutine exits on its own: in command
// mode, after the child exits and the three-sample-interval drain window
// completes; in interactive mode, only once something else (Stop, or
// watchInput noticing the console is gone) requests a stop. Command-mode
// callers should call Wait before Stop so the drain window in sample()
// runs to completion instead of being cut short by stopRequested, and so
// the child process is waited on exactly once, from sample()'s own
// goroutine, rather than racing a second concurrent cmd.Wait call.
func (c *Capture) Wait() {
	<-c.done
}

// Pause flips Recording -> Paused; the sampling cadence continues but
// samples are skipped.
func (c *Capture) Pause() error {
	if c.State() != CaptureRecording {
		return fmt.Errorf("%w: pause requires Recording state", ErrUsage)
	}
	c.paused.Store(true)
	c.state.Store(int32(CapturePaused))
	return nil
}

// Resume flips Paused -> Recording.
func (c *Capture) Resume() error {
	if c.State() != CapturePaused {
		return fmt.Errorf("%w: resume requires Paused state", ErrUsage)
	}
	c.paused.Store(false)
	c.state.Store(int32(CaptureRecording))
	return nil
}

// Mark requests a Marker event at the current offset, consumed by the
// sampler on its next tick. Permitted only in Recording or Paused.
func (c *Capture) Mark(label string) error {
	switch c.State() {
	case CaptureRecording, CapturePaused:
		c.pendingMark.Store(label)
		return nil
	default:
		return fmt.Errorf("%w: mark requires Recording or Paused state", ErrUsage)
	}
}

// Stop signals the sampler, waits up to one sample interval for the
// final tick (capped at one second total), closes the writer, and
// enters Stopped.
func (c *Capture) Stop() error {
	switch c.State() {
	case CaptureStopped:
		return nil
	case CaptureIdle:
		c.state.Store(int32(CaptureStopped))
		return nil
	}
	c.stopRequested.Store(true)
	select {
	case <-c.done:
	case <-time.After(time.Second):
	}
	c.state.Store(int32(CaptureStopped))
	if c.writer != nil {
		if err := c.writer.Close(); err != nil && c.err == nil {
			c.err = err
		}
	}
	return c.err
}

// sample is the sampler goroutine: one tick per sampleInterval, applying
// the per-tick contract from spec's capture engine section.
func (c *Capture) sample(cmd *exec.Cmd) {
	defer close(c.done)

	interval := c.cfg.sampleInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	childDone := make(chan struct{})
	if cmd != nil {
		go func() {
			cmd.Wait()
			close(childDone)
		}()
	}

	drainTicksLeft := -1 // -1 means "not draining yet"

	for {
		select {
		case <-ticker.C:
			if c.stopRequested.Load() {
				return
			}
			if drainTicksLeft == 0 {
				return
			}
			if drainTicksLeft > 0 {
				drainTicksLeft--
			}
			c.tick()
		case <-childDone:
			drainTicksLeft = 3
			childDone = nil // nil channel blocks forever: only trigger once
		}
	}
}

func (c *Capture) tick() {
	if c.paused.Load() {
		return
	}

	snap, err := c.console.Capture()
	if err != nil {
		return // ConsoleUnavailable mid-sample: log-and-continue per spec
	}

	if c.lastSnapshot != nil && (snap.Width != c.lastSnapshot.Width || snap.Height != c.lastSnapshot.Height) {
		c.writeEvent(Event{Kind: EventResize, Data: fmt.Sprintf("%dx%d", snap.Width, snap.Height)})
	}

	diff := snap.Diff(c.lastSnapshot)
	c.lastSnapshot = snap

	if mark, _ := c.pendingMark.Swap("").(string); mark != "" {
		c.writeEvent(Event{Kind: EventMarker, Data: mark})
	}

	if len(diff) == 0 {
		return
	}
	c.writeEvent(Event{Kind: EventOutput, Data: string(diff)})
}

// writeEvent computes the event's idle-capped time and appends it.
// I/O errors here are fatal per spec: the sampler goroutine records the
// error and the next Stop() call surfaces it.
func (c *Capture) writeEvent(ev Event) {
	t := time.Since(c.startMono).Seconds()
	if c.cfg.IdleCap > 0 {
		idleCap := c.cfg.IdleCap.Seconds()
		if t-c.lastEventT > idleCap {
			t = c.lastEventT + idleCap
		}
	}
	ev.Time = t
	if err := c.writer.WriteEvent(ev); err != nil {
		c.err = err
		c.stopRequested.Store(true)
		return
	}
	c.lastEventT = t
}

func captureEnv(keys []string) map[string]string {
	if len(keys) == 0 {
		return nil
	}
	env := map[string]string{}
	for _, k := range keys {
		if k == "" {
			continue // unknown/empty key names are skipped, not an error
		}
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	if len(env) == 0 {
		return nil
	}
	return env
}
