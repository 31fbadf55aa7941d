package conrec

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"
)

// PlaybackState is a playback clock's position in its state machine:
// Idle -> Playing <-> Paused -> Stopped. Stopped is terminal.
type PlaybackState int32

const (
	PlaybackIdle PlaybackState = iota
	PlaybackPlaying
	PlaybackPaused
	PlaybackStopped
)

// sleepQuantum bounds how long a single interruptible sleep waits before
// re-checking the stop/pause flags, so Stop and Pause take effect within
// one quantum rather than blocking for an entire inter-event gap.
const sleepQuantum = 50 * time.Millisecond

// PlaybackConfig configures a Playback clock.
type PlaybackConfig struct {
	// Speed is the playback speed factor; events replay (t_i-t_(i-1))/Speed
	// apart. Speed of +Inf disables sleeping entirely (raw-dump mode).
	// Zero or negative defaults to 1.0.
	Speed float64
	// IdleTimeLimit, if positive, caps any single inter-event sleep.
	IdleTimeLimit time.Duration
	// PauseOnMarkers enters Paused on every Marker event and waits for an
	// external Resume call before continuing.
	PauseOnMarkers bool
}

func (c PlaybackConfig) speed() float64 {
	if c.Speed <= 0 {
		return 1.0
	}
	return c.Speed
}

// Playback replays a recording's Output events to an io.Writer, paced by
// the recording's timestamps. Like Capture, its state machine is driven
// entirely by atomics so the player goroutine and the controlling
// goroutine never need a mutex held across an I/O call.
type Playback struct {
	reader *Reader
	out    io.Writer
	cfg    PlaybackConfig

	state atomic.Int32

	stopRequested atomic.Bool
	paused        atomic.Bool
	resumeCh      chan struct{}

	done chan struct{}
	err  error
}

// NewPlayback builds a Playback clock over r, writing Output event
// payloads to out.
func NewPlayback(r *Reader, out io.Writer, cfg PlaybackConfig) *Playback {
	p := &Playback{reader: r, out: out, cfg: cfg, done: make(chan struct{}), resumeCh: make(chan struct{}, 1)}
	p.state.Store(int32(PlaybackIdle))
	return p
}

// State returns the clock's current state.
func (p *Playback) State() PlaybackState { return PlaybackState(p.state.Load()) }

// Start launches the player goroutine. Start returns immediately; use
// Wait to block until playback finishes.
func (p *Playback) Start() error {
	if p.State() != PlaybackIdle {
		return fmt.Errorf("%w: playback already started", ErrUsage)
	}
	p.state.Store(int32(PlaybackPlaying))
	go p.run()
	return nil
}

// Pause flips Playing -> Paused, freezing the clock mid-sleep.
func (p *Playback) Pause() error {
	if p.State() != PlaybackPlaying {
		return fmt.Errorf("%w: pause requires Playing state", ErrUsage)
	}
	p.paused.Store(true)
	p.state.Store(int32(PlaybackPaused))
	return nil
}

// Resume flips Paused -> Playing, whether paused by the caller or by a
// PauseOnMarkers marker event.
func (p *Playback) Resume() error {
	if p.State() != PlaybackPaused {
		return fmt.Errorf("%w: resume requires Paused state", ErrUsage)
	}
	p.paused.Store(false)
	p.state.Store(int32(PlaybackPlaying))
	select {
	case p.resumeCh <- struct{}{}:
	default:
	}
	return nil
}

// Stop requests the player goroutine to exit at its next sleep quantum
// and blocks until it has.
func (p *Playback) Stop() error {
	switch p.State() {
	case PlaybackStopped:
		return nil
	case PlaybackIdle:
		p.state.Store(int32(PlaybackStopped))
		return nil
	}
	p.stopRequested.Store(true)
	select {
	case p.resumeCh <- struct{}{}:
	default:
	}
	<-p.done
	p.state.Store(int32(PlaybackStopped))
	return p.err
}

// Wait blocks until playback completes (naturally, or via Stop).
func (p *Playback) Wait() error {
	<-p.done
	return p.err
}

func (p *Playback) run() {
	defer close(p.done)
	defer p.state.Store(int32(PlaybackStopped))

	var lastT float64
	first := true

	for {
		if p.stopRequested.Load() {
			return
		}
		ev, err := p.reader.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			p.err = err
			return
		}

		if !first {
			if err := p.sleepFor(ev.Time - lastT); err != nil {
				p.err = err
				return
			}
		}
		first = false
		lastT = ev.Time

		if p.stopRequested.Load() {
			return
		}

		switch ev.Kind {
		case EventOutput:
			if _, err := io.WriteString(p.out, ev.Data); err != nil {
				p.err = fmt.Errorf("%w: %v", ErrIO, err)
				return
			}
		case EventMarker:
			if p.cfg.PauseOnMarkers {
				p.paused.Store(true)
				p.state.Store(int32(PlaybackPaused))
				p.waitForResume()
			}
		case EventResize, EventInput:
			// not replayed to stdout; playback renders output only
		}
	}
}

func (p *Playback) waitForResume() {
	for {
		select {
		case <-p.resumeCh:
			if p.stopRequested.Load() {
				return
			}
			if !p.paused.Load() {
				return
			}
		case <-time.After(sleepQuantum):
			if p.stopRequested.Load() {
				return
			}
		}
	}
}

// sleepFor sleeps delta seconds scaled by the configured speed, clamped
// to IdleTimeLimit if set, in sleepQuantum-sized interruptible chunks so
// Pause/Stop take effect promptly. Speed of +Inf skips sleeping entirely.
func (p *Playback) sleepFor(delta float64) error {
	speed := p.cfg.speed()
	if math.IsInf(speed, 1) {
		return nil
	}
	if delta < 0 {
		delta = 0
	}
	wait := time.Duration(delta / speed * float64(time.Second))
	if p.cfg.IdleTimeLimit > 0 && wait > p.cfg.IdleTimeLimit {
		wait = p.cfg.IdleTimeLimit
	}

	deadline := time.Now().Add(wait)
	for {
		if p.stopRequested.Load() {
			return nil
		}
		if p.paused.Load() {
			pausedAt := time.Now()
			for p.paused.Load() {
				select {
				case <-p.resumeCh:
				case <-time.After(sleepQuantum):
				}
				if p.stopRequested.Load() {
					return nil
				}
			}
			deadline = deadline.Add(time.Since(pausedAt))
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		quantum := sleepQuantum
		if remaining < quantum {
			quantum = remaining
		}
		time.Sleep(quantum)
	}
}
