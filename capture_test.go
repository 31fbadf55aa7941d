package conrec

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// fakeConsoleAdapter serves a scripted sequence of snapshots, cycling on
// the last one once exhausted, for deterministic capture tests.
type fakeConsoleAdapter struct {
	snapshots []*GridSnapshot
	i         int
	width     int
	height    int
}

func (f *fakeConsoleAdapter) WindowSize() (int, int, error) {
	return f.width, f.height, nil
}

func (f *fakeConsoleAdapter) Capture() (*GridSnapshot, error) {
	if len(f.snapshots) == 0 {
		return NewGridSnapshot(f.width, f.height), nil
	}
	idx := f.i
	if idx >= len(f.snapshots) {
		idx = len(f.snapshots) - 1
	} else {
		f.i++
	}
	return f.snapshots[idx], nil
}

func (f *fakeConsoleAdapter) EnableVTOutput() error { return nil }

// goneInputAdapter additionally implements InputPoller, reporting that
// the console has gone away on its very first poll.
type goneInputAdapter struct {
	fakeConsoleAdapter
}

func (g *goneInputAdapter) PendingInputEvents() (int, error) {
	return 0, ErrConsoleUnavailable
}

func TestCaptureInteractiveModeStopsWhenConsoleGoesAway(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.cast")
	adapter := &goneInputAdapter{fakeConsoleAdapter{width: 5, height: 1}}

	cap, _ := newCaptureWithAdapter(adapter, Config{SampleInterval: 40 * time.Millisecond})
	if err := cap.Start(path, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !cap.stopRequested.Load() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !cap.stopRequested.Load() {
		t.Fatal("expected the input watcher to request a stop once the console is unavailable")
	}
	cap.Stop()
}

// TestCaptureCommandModeDrainsAfterChildExit exercises command mode end
// to end: the child process (a re-exec of this test binary, told to run
// nothing and exit immediately) is waited on exactly once, from within
// sample()'s own goroutine, and Wait blocks until the trailing drain
// window has fully run before Stop is called - the sequence
// cmd/conrec/main.go's runRec relies on to avoid racing os/exec's
// single-Wait contract.
func TestCaptureCommandModeDrainsAfterChildExit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.cast")
	adapter := &fakeConsoleAdapter{width: 5, height: 1}

	cap, _ := newCaptureWithAdapter(adapter, Config{SampleInterval: 20 * time.Millisecond})

	cmd := exec.Command(os.Args[0], "-test.run=^$")
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting helper process: %v", err)
	}

	if err := cap.Start(path, cmd); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		cap.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after child exit and drain window")
	}

	if err := cap.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if cap.State() != CaptureStopped {
		t.Fatalf("expected Stopped, got %v", cap.State())
	}
}

func TestCaptureStartWritesHeaderAndStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.cast")

	snap1 := NewGridSnapshot(10, 2)
	snap1.set(0, 0, StyledCell{Glyph: 'a'})
	adapter := &fakeConsoleAdapter{width: 10, height: 2, snapshots: []*GridSnapshot{snap1}}

	cap, err := newCaptureWithAdapter(adapter, Config{Title: "t", SampleInterval: 35 * time.Millisecond})
	if err != nil {
		t.Fatalf("newCaptureWithAdapter: %v", err)
	}
	if cap.State() != CaptureIdle {
		t.Fatalf("expected Idle, got %v", cap.State())
	}
	if err := cap.Start(path, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if cap.State() != CaptureRecording {
		t.Fatalf("expected Recording, got %v", cap.State())
	}

	time.Sleep(80 * time.Millisecond)

	if err := cap.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if cap.State() != CaptureStopped {
		t.Fatalf("expected Stopped, got %v", cap.State())
	}

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()
	if r.Header().Width != 10 || r.Header().Height != 2 || r.Header().Title != "t" {
		t.Errorf("unexpected header: %+v", r.Header())
	}
}

func TestCaptureRefusesDoubleStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.cast")
	adapter := &fakeConsoleAdapter{width: 5, height: 1}

	cap, _ := newCaptureWithAdapter(adapter, Config{SampleInterval: 40 * time.Millisecond})
	if err := cap.Start(path, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer cap.Stop()

	if err := cap.Start(path, nil); !errors.Is(err, ErrUsage) {
		t.Errorf("expected ErrUsage on double start, got %v", err)
	}
}

func TestCapturePauseResumeSkipsSamples(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.cast")
	adapter := &fakeConsoleAdapter{width: 5, height: 1}

	cap, _ := newCaptureWithAdapter(adapter, Config{SampleInterval: 40 * time.Millisecond})
	if err := cap.Start(path, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := cap.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if cap.State() != CapturePaused {
		t.Fatalf("expected Paused, got %v", cap.State())
	}
	if err := cap.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if cap.State() != CaptureRecording {
		t.Fatalf("expected Recording, got %v", cap.State())
	}
	cap.Stop()
}

func TestCaptureMarkRequiresActiveState(t *testing.T) {
	adapter := &fakeConsoleAdapter{width: 5, height: 1}
	cap, _ := newCaptureWithAdapter(adapter, Config{})

	if err := cap.Mark("m1"); !errors.Is(err, ErrUsage) {
		t.Errorf("expected ErrUsage marking before start, got %v", err)
	}
}

func TestCaptureStartRefusesExistingFileWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.cast")
	if err := os.WriteFile(path, []byte("existing"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	adapter := &fakeConsoleAdapter{width: 5, height: 1}
	cap, _ := newCaptureWithAdapter(adapter, Config{})

	if err := cap.Start(path, nil); err == nil {
		t.Fatal("expected error starting capture over an existing file")
	}
}
