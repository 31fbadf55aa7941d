// Package conrec records an interactive Windows console session into a
// portable, timestamped recording, and turns those recordings into static
// images and animated video.
//
// # Architecture
//
// The package is organized around three subsystems that share one on-disk
// event format (see [Header] and [Event]):
//
//   - Capture: [ConsoleAdapter] samples the live console buffer on a fixed
//     cadence; [Capture] turns those samples into a written recording.
//   - Emulation: [Emulator] replays the recorded ANSI byte stream back into
//     a [GridSnapshot], the same styled-cell grid the capture side produces.
//   - Rendering: [RenderSVG], [RenderFrame], and the export pipeline turn
//     a GridSnapshot (or a sequence of them) into SVG, PPM frames, video,
//     or plain text.
//
// # Quick Start
//
// Record a session:
//
//	cap, err := NewCapture(Config{Title: "demo", SampleInterval: 50 * time.Millisecond})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cap.Start("session.cast", nil); err != nil {
//	    log.Fatal(err)
//	}
//	// ... user or child process runs ...
//	cap.Stop()
//
// Replay and render it:
//
//	r, err := OpenReader("session.cast")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	emu := NewEmulator(r.Header().Width, r.Header().Height)
//	for {
//	    ev, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err) // Next skips malformed records itself; this is an I/O error
//	    }
//	    if ev.Kind == EventOutput {
//	        emu.Write([]byte(ev.Data))
//	    }
//	}
//	svg := RenderSVG(emu.Snapshot(), ThemeByName("dracula"))
//
// # Thread Safety
//
// [Capture] is safe for concurrent use between its sampler goroutine and a
// caller invoking Pause/Resume/Mark/Stop; see the package-level concurrency
// notes in capture.go. [Emulator] and the renderers are not safe for
// concurrent use — each is meant to be driven by a single goroutine for the
// duration of one emulation or render pass.
package conrec
