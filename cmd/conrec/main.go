package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"os/exec"
	"runtime/debug"
	"time"

	"github.com/hhsnopek/conrec"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	if os.Getenv("DEBUG") != "" {
		fmt.Fprintf(os.Stderr, "conrec: %+v\n%s", err, debug.Stack())
		return
	}
	fmt.Fprintf(os.Stderr, "conrec: %v\n", err)
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage(os.Stdout)
		return fmt.Errorf("%w: no subcommand given", conrec.ErrUsage)
	}

	switch args[0] {
	case "rec":
		return runRec(args[1:])
	case "play":
		return runPlay(args[1:], false)
	case "cat":
		return runPlay(args[1:], true)
	case "info":
		return runInfo(args[1:])
	case "export":
		return runExport(args[1:])
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return nil
	case "version":
		fmt.Println("conrec version " + version)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "conrec: unknown subcommand %q\n", args[0])
		printUsage(os.Stdout)
		return fmt.Errorf("%w: unknown subcommand %q", conrec.ErrUsage, args[0])
	}
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, `usage: conrec <command> [arguments]

commands:
  rec     record a console session to a file
  play    replay a recording to standard output
  cat     replay a recording at maximum speed
  info    print a recording's metadata
  export  convert a recording to svg/html/txt/json/gif/mp4/webm/cast
  help    show this message
  version show the version`)
}

func runRec(args []string) error {
	fs := flag.NewFlagSet("rec", flag.ContinueOnError)
	title := fs.String("title", "", "recording title")
	command := fs.String("command", "", "command to launch and record; also stored in the header")
	idleTimeLimit := fs.Float64("idle-time-limit", 0, "maximum inter-event gap in seconds, recorded in the header")
	overwrite := fs.Bool("overwrite", false, "overwrite an existing file at <path>")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: rec requires exactly one <path> argument", conrec.ErrUsage)
	}
	path := fs.Arg(0)

	if !*overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s already exists, pass --overwrite", conrec.ErrUsage, path)
		}
	} else {
		os.Remove(path)
	}

	c, err := conrec.NewCapture(conrec.Config{
		Title:   *title,
		Command: *command,
		IdleCap: time.Duration(*idleTimeLimit * float64(time.Second)),
	})
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	if *command != "" {
		cmd = exec.Command(*command)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("%w: starting %s: %v", conrec.ErrIO, *command, err)
		}
	}

	if err := c.Start(path, cmd); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "recording to %s; stops when the command exits or, without --command, when standard input is closed (Ctrl-C is not caught)\n", path)

	if cmd != nil {
		// Capture's own sampler goroutine owns cmd.Wait and the trailing
		// drain window; waiting on it here (rather than calling cmd.Wait
		// a second time) avoids racing os/exec's single-Wait contract.
		c.Wait()
	} else {
		waitForStdinClose()
	}
	return c.Stop()
}

func runPlay(args []string, rawDump bool) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	speed := fs.Float64("speed", 1.0, "playback speed factor")
	idleTimeLimit := fs.Float64("idle-time-limit", 0, "cap any single inter-event sleep, in seconds")
	pauseOnMarkers := fs.Bool("pause-on-markers", false, "pause playback on Marker events")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: play requires exactly one <path> argument", conrec.ErrUsage)
	}

	r, err := conrec.OpenReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	effectiveSpeed := *speed
	if rawDump {
		effectiveSpeed = math.Inf(1)
	}

	p := conrec.NewPlayback(r, os.Stdout, conrec.PlaybackConfig{
		Speed:          effectiveSpeed,
		IdleTimeLimit:  time.Duration(*idleTimeLimit * float64(time.Second)),
		PauseOnMarkers: *pauseOnMarkers,
	})
	if err := p.Start(); err != nil {
		return err
	}
	return p.Wait()
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print info as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: info requires exactly one <path> argument", conrec.ErrUsage)
	}

	r, err := conrec.OpenReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	info, err := r.Info()
	if err != nil {
		return err
	}

	if *asJSON {
		return printInfoJSON(info)
	}
	printInfoText(info)
	return nil
}

func printInfoText(info conrec.Info) {
	fmt.Printf("version: %d\n", info.Header.Version)
	fmt.Printf("size: %dx%d\n", info.Header.Width, info.Header.Height)
	fmt.Printf("duration: %.3fs\n", info.Duration)
	fmt.Printf("events: %d\n", info.EventCount)
	if info.Header.Title != "" {
		fmt.Printf("title: %s\n", info.Header.Title)
	}
	if info.Header.Command != "" {
		fmt.Printf("command: %s\n", info.Header.Command)
	}
	if info.Header.Timestamp != 0 {
		fmt.Printf("timestamp: %d\n", info.Header.Timestamp)
	}
	if info.Header.IdleTimeLimit != 0 {
		fmt.Printf("idle_time_limit: %.3fs\n", info.Header.IdleTimeLimit)
	}
	for k, v := range info.Header.Env {
		fmt.Printf("env[%s]: %s\n", k, v)
	}
}

func printInfoJSON(info conrec.Info) error {
	enc := struct {
		Version       int               `json:"version"`
		Width         int               `json:"width"`
		Height        int               `json:"height"`
		Duration      float64           `json:"duration"`
		EventCount    int               `json:"event_count"`
		Title         string            `json:"title,omitempty"`
		Command       string            `json:"command,omitempty"`
		Timestamp     int64             `json:"timestamp,omitempty"`
		IdleTimeLimit float64           `json:"idle_time_limit,omitempty"`
		Env           map[string]string `json:"env,omitempty"`
	}{
		Version:       info.Header.Version,
		Width:         info.Header.Width,
		Height:        info.Header.Height,
		Duration:      info.Duration,
		EventCount:    info.EventCount,
		Title:         info.Header.Title,
		Command:       info.Header.Command,
		Timestamp:     info.Header.Timestamp,
		IdleTimeLimit: info.Header.IdleTimeLimit,
		Env:           info.Header.Env,
	}
	return jsonEncodeTo(os.Stdout, enc)
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "", "output format, inferred from --output's extension when omitted")
	output := fs.String("output", "", "output file path")
	title := fs.String("title", "", "title to embed in html/cast output")
	fps := fs.Int("fps", 12, "frames per second for gif/mp4/webm export")
	theme := fs.String("theme", "asciinema", "color theme for rendered output")
	scale := fs.Float64("scale", 1.0, "scale factor applied to svg/html thumbnails")
	speed := fs.Float64("speed", 1.0, "speed factor for cast-to-cast export")
	fontPath := fs.String("font-path", "", "TrueType/OpenType font for gif/mp4/webm frame rendering, instead of the built-in bitmap glyphs")
	fontSize := fs.Float64("font-size", 16, "font size in points, used only with --font-path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: export requires exactly one <path> argument", conrec.ErrUsage)
	}
	if *output == "" {
		return fmt.Errorf("%w: export requires --output", conrec.ErrUsage)
	}

	opts := conrec.ExportOptions{
		Format:     *format,
		OutputPath: *output,
		Title:      *title,
		FPS:        *fps,
		Theme:      conrec.ThemeByName(*theme),
		Position:   conrec.PositionLast,
		Speed:      *speed,
		FontPath:   *fontPath,
		FontSize:   *fontSize,
	}
	if *scale != 1.0 {
		opts.PixelWidth = int(float64(80*8) * *scale)
		opts.PixelHeight = int(float64(24*16+24) * *scale)
	}
	return conrec.Export(fs.Arg(0), opts)
}

// waitForStdinClose blocks the interactive-mode recording until stdin
// closes (e.g. Ctrl-D) or errors, giving the user a way to end the
// session deliberately without a child process to wait on.
func waitForStdinClose() {
	sig := make(chan struct{})
	go func() {
		var buf [1]byte
		for {
			if _, err := os.Stdin.Read(buf[:]); err != nil {
				break
			}
		}
		close(sig)
	}()
	<-sig
}

func jsonEncodeTo(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
