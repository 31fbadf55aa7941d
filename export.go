package conrec

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/font"
)

// ThumbnailPosition names a semantic point in a recording's timeline for
// still-frame export.
type ThumbnailPosition string

const (
	PositionFirst    ThumbnailPosition = "first"
	PositionMiddle   ThumbnailPosition = "middle"
	PositionLast     ThumbnailPosition = "last"
	PositionExplicit ThumbnailPosition = "explicit"
)

// ExportOptions configures a call to Export. Format is inferred from
// OutputPath's extension when left empty.
type ExportOptions struct {
	Format     string
	OutputPath string
	Title      string
	FPS        int
	Theme      Theme

	// Position/At select the still frame for svg/html/txt/json exports.
	Position ThumbnailPosition
	At       float64

	// PixelWidth/PixelHeight, if both positive, request a scaled thumbnail
	// (svg/html only); zero means native size.
	PixelWidth, PixelHeight int

	// Speed/TrimStart/TrimEnd/IdleCap apply to cast-to-cast re-export.
	Speed     float64
	TrimStart float64
	TrimEnd   float64
	IdleCap   time.Duration

	// FontPath, if set, selects a real TrueType/OpenType font (loaded via
	// LoadFont) for gif/mp4/webm frame rendering through
	// RenderFrameWithFont, instead of the embedded bitmap glyph table
	// RenderFrame uses. FontSize defaults to 16 when FontPath is set and
	// FontSize is zero.
	FontPath string
	FontSize float64
}

// InferFormat maps outPath's extension to an export format tag.
func InferFormat(outPath string) (string, error) {
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".html":
		return "html", nil
	case ".svg":
		return "svg", nil
	case ".txt":
		return "txt", nil
	case ".json":
		return "json", nil
	case ".gif":
		return "gif", nil
	case ".mp4":
		return "mp4", nil
	case ".webm":
		return "webm", nil
	case ".cast":
		return "cast", nil
	default:
		return "", fmt.Errorf("%w: cannot infer format from %q, pass --format", ErrExport, outPath)
	}
}

// Export dispatches srcPath through the transform named by opts.Format (or
// inferred from opts.OutputPath) to produce the requested output. Failure
// never leaves a partial file at OutputPath: any output already written is
// removed before the error is returned.
func Export(srcPath string, opts ExportOptions) (err error) {
	format := opts.Format
	if format == "" {
		format, err = InferFormat(opts.OutputPath)
		if err != nil {
			return err
		}
	}

	defer func() {
		if err != nil {
			os.Remove(opts.OutputPath)
		}
	}()

	switch format {
	case "cast":
		return TransformSpeedTrimIdle(srcPath, opts.OutputPath, opts.Speed, opts.TrimStart, opts.TrimEnd, opts.IdleCap, opts.Title)
	case "gif", "mp4", "webm":
		return ExportVideo(srcPath, opts.OutputPath, VideoFormat(format), opts.FPS, opts.Theme, opts.FontPath, opts.FontSize)
	case "svg", "html", "txt", "json":
		return exportStaticFrame(srcPath, opts, format)
	default:
		return fmt.Errorf("%w: unsupported export format %q", ErrExport, format)
	}
}

func exportStaticFrame(srcPath string, opts ExportOptions, format string) error {
	header, events, err := LoadRecording(srcPath)
	if err != nil {
		return err
	}
	target := resolveTargetTime(opts.Position, opts.At, recordingDuration(header, events))

	emu := NewEmulator(header.Width, header.Height)
	for _, ev := range events {
		if ev.Time > target {
			break
		}
		switch ev.Kind {
		case EventOutput:
			emu.Write([]byte(ev.Data))
		case EventResize:
			if w, h, ok := ParseResizeDims(ev.Data); ok {
				emu.Resize(w, h)
			}
		}
	}
	snap := emu.Snapshot()

	var body string
	switch format {
	case "svg":
		body = renderSVGForExport(snap, opts)
	case "html":
		body = wrapHTML(renderSVGForExport(snap, opts), opts.Title)
	case "txt":
		body = renderText(snap)
	case "json":
		b, err := json.MarshalIndent(ToJSONSnapshot(snap), "", "  ")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
		body = string(b)
	}
	return atomicWriteFile(opts.OutputPath, []byte(body))
}

func resolveTargetTime(pos ThumbnailPosition, at, duration float64) float64 {
	switch pos {
	case PositionFirst, "":
		return 0
	case PositionMiddle:
		return duration / 2
	case PositionLast:
		return duration
	default:
		return at
	}
}

func renderSVGForExport(g *GridSnapshot, opts ExportOptions) string {
	if opts.PixelWidth > 0 && opts.PixelHeight > 0 {
		return RenderSVGThumbnail(g, opts.Theme, opts.PixelWidth, opts.PixelHeight)
	}
	return RenderSVG(g, opts.Theme)
}

func wrapHTML(svg, title string) string {
	if title == "" {
		title = "conrec recording"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>\n", xmlEscape(title))
	b.WriteString(svg)
	b.WriteString("</body></html>\n")
	return b.String()
}

func renderText(g *GridSnapshot) string {
	var b strings.Builder
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			b.WriteRune(g.At(row, col).Glyph)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TransformSpeedTrimIdle re-emits srcPath's events at t' = (t-trimStart)/speed,
// dropping events outside [trimStart, trimEnd] (trimEnd<=0 means no upper
// bound), and applies idleCap the same way the capture engine does. Header
// dimensions, timestamp, command, and env are preserved; title is replaced
// only when non-empty.
func TransformSpeedTrimIdle(srcPath, dstPath string, speed, trimStart, trimEnd float64, idleCap time.Duration, title string) error {
	if speed <= 0 {
		speed = 1.0
	}
	r, err := OpenReader(srcPath)
	if err != nil {
		return err
	}
	defer r.Close()

	header := r.Header()
	if title != "" {
		header.Title = title
	}
	if idleCap > 0 {
		header.IdleTimeLimit = idleCap.Seconds()
	}

	w, err := CreateFile(dstPath, header, false)
	if err != nil {
		return err
	}

	lastT := 0.0
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.Close()
			return err
		}
		if ev.Time < trimStart || (trimEnd > 0 && ev.Time > trimEnd) {
			continue
		}
		t := (ev.Time - trimStart) / speed
		if idleCap > 0 {
			idleCapSeconds := idleCap.Seconds()
			if t-lastT > idleCapSeconds {
				t = lastT + idleCapSeconds
			}
		}
		ev.Time = t
		if err := w.WriteEvent(ev); err != nil {
			w.Close()
			return err
		}
		lastT = t
	}
	return w.Close()
}

// Concatenate appends the recordings at paths end-to-end, separated by gap
// seconds, into outPath. Output width/height are the maxima across
// sources; at each join, a Marker labeled with the basename of the source
// that follows it is inserted mid-gap.
func Concatenate(paths []string, gap float64, outPath string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: concatenate requires at least one source", ErrUsage)
	}

	var allEvents []Event
	var maxW, maxH int
	var firstHeader Header
	offset := 0.0

	for i, path := range paths {
		header, events, err := LoadRecording(path)
		if err != nil {
			return err
		}
		if i == 0 {
			firstHeader = header
		}
		if header.Width > maxW {
			maxW = header.Width
		}
		if header.Height > maxH {
			maxH = header.Height
		}

		if i > 0 {
			offset += gap
			markerTime := offset - gap/2
			if markerTime < 0 {
				markerTime = 0
			}
			allEvents = append(allEvents, Event{Time: markerTime, Kind: EventMarker, Data: filepath.Base(path)})
		}
		for _, ev := range events {
			allEvents = append(allEvents, Event{Time: offset + ev.Time, Kind: ev.Kind, Data: ev.Data})
		}
		offset += recordingDuration(header, events)
	}

	outHeader := Header{
		Width:   maxW,
		Height:  maxH,
		Title:   firstHeader.Title,
		Command: firstHeader.Command,
		Env:     firstHeader.Env,
	}
	return WriteRecording(outPath, outHeader, allEvents)
}

// LoadRecording reads path's header and full event body into memory.
func LoadRecording(path string) (Header, []Event, error) {
	r, err := OpenReader(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer r.Close()

	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Header{}, nil, err
		}
		events = append(events, ev)
	}
	return r.Header(), events, nil
}

// WriteRecording writes header and events to path, refusing to overwrite
// an existing file.
func WriteRecording(path string, header Header, events []Event) error {
	w, err := CreateFile(path, header, false)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := w.WriteEvent(ev); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func recordingDuration(header Header, events []Event) float64 {
	if header.Duration > 0 {
		return header.Duration
	}
	if len(events) == 0 {
		return 0
	}
	return events[len(events)-1].Time
}

// ExportVideo renders srcPath frame-by-frame at fps and feeds the
// resulting PPM sequence through the muxer to produce a gif/mp4/webm at
// outPath. Every frame is rendered and hashed; a frame whose content hash
// matches the previous frame's is hard-linked to the previous frame file
// (or written out again if linking fails) instead of being written as a
// new file. When fontPath is non-empty, frames
// are drawn with that font via RenderFrameWithFont instead of the
// embedded bitmap glyph table.
func ExportVideo(srcPath, outPath string, format VideoFormat, fps int, theme Theme, fontPath string, fontSize float64) error {
	if fps <= 0 {
		fps = 12
	}
	header, events, err := LoadRecording(srcPath)
	if err != nil {
		return err
	}
	duration := recordingDuration(header, events)
	frameCount := int(duration*float64(fps)) + 1

	var face font.Face
	if fontPath != "" {
		if fontSize <= 0 {
			fontSize = 16
		}
		face, err = LoadFont(fontPath, fontSize)
		if err != nil {
			return fmt.Errorf("%w: loading font %s: %v", ErrExport, fontPath, err)
		}
	}

	dir, err := os.MkdirTemp("", "conrec-frames-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	defer os.RemoveAll(dir)

	emu := NewEmulator(header.Width, header.Height)
	idx := 0
	var prevHash [32]byte
	var prevPath string
	havePrev := false

	for frame := 0; frame < frameCount; frame++ {
		target := float64(frame) / float64(fps)
		for idx < len(events) && events[idx].Time <= target {
			switch events[idx].Kind {
			case EventOutput:
				emu.Write([]byte(events[idx].Data))
			case EventResize:
				if w, h, ok := ParseResizeDims(events[idx].Data); ok {
					emu.Resize(w, h)
				}
			}
			idx++
		}

		var rendered *Frame
		if face != nil {
			rendered = RenderFrameWithFont(emu.Snapshot(), theme, face)
		} else {
			rendered = RenderFrame(emu.Snapshot(), theme)
		}
		ppm := EncodePPM(rendered)
		hash := sha256.Sum256(ppm)
		framePath := filepath.Join(dir, fmt.Sprintf("frame-%06d.ppm", frame))

		if havePrev && hash == prevHash {
			if err := os.Link(prevPath, framePath); err != nil {
				if err := os.WriteFile(framePath, ppm, 0o644); err != nil {
					return fmt.Errorf("%w: %v", ErrExport, err)
				}
			}
		} else if err := os.WriteFile(framePath, ppm, 0o644); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}

		prevHash, prevPath, havePrev = hash, framePath, true
	}

	return MuxFrames(dir, outPath, format, fps)
}

// atomicWriteFile writes data to a temp file in the destination directory
// then renames it into place, so a failed write never leaves a partial
// file at path.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".conrec-export-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}
