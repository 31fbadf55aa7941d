package conrec

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestWriterAndReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{Width: 80, Height: 24, Title: "demo"})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteEvent(Event{Time: 0.1, Kind: EventOutput, Data: "hello"}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if err := w.WriteEvent(Event{Time: 0.2, Kind: EventResize, Data: "80x24"}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Header().Width != 80 || r.Header().Height != 24 || r.Header().Title != "demo" {
		t.Fatalf("unexpected header: %+v", r.Header())
	}

	ev, err := r.Next()
	if err != nil || ev.Kind != EventOutput || ev.Data != "hello" {
		t.Fatalf("unexpected first event: %+v, err=%v", ev, err)
	}
	ev, err = r.Next()
	if err != nil || ev.Kind != EventResize || ev.Data != "80x24" {
		t.Fatalf("unexpected second event: %+v, err=%v", ev, err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestWriterRefusesWriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, Header{Width: 1, Height: 1})
	w.Close()
	if err := w.WriteEvent(Event{Time: 0, Kind: EventOutput, Data: "x"}); err == nil {
		t.Fatal("expected error writing after close")
	}
}

func TestReaderSkipsMalformedLines(t *testing.T) {
	body := `{"version":2,"width":1,"height":1}
not json at all
[0.1, "o", "ok"]
{"an": "object, not an array"}
[0.2, "m", "marker"]
`
	r, err := NewReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	ev, err := r.Next()
	if err != nil || ev.Data != "ok" {
		t.Fatalf("expected first valid event, got %+v err=%v", ev, err)
	}
	ev, err = r.Next()
	if err != nil || ev.Data != "marker" {
		t.Fatalf("expected second valid event, got %+v err=%v", ev, err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestReaderRejectsUnsupportedVersion(t *testing.T) {
	_, err := NewReader(strings.NewReader(`{"version":1,"width":1,"height":1}` + "\n"))
	if err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestReaderInfoComputesDurationFromLastEvent(t *testing.T) {
	body := `{"version":2,"width":1,"height":1}
[0.5, "o", "a"]
[1.5, "o", "b"]
`
	r, _ := NewReader(strings.NewReader(body))
	info, err := r.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.EventCount != 2 {
		t.Errorf("expected 2 events, got %d", info.EventCount)
	}
	if info.Duration != 1.5 {
		t.Errorf("expected duration 1.5, got %v", info.Duration)
	}
}
