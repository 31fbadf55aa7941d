package conrec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMuxerPathPrefersFFMPEGPathEnv(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "/opt/tools/ffmpeg-custom")
	p, err := muxerPath()
	if err != nil {
		t.Fatalf("muxerPath: %v", err)
	}
	if p != "/opt/tools/ffmpeg-custom" {
		t.Errorf("expected env override, got %q", p)
	}
}

func TestMuxFramesRejectsUnsupportedFormat(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "/bin/true")
	err := MuxFrames(t.TempDir(), filepath.Join(t.TempDir(), "out.mkv"), VideoFormat("mkv"), 30)
	if !errors.Is(err, ErrExport) {
		t.Fatalf("expected ErrExport, got %v", err)
	}
}

func TestRunMuxerSurfacesStderrOnFailure(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-ffmpeg.sh")
	body := "#!/bin/sh\necho 'boom: bad frame' 1>&2\nexit 1\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := runMuxer(script, "-y")
	if !errors.Is(err, ErrExport) {
		t.Fatalf("expected ErrExport, got %v", err)
	}
	if err == nil || !contains(err.Error(), "boom: bad frame") {
		t.Errorf("expected verbatim stderr in error, got %v", err)
	}
}

func TestMuxGIFRunsTwoPassPipeline(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-ffmpeg.sh")
	body := "#!/bin/sh\nfor a in \"$@\"; do\n  case \"$a\" in\n" +
		"    *.png|*.gif|*.mp4|*.webm) touch \"$a\" ;;\n  esac\ndone\nexit 0\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("FFMPEG_PATH", script)

	framesDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "out.gif")
	if err := MuxFrames(framesDir, outPath, VideoGIF, 10); err != nil {
		t.Fatalf("MuxFrames: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("expected output file to be created by fake muxer: %v", err)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}
