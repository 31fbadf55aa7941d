package conrec

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// VideoFormat names a muxer output container/codec combination.
type VideoFormat string

const (
	VideoGIF  VideoFormat = "gif"
	VideoMP4  VideoFormat = "mp4"
	VideoWebM VideoFormat = "webm"
)

// muxerPath resolves the ffmpeg-compatible binary: FFMPEG_PATH overrides
// a PATH lookup.
func muxerPath() (string, error) {
	if p := os.Getenv("FFMPEG_PATH"); p != "" {
		return p, nil
	}
	p, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: no muxer found (set FFMPEG_PATH or install ffmpeg): %v", ErrExport, err)
	}
	return p, nil
}

// MuxFrames invokes the muxer over framesDir (a directory of sequentially
// numbered frame-%06d.ppm files) at fps frames per second, producing
// outPath in format. Muxer stderr is surfaced verbatim on failure.
func MuxFrames(framesDir, outPath string, format VideoFormat, fps int) error {
	bin, err := muxerPath()
	if err != nil {
		return err
	}
	pattern := filepath.Join(framesDir, "frame-%06d.ppm")

	switch format {
	case VideoGIF:
		return muxGIF(bin, pattern, outPath, fps)
	case VideoMP4:
		return runMuxer(bin,
			"-y", "-framerate", fmt.Sprint(fps), "-i", pattern,
			"-c:v", "libx264", "-pix_fmt", "yuv420p", "-movflags", "+faststart",
			outPath)
	case VideoWebM:
		return runMuxer(bin,
			"-y", "-framerate", fmt.Sprint(fps), "-i", pattern,
			"-c:v", "libvpx-vp9",
			outPath)
	default:
		return fmt.Errorf("%w: unsupported video format %q", ErrExport, format)
	}
}

// muxGIF performs the required two-pass palette optimization: a palette
// is generated from every frame, then every frame is mapped through it.
func muxGIF(bin, pattern, outPath string, fps int) error {
	dir, err := os.MkdirTemp("", "conrec-palette-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	defer os.RemoveAll(dir)
	palettePath := filepath.Join(dir, "palette.png")

	if err := runMuxer(bin,
		"-y", "-framerate", fmt.Sprint(fps), "-i", pattern,
		"-vf", "palettegen",
		palettePath,
	); err != nil {
		return err
	}

	return runMuxer(bin,
		"-y", "-framerate", fmt.Sprint(fps), "-i", pattern, "-i", palettePath,
		"-lavfi", "paletteuse",
		outPath,
	)
}

func runMuxer(bin string, args ...string) error {
	cmd := exec.Command(bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrExport, err, stderr.String())
	}
	return nil
}
