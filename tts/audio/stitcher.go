// Package audio implements MP3 segment stitching on top of ffmpeg. It is
// the only place the codec is touched; everything above it deals in opaque
// audio files.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrNoSegments is returned when Stitch is called with no input segments.
var ErrNoSegments = errors.New("no segments to stitch")

// SegmentNotFoundError reports a listed segment file that does not exist.
// Existence is checked before any decoding, so no partial output is ever
// written for this failure.
type SegmentNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *SegmentNotFoundError) Error() string {
	return fmt.Sprintf("segment not found: %s", e.Path)
}

const defaultTimeout = 2 * time.Minute

// Stitcher concatenates MP3 segments via ffmpeg, inserting silence between
// adjacent segments.
type Stitcher struct {
	binary  string
	timeout time.Duration
}

// New returns a Stitcher using the ffmpeg binary found on PATH.
func New() *Stitcher {
	return &Stitcher{binary: "ffmpeg", timeout: defaultTimeout}
}

// NewWithBinary returns a Stitcher using a specific ffmpeg binary path.
func NewWithBinary(binary string) *Stitcher {
	return &Stitcher{binary: binary, timeout: defaultTimeout}
}

// Stitch decodes each segment in order and concatenates them into one MP3
// at outputPath, with exactly pauseMs milliseconds of silence between each
// adjacent pair (none before the first or after the last segment). Parent
// directories are created as needed. A single segment is re-encoded as-is.
func (s *Stitcher) Stitch(ctx context.Context, segments []string, outputPath string, pauseMs int) error {
	if len(segments) == 0 {
		return ErrNoSegments
	}
	for _, path := range segments {
		if _, err := os.Stat(path); err != nil {
			return &SegmentNotFoundError{Path: path}
		}
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary, buildArgs(segments, outputPath, pauseMs)...)
	cmd.Stdin = strings.NewReader("")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// ffmpeg may have written a truncated file before dying.
		_ = os.Remove(outputPath)
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg timed out: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}

	log.Debug("stitched segments", "count", len(segments), "pause_ms", pauseMs, "output", outputPath)
	return nil
}

// buildArgs constructs the ffmpeg invocation. Each segment except the last
// is padded with pauseMs of trailing silence (apad), then all are joined
// with the concat filter into a single mono audio stream.
func buildArgs(segments []string, outputPath string, pauseMs int) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	for _, path := range segments {
		args = append(args, "-i", path)
	}

	if len(segments) == 1 {
		return append(args, "-codec:a", "libmp3lame", outputPath)
	}

	var filter strings.Builder
	labels := make([]string, 0, len(segments))
	pauseSec := float64(pauseMs) / 1000.0

	for i := range segments {
		in := fmt.Sprintf("[%d:a]", i)
		if pauseMs > 0 && i < len(segments)-1 {
			out := fmt.Sprintf("[p%d]", i)
			fmt.Fprintf(&filter, "%sapad=pad_dur=%.3f%s;", in, pauseSec, out)
			labels = append(labels, out)
		} else {
			labels = append(labels, in)
		}
	}
	fmt.Fprintf(&filter, "%sconcat=n=%d:v=0:a=1[out]", strings.Join(labels, ""), len(segments))

	return append(args,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-codec:a", "libmp3lame",
		outputPath,
	)
}
