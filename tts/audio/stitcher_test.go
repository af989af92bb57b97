package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestStitchNoSegments(t *testing.T) {
	s := New()
	err := s.Stitch(context.Background(), nil, filepath.Join(t.TempDir(), "out.mp3"), 500)
	if !errors.Is(err, ErrNoSegments) {
		t.Errorf("Stitch() = %v, want ErrNoSegments", err)
	}
}

func TestStitchMissingSegment(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "a.mp3")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "nope.mp3")
	out := filepath.Join(dir, "out.mp3")

	s := New()
	err := s.Stitch(context.Background(), []string{present, missing}, out, 500)

	var nferr *SegmentNotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("Stitch() = %v, want *SegmentNotFoundError", err)
	}
	if nferr.Path != missing {
		t.Errorf("Path = %q, want %q", nferr.Path, missing)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output file should exist after a missing-segment failure")
	}
}

func TestStitchFailureRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	seg := filepath.Join(dir, "a.mp3")
	if err := os.WriteFile(seg, []byte("not really mp3"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.mp3")

	// "false" exists everywhere and always exits non-zero.
	s := NewWithBinary("false")
	if err := s.Stitch(context.Background(), []string{seg}, out, 0); err == nil {
		t.Fatal("Stitch() should fail when the binary fails")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("failed stitch should not leave an output file")
	}
}

func TestBuildArgsSingleSegment(t *testing.T) {
	got := buildArgs([]string{"a.mp3"}, "out.mp3", 500)
	want := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", "a.mp3",
		"-codec:a", "libmp3lame", "out.mp3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildArgs = %v, want %v", got, want)
	}
}

func TestBuildArgsMultipleSegments(t *testing.T) {
	got := buildArgs([]string{"a.mp3", "b.mp3", "c.mp3"}, "out.mp3", 500)

	filter := argAfter(t, got, "-filter_complex")
	wantFilter := "[0:a]apad=pad_dur=0.500[p0];[1:a]apad=pad_dur=0.500[p1];[p0][p1][2:a]concat=n=3:v=0:a=1[out]"
	if filter != wantFilter {
		t.Errorf("filter = %q, want %q", filter, wantFilter)
	}
	if argAfter(t, got, "-map") != "[out]" {
		t.Error("concatenated stream should be mapped to the output")
	}
	if got[len(got)-1] != "out.mp3" {
		t.Errorf("last arg = %q, want output path", got[len(got)-1])
	}
}

func TestBuildArgsZeroPause(t *testing.T) {
	got := buildArgs([]string{"a.mp3", "b.mp3"}, "out.mp3", 0)

	filter := argAfter(t, got, "-filter_complex")
	if strings.Contains(filter, "apad") {
		t.Errorf("zero pause should not pad: %q", filter)
	}
	if filter != "[0:a][1:a]concat=n=2:v=0:a=1[out]" {
		t.Errorf("filter = %q", filter)
	}
}

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("flag %q not found in %v", flag, args)
	return ""
}
