package media

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	if got := DetectFormat("/tmp/Klip.MP4"); got != "mp4" {
		t.Fatalf("unexpected format: %s", got)
	}
	if !IsVideoFile("a.mkv") {
		t.Fatalf("mkv must be a video file")
	}
	if IsVideoFile("notes.txt") {
		t.Fatalf("txt must not be a video file")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{raw: "30/1", want: 30},
		{raw: "30000/1001", want: 29.97002997},
		{raw: "25", want: 25},
		{raw: "24/1\n", want: 24},
	}
	for _, tc := range tests {
		got, err := ParseFrameRate(tc.raw)
		if err != nil {
			t.Fatalf("ParseFrameRate(%q) error: %v", tc.raw, err)
		}
		if math.Abs(got-tc.want) > 1e-6 {
			t.Fatalf("ParseFrameRate(%q) = %.6f, want %.6f", tc.raw, got, tc.want)
		}
	}
	if _, err := ParseFrameRate("0/0"); err == nil {
		t.Fatalf("expected error for 0/0")
	}
}

func TestProberDuration(t *testing.T) {
	var gotArgs []string
	p := &Prober{
		FFprobePath: "ffprobe",
		Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotArgs = args
			return []byte("12.480000\n"), nil
		},
	}
	d, err := p.Duration(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 12.48 {
		t.Fatalf("unexpected duration: %.3f", d)
	}
	if gotArgs[len(gotArgs)-1] != "in.mp4" {
		t.Fatalf("input must be the last argument: %v", gotArgs)
	}
}

func TestProberDurationRejectsGarbage(t *testing.T) {
	p := &Prober{
		FFprobePath: "ffprobe",
		Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("N/A\n"), nil
		},
	}
	if _, err := p.Duration(context.Background(), "in.mp4"); err == nil {
		t.Fatalf("expected error for N/A duration")
	}
}

func TestProberPropagatesRunError(t *testing.T) {
	p := &Prober{
		FFprobePath: "ffprobe",
		Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("no such file"), errors.New("exit status 1")
		},
	}
	_, err := p.FrameRate(context.Background(), "missing.mp4")
	if err == nil || !strings.Contains(err.Error(), "no such file") {
		t.Fatalf("expected ffprobe output in error, got %v", err)
	}
}

func TestFindFFmpegExplicitMissing(t *testing.T) {
	_, err := FindFFmpeg("/definitely/not/here/ffmpeg")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
