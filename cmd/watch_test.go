package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
	cutwatch "github.com/mlihgenel/videocut-cli/internal/watch"
)

func resetWatchFlags(t *testing.T) {
	t.Helper()
	prevEdits, prevCodec, prevQuality, prevOutput := watchEdits, watchCodec, watchQuality, outputDir
	t.Cleanup(func() {
		watchEdits, watchCodec, watchQuality, outputDir = prevEdits, prevCodec, prevQuality, prevOutput
	})
	watchEdits = editFlags{Remove: "0-3"}
	watchCodec = export.CodecAuto
	watchQuality = 0
	outputDir = ""
}

func TestValidateWatchTiming(t *testing.T) {
	if err := validateWatchTiming(2*time.Second, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, interval := range []time.Duration{0, -time.Second} {
		if err := validateWatchTiming(interval, time.Second); err == nil {
			t.Fatalf("interval %s must be rejected", interval)
		}
	}
	if err := validateWatchTiming(time.Second, -time.Second); err == nil {
		t.Fatalf("negative settle must be rejected")
	}
}

func TestResolveWatchTarget(t *testing.T) {
	if got, err := resolveWatchTarget(""); err != nil || got != "" {
		t.Fatalf("empty target must keep the source format, got %q %v", got, err)
	}
	if got, err := resolveWatchTarget(".MKV"); err != nil || got != "mkv" {
		t.Fatalf("expected mkv, got %q %v", got, err)
	}
	if _, err := resolveWatchTarget("pdf"); err == nil {
		t.Fatalf("expected error for a non-video target")
	}
}

func TestBuildWatchJobsUsesTargetFormat(t *testing.T) {
	resetWatchFlags(t)
	captureOutput(t)
	video := writeTestVideo(t, t.TempDir(), "kayit.mp4")

	recordings := []cutwatch.Recording{{Path: video, Reason: cutwatch.ReasonNew}}
	jobs := buildWatchJobs(context.Background(), recordings, "mkv", export.ConflictVersioned, fixedDuration(10))
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0].Export
	if filepath.Ext(job.Output) != ".mkv" || !strings.Contains(filepath.Base(job.Output), "kayit_edited_") {
		t.Fatalf("unexpected output path: %s", job.Output)
	}
	if job.Codec != export.CodecReencode {
		t.Fatalf("format change must reencode, got %s", job.Codec)
	}
	if len(job.Segments) != 1 || job.Segments[0] != (timeline.Range{Start: 3, End: 10}) {
		t.Fatalf("unexpected segments: %v", job.Segments)
	}
}

func TestBuildWatchJobsPrefersVideoProject(t *testing.T) {
	resetWatchFlags(t)
	captureOutput(t)
	video := writeTestVideo(t, t.TempDir(), "kayit.mp4")
	proj := writeTestProject(t, video, 10, timeline.Range{Start: 2, End: 4})

	recordings := []cutwatch.Recording{{Path: video, Project: proj, Reason: cutwatch.ReasonProject}}
	jobs := buildWatchJobs(context.Background(), recordings, "", export.ConflictVersioned, fixedDuration(10))
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	want := []timeline.Range{{Start: 0, End: 2}, {Start: 4, End: 10}}
	got := jobs[0].Export.Segments
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("project edits must win over the template: %v", got)
	}
	if filepath.Ext(jobs[0].Export.Output) != ".mp4" {
		t.Fatalf("empty target must keep the source format: %s", jobs[0].Export.Output)
	}
}
