package cmd

import (
	"errors"
	"testing"

	"github.com/mlihgenel/videocut-cli/internal/config"
	"github.com/mlihgenel/videocut-cli/internal/installer"
)

func TestBuildDoctorReportIncludesWorker(t *testing.T) {
	cfg := config.Default()
	cfg.Transcribe.WorkerCommand = "python3"
	withConfig(t, cfg)

	lookPath := func(file string) (string, error) {
		switch file {
		case "ffmpeg", "ffprobe", "python3":
			return "/opt/bin/" + file, nil
		}
		return "", errors.New("not found")
	}
	report := buildDoctorReport(lookPath)
	if len(report.Tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(report.Tools))
	}
	if report.Tools[0].Tool != installer.ToolFFmpeg || !report.Tools[0].Found {
		t.Fatalf("ffmpeg must be found: %+v", report.Tools[0])
	}
	if report.Tools[1].Found {
		t.Fatalf("whisper must be missing: %+v", report.Tools[1])
	}
	if report.Worker == nil || !report.Worker.Found || report.Worker.Path != "/opt/bin/python3" {
		t.Fatalf("unexpected worker status: %+v", report.Worker)
	}
}
