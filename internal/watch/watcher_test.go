package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func bootstrapped(t *testing.T, opts Options) *Poller {
	t.Helper()
	p := NewPoller(opts)
	if err := p.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return p
}

func poll(t *testing.T, p *Poller, at time.Time) []Recording {
	t.Helper()
	ready, err := p.Poll(at)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	return ready
}

func TestPollerReportsNewRecordingAfterSettle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "existing.mp4"), "old")
	p := bootstrapped(t, Options{Root: dir, Settle: time.Second})

	now := time.Now()
	if ready := poll(t, p, now); len(ready) != 0 {
		t.Fatalf("existing recordings must be skipped, got %v", ready)
	}

	take := filepath.Join(dir, "take.mp4")
	writeFile(t, take, "new")
	if ready := poll(t, p, now.Add(100*time.Millisecond)); len(ready) != 0 {
		t.Fatalf("recording must settle first, got %v", ready)
	}
	ready := poll(t, p, now.Add(2*time.Second))
	if len(ready) != 1 || ready[0].Path != take || ready[0].Reason != ReasonNew || ready[0].Project != "" {
		t.Fatalf("unexpected ready list: %#v", ready)
	}
	if ready := poll(t, p, now.Add(3*time.Second)); len(ready) != 0 {
		t.Fatalf("recording must be reported once, got %v", ready)
	}
}

func TestPollerReportsRewrittenRecording(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "take.mov")
	writeFile(t, f, "a")
	p := bootstrapped(t, Options{Root: dir, Format: "mov", Settle: 500 * time.Millisecond})

	base := time.Now()
	writeFile(t, f, "changed-content")
	if ready := poll(t, p, base.Add(100*time.Millisecond)); len(ready) != 0 {
		t.Fatalf("expected no ready recording before settle")
	}
	ready := poll(t, p, base.Add(2*time.Second))
	if len(ready) != 1 || ready[0].Path != f || ready[0].Reason != ReasonModified {
		t.Fatalf("expected modified recording once, got %#v", ready)
	}
}

func TestPollerReexportsWhenProjectSaved(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "talk.mp4")
	writeFile(t, video, "video")
	p := bootstrapped(t, Options{Root: dir, Settle: 200 * time.Millisecond})

	projectPath := filepath.Join(dir, "talk.videocut.json")
	writeFile(t, projectPath, `{"input":"talk.mp4","removed":[]}`)

	now := time.Now()
	if ready := poll(t, p, now); len(ready) != 0 {
		t.Fatalf("project change must settle first, got %v", ready)
	}
	ready := poll(t, p, now.Add(time.Second))
	if len(ready) != 1 || ready[0].Reason != ReasonProject || ready[0].Project != projectPath {
		t.Fatalf("expected project-triggered export, got %#v", ready)
	}
}

func TestPollerIgnoresEditedOutputsAndOtherFiles(t *testing.T) {
	dir := t.TempDir()
	p := bootstrapped(t, Options{Root: dir, Settle: 100 * time.Millisecond})

	for _, name := range []string{"clip_edited_2026-10-14.mp4", "notes.txt", "take.mkv"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	now := time.Now()
	poll(t, p, now)
	ready := poll(t, p, now.Add(time.Second))
	if len(ready) != 1 || filepath.Base(ready[0].Path) != "take.mkv" {
		t.Fatalf("expected only the raw recording, got %#v", ready)
	}
}

func TestPollerRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "day1")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	flat := bootstrapped(t, Options{Root: dir, Settle: time.Millisecond})
	deep := bootstrapped(t, Options{Root: dir, Recursive: true, Settle: time.Millisecond})
	writeFile(t, filepath.Join(sub, "a.mp4"), "x")

	now := time.Now()
	poll(t, flat, now)
	poll(t, deep, now)
	if ready := poll(t, flat, now.Add(time.Second)); len(ready) != 0 {
		t.Fatalf("flat watcher must ignore sub directories, got %v", ready)
	}
	if ready := poll(t, deep, now.Add(time.Second)); len(ready) != 1 {
		t.Fatalf("recursive watcher must see sub directories, got %v", ready)
	}
}

func TestPollerRejectsFileRoot(t *testing.T) {
	f := filepath.Join(t.TempDir(), "a.mp4")
	writeFile(t, f, "x")
	var engine Engine = NewPoller(Options{Root: f})
	if err := engine.Bootstrap(); err == nil {
		t.Fatalf("expected error for non-directory root")
	}
	if engine.Mode() != "polling" || engine.Events() != nil {
		t.Fatalf("unexpected polling engine metadata")
	}
}

func TestEventWatcherSignalsOnNewRecording(t *testing.T) {
	dir := t.TempDir()
	engine, err := New(Options{Root: dir, Settle: time.Millisecond})
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer engine.Close()
	if err := engine.Bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if engine.Mode() != "event+polling" {
		t.Fatalf("unexpected mode %s", engine.Mode())
	}

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "take.mp4"), "x")
	select {
	case <-engine.Events():
	case <-time.After(5 * time.Second):
		t.Fatalf("expected a file event")
	}
}
