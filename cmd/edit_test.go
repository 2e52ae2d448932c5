package cmd

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlihgenel/videocut-cli/internal/project"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

func newTestEditorModel(t *testing.T, duration float64, setup func(m *timeline.Model)) editorModel {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, []byte("video"), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	model := timeline.NewModel(duration)
	if setup != nil {
		setup(model)
	}
	m := newEditorModel(&editSession{Input: input, Model: model})
	m.copyToClip = func(string) error { return nil }
	return m
}

func sendKey(t *testing.T, m editorModel, msg tea.KeyMsg) (editorModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	em, ok := next.(editorModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return em, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(m editorModel, action tea.MouseAction, x, y int) editorModel {
	next, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return next.(editorModel)
}

func TestEditorKeyboardCutSelectDelete(t *testing.T) {
	m := newTestEditorModel(t, 100, nil)

	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := m.editor.Playhead(); got != 10 {
		t.Fatalf("expected playhead 10, got %v", got)
	}
	m, _ = sendKey(t, m, runes("c"))
	if cuts := m.editor.Model().Cuts(); len(cuts) != 1 || cuts[0] != 10 {
		t.Fatalf("unexpected cuts: %v", cuts)
	}
	if !m.dirty {
		t.Fatalf("adding a cut must mark the model dirty")
	}

	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel, ok := m.editor.Model().Selected()
	if !ok || sel.Start != 0 || sel.End != 10 {
		t.Fatalf("expected selection [0,10], got %v ok=%v", sel, ok)
	}

	m, _ = sendKey(t, m, runes("d"))
	if got := m.editor.Model().EditedDuration(); got != 90 {
		t.Fatalf("expected edited duration 90, got %v", got)
	}
	if m.statusErr || !strings.Contains(m.status, "Silindi") {
		t.Fatalf("unexpected status: %q", m.status)
	}
}

func TestEditorDeleteWithoutSelectionReportsError(t *testing.T) {
	m := newTestEditorModel(t, 100, nil)
	m, _ = sendKey(t, m, runes("d"))
	if !m.statusErr {
		t.Fatalf("expected error status without a selection")
	}
	if m.editor.Model().EditedDuration() != 100 {
		t.Fatalf("nothing must be removed")
	}
}

func TestEditorMouseDragThenClickSelects(t *testing.T) {
	m := newTestEditorModel(t, 100, func(model *timeline.Model) { model.AddCut(50) })
	// 80 sütun: iz 76 sütun, 608 px; 50 sn = 304 px = 38. sütun.
	m = mouse(m, tea.MouseActionPress, 40, editorRowTrack)
	if m.editor.State() != timeline.StateDragging {
		t.Fatalf("press on the cut handle must start a drag")
	}
	m = mouse(m, tea.MouseActionMotion, 50, editorRowTrack)
	m = mouse(m, tea.MouseActionRelease, 50, editorRowTrack)
	if m.editor.State() != timeline.StateIdle {
		t.Fatalf("release must end the drag")
	}
	want := 388.0 / 6.08
	if got := m.editor.Model().Cuts()[0]; math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected cut at %v, got %v", want, got)
	}
	if _, ok := m.editor.Model().Selected(); ok {
		t.Fatalf("release after a drag must not select")
	}

	m = mouse(m, tea.MouseActionPress, 10, editorRowTrack)
	m = mouse(m, tea.MouseActionRelease, 10, editorRowTrack)
	sel, ok := m.editor.Model().Selected()
	if !ok || sel.Start != 0 || math.Abs(sel.End-want) > 1e-6 {
		t.Fatalf("expected first segment selected, got %v ok=%v", sel, ok)
	}
}

func TestEditorRulerClickSeeks(t *testing.T) {
	m := newTestEditorModel(t, 100, nil)
	m = mouse(m, tea.MouseActionPress, 2+38, editorRowRuler)
	want := 308.0 / 6.08
	if got := m.editor.Playhead(); math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected playhead %v, got %v", want, got)
	}
}

func TestEditorPlaybackSkipsRemovedAndStops(t *testing.T) {
	m := newTestEditorModel(t, 10, func(model *timeline.Model) {
		model.AddRemoved(timeline.Range{Start: 3, End: 6})
	})
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	m, cmd := sendKey(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.playing || cmd == nil {
		t.Fatalf("space must start playback")
	}

	next, cmd := m.Update(playTickMsg(start.Add(2 * time.Second)))
	m = next.(editorModel)
	if m.editor.Playhead() != 2 || cmd == nil {
		t.Fatalf("expected playhead 2 with another tick, got %v", m.editor.Playhead())
	}

	next, _ = m.Update(playTickMsg(start.Add(3500 * time.Millisecond)))
	m = next.(editorModel)
	if ph := m.editor.Playhead(); ph < 6 || ph > 6.01 {
		t.Fatalf("playhead must skip the removed range, got %v", ph)
	}

	next, cmd = m.Update(playTickMsg(start.Add(20 * time.Second)))
	m = next.(editorModel)
	if m.playing || cmd != nil {
		t.Fatalf("playback must stop at the end of media")
	}
	if m.editor.Playhead() != 10 {
		t.Fatalf("expected playhead at the end, got %v", m.editor.Playhead())
	}
}

func TestEditorZoomKeys(t *testing.T) {
	m := newTestEditorModel(t, 100, nil)
	m, _ = sendKey(t, m, runes("+"))
	m, _ = sendKey(t, m, runes("+"))
	if z := m.editor.View().Zoom; z != 3 {
		t.Fatalf("expected zoom 3, got %v", z)
	}
	for i := 0; i < 5; i++ {
		m, _ = sendKey(t, m, runes("-"))
	}
	if z := m.editor.View().Zoom; z != 1 {
		t.Fatalf("zoom must clamp to 1, got %v", z)
	}
}

func TestEditorSaveWritesProjectNextToVideo(t *testing.T) {
	m := newTestEditorModel(t, 100, func(model *timeline.Model) {
		model.AddRemoved(timeline.Range{Start: 20, End: 30})
	})
	m.dirty = true
	m, _ = sendKey(t, m, runes("s"))
	if m.statusErr || m.dirty {
		t.Fatalf("save failed: %q", m.status)
	}

	f, err := project.Load(project.DefaultPath(m.input))
	if err != nil {
		t.Fatalf("load saved project: %v", err)
	}
	if f.Input != m.input {
		t.Fatalf("expected input %s, got %s", m.input, f.Input)
	}
	if len(f.Removed) != 1 || f.Removed[0] != (timeline.Range{Start: 20, End: 30}) {
		t.Fatalf("unexpected removed ranges: %v", f.Removed)
	}
}

func TestEditorCopyPutsSegmentsOnClipboard(t *testing.T) {
	m := newTestEditorModel(t, 100, func(model *timeline.Model) {
		model.AddRemoved(timeline.Range{Start: 20, End: 30})
	})
	var copied string
	m.copyToClip = func(s string) error {
		copied = s
		return nil
	}
	m, _ = sendKey(t, m, runes("y"))
	if m.statusErr {
		t.Fatalf("copy failed: %q", m.status)
	}
	if !strings.HasPrefix(copied, "0.000-20.000\n30.000-100.000\n") {
		t.Fatalf("unexpected clipboard text: %q", copied)
	}
	if !strings.Contains(copied, "TITLE: clip") {
		t.Fatalf("clipboard must contain the EDL: %q", copied)
	}
}

func TestEditorQuitAsksWhenDirty(t *testing.T) {
	m := newTestEditorModel(t, 100, nil)
	m.dirty = true
	m, cmd := sendKey(t, m, runes("q"))
	if cmd != nil || !m.quitArmed {
		t.Fatalf("first q with unsaved changes must only warn")
	}
	_, cmd = sendKey(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("second q must quit")
	}
}

func TestEditorViewRendersTrack(t *testing.T) {
	m := newTestEditorModel(t, 100, func(model *timeline.Model) { model.AddCut(50) })
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(editorModel)
	if m.cols != 56 {
		t.Fatalf("expected 56 track columns, got %d", m.cols)
	}
	lines := strings.Split(m.View(), "\n")
	if len(lines) <= editorRowTrack {
		t.Fatalf("view has too few lines: %d", len(lines))
	}
	if !strings.Contains(lines[editorRowMarkers], "┃") || !strings.Contains(lines[editorRowMarkers], "▼") {
		t.Fatalf("marker row must show the cut and the playhead: %q", lines[editorRowMarkers])
	}
	if !strings.Contains(lines[editorRowTrack], "▬") {
		t.Fatalf("track row missing: %q", lines[editorRowTrack])
	}
}
