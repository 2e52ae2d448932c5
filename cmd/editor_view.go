package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/videocut-cli/internal/timeline"
	"github.com/mlihgenel/videocut-cli/internal/ui"
)

var (
	editorPrimary   = lipgloss.Color("#7C3AED")
	editorSecondary = lipgloss.Color("#06B6D4")
	editorAccent    = lipgloss.Color("#10B981")
	editorWarning   = lipgloss.Color("#F59E0B")
	editorDanger    = lipgloss.Color("#EF4444")
	editorText      = lipgloss.Color("#E2E8F0")
	editorDim       = lipgloss.Color("#64748B")

	editorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(editorPrimary).
				Padding(0, 1)

	infoStyle      = lipgloss.NewStyle().Foreground(editorSecondary)
	editorDimStyle = lipgloss.NewStyle().Foreground(editorDim)
	trackStyle     = lipgloss.NewStyle().Foreground(editorText)
	selectedStyle  = lipgloss.NewStyle().Foreground(editorAccent).Bold(true)
	cutStyle       = lipgloss.NewStyle().Foreground(editorWarning).Bold(true)
	gapStyle       = lipgloss.NewStyle().Foreground(editorDanger)
	playheadStyle  = lipgloss.NewStyle().Foreground(editorSecondary).Bold(true)
	statusOKStyle  = lipgloss.NewStyle().Foreground(editorAccent)
	statusErrStyle = lipgloss.NewStyle().Foreground(editorDanger).Bold(true)
)

func (m editorModel) View() string {
	margin := strings.Repeat(" ", editorMarginCols)
	lines := make([]string, 0, 8)

	// Satır sırası editorRow* sabitleriyle uyumlu olmalı.
	lines = append(lines, m.renderHeader())
	lines = append(lines, m.renderInfo())
	lines = append(lines, margin+m.renderRuler())
	lines = append(lines, margin+m.renderMarkers())
	lines = append(lines, margin+m.renderTrack())
	lines = append(lines, "")
	lines = append(lines, m.renderStatus())
	lines = append(lines, m.help.View(m.keys))

	return strings.Join(lines, "\n")
}

func (m editorModel) renderHeader() string {
	title := editorTitleStyle.Render(fmt.Sprintf("%s VideoCut", ui.IconVideo))
	name := filepath.Base(m.input)
	if m.dirty {
		name += " *"
	}
	return title + " " + editorDimStyle.Render(name)
}

func (m editorModel) renderInfo() string {
	e := m.editor
	model := e.Model()
	v := e.View()
	parts := []string{
		fmt.Sprintf("%s %s / %s", ui.IconTime,
			timeline.FormatClock(model.SourceToEdited(e.Playhead())),
			timeline.FormatClock(model.EditedDuration())),
		fmt.Sprintf("kaynak %s", timeline.FormatClock(e.Playhead())),
		fmt.Sprintf("zoom %.0fx", v.Zoom),
		fmt.Sprintf("%d kesim", len(model.Cuts())),
	}
	if removed := model.MergedRemoved(); len(removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d silinen aralık (%s)", len(removed), timeline.FormatClock(timeline.TotalLength(removed))))
	}
	if sel, ok := model.Selected(); ok {
		parts = append(parts, selectedStyle.Render(fmt.Sprintf("seçim %s-%s", timeline.FormatClock(sel.Start), timeline.FormatClock(sel.End))))
	}
	return strings.Repeat(" ", editorMarginCols) + infoStyle.Render(strings.Join(parts, " · "))
}

// renderRuler cetvel etiketlerini düzenlenmiş zamanla yerleştirir.
func (m editorModel) renderRuler() string {
	row := []rune(strings.Repeat(" ", m.cols))
	next := 0
	for _, t := range m.editor.Ticks() {
		col := m.xColumn(t.X)
		if col < next || col < 0 {
			continue
		}
		label := []rune(timeline.FormatClock(t.Edited))
		if !t.Major {
			label = []rune("·")
		}
		if col+len(label) > m.cols {
			break
		}
		copy(row[col:], label)
		next = col + len(label) + 1
	}
	return editorDimStyle.Render(string(row))
}

// renderMarkers kesim tutamaçlarını, silinen aralık eklerini ve oynatma
// imlecini çizer. İmleç diğer işaretlerin üstündedir.
func (m editorModel) renderMarkers() string {
	e := m.editor
	model := e.Model()
	cells := make([]string, m.cols)
	for i := range cells {
		cells[i] = " "
	}
	for _, r := range model.MergedRemoved() {
		if col := m.xColumn(e.TimeToX(r.Start)); col >= 0 {
			cells[col] = gapStyle.Render("╳")
		}
	}
	for _, c := range model.Cuts() {
		if model.IsInRemoved(c) {
			continue
		}
		if col := m.xColumn(e.TimeToX(c)); col >= 0 {
			style := cutStyle
			if d, ok := e.Drag(); ok && model.Cuts()[d.CutIndex] == c {
				style = selectedStyle
			}
			cells[col] = style.Render("┃")
		}
	}
	if col := m.xColumn(e.TimeToX(e.Playhead())); col >= 0 {
		cells[col] = playheadStyle.Render("▼")
	}
	return strings.Join(cells, "")
}

func (m editorModel) renderTrack() string {
	e := m.editor
	sel, hasSel := e.Model().Selected()
	var b strings.Builder
	for col := 0; col < m.cols; col++ {
		t := e.XToTime((float64(col) + 0.5) * editorCellPx)
		if hasSel && sel.Contains(t) {
			b.WriteString(selectedStyle.Render("█"))
		} else {
			b.WriteString(trackStyle.Render("▬"))
		}
	}
	return b.String()
}

func (m editorModel) renderStatus() string {
	prefix := strings.Repeat(" ", editorMarginCols)
	if m.playing {
		prefix += m.spinner.View() + " oynatılıyor  "
	}
	if m.status == "" {
		return prefix
	}
	if m.statusErr {
		return prefix + statusErrStyle.Render(m.status)
	}
	return prefix + statusOKStyle.Render(m.status)
}
