package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/project"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

const (
	// editorCellPx bir terminal sütununun editor koordinatlarındaki genişliği.
	editorCellPx = 8.0
	// editorMarginCols izin solunda ve sağında bırakılan sütun sayısı.
	editorMarginCols = 2
	editorMinCols    = 10
	editorTick       = 100 * time.Millisecond
	editorSeekStep   = 5.0
	editorFineStep   = 1.0
	editorScrollStep = 10.0
)

// Ekran satırları; fare olayları bu satırlara göre yorumlanır.
const (
	editorRowRuler   = 2
	editorRowMarkers = 3
	editorRowTrack   = 4
)

var editEdits editFlags

var editCmd = &cobra.Command{
	Use:   "edit <video-dosyasi>",
	Short: "Videoyu terminalde etkileşimli olarak düzenle",
	Long: `Zaman çizelgesini terminalde açar. Kesimler eklenir, fareyle sürüklenir,
segmentler seçilip silinir. Video dosyası değişmez; kararlar proje dosyasına
(video.videocut.json) kaydedilir ve 'videocut export' ile uygulanır.

Örnekler:
  videocut edit kayit.mp4
  videocut edit kayit.mp4 --project kayit.videocut.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		session, err := loadEditSession(ctx, args[0], editEdits, probeDuration(activeConfig.FFmpegPath))
		if err != nil {
			return err
		}

		m := newEditorModel(session)
		if p, err := media.NewProber(activeConfig.FFmpegPath); err == nil {
			if fps, err := p.FrameRate(ctx, session.Input); err == nil {
				m.fps = fps
			}
		}
		appLogger.Debug("editor açıldı", "input", session.Input, "duration", session.Model.Duration(), "project", m.projectPath)

		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
		return err
	},
}

// playTickMsg oynatma saatinin bir vuruşudur.
type playTickMsg time.Time

func playTick() tea.Cmd {
	return tea.Tick(editorTick, func(t time.Time) tea.Msg {
		return playTickMsg(t)
	})
}

// editorModel terminal zaman çizelgesi ekranıdır. Tüm düzenleme mantığı
// timeline.Editor'dadır; model yalnızca terminal olaylarını çevirir.
type editorModel struct {
	editor      *timeline.Editor
	input       string
	projectPath string
	fps         float64

	keys    editorKeyMap
	help    help.Model
	spinner spinner.Model

	cols       int
	playing    bool
	lastTick   time.Time
	pressed    bool
	dirty      bool
	quitArmed  bool
	status     string
	statusErr  bool
	copyToClip func(string) error
	now        func() time.Time
}

func newEditorModel(s *editSession) editorModel {
	e := timeline.NewEditor()
	e.Load(s.Model.Duration())
	e.ApplyEdits(s.Model.Cuts(), s.Model.Removed())

	path := s.ProjectPath
	if path == "" {
		path = project.DefaultPath(s.Input)
	}

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = infoStyle

	m := editorModel{
		editor:      e,
		input:       s.Input,
		projectPath: path,
		keys:        newEditorKeyMap(),
		help:        help.New(),
		spinner:     spin,
		copyToClip:  clipboard.WriteAll,
		now:         time.Now,
	}
	m.resize(80)
	return m
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

// resize terminal genişliğini iz genişliğine çevirir.
func (m *editorModel) resize(width int) {
	cols := width - 2*editorMarginCols
	if cols < editorMinCols {
		cols = editorMinCols
	}
	m.cols = cols
	m.help.Width = width
	m.editor.SetWidth(float64(cols) * editorCellPx)
}

// columnX terminal sütununu iz koordinatına çevirir (hücre ortası).
func (m editorModel) columnX(screenX int) float64 {
	col := screenX - editorMarginCols
	if col < 0 {
		col = 0
	}
	if col >= m.cols {
		col = m.cols - 1
	}
	return (float64(col) + 0.5) * editorCellPx
}

// xColumn iz koordinatını sütuna çevirir; iz dışındaysa -1.
func (m editorModel) xColumn(x float64) int {
	col := int(x / editorCellPx)
	if x < 0 || col >= m.cols {
		return -1
	}
	return col
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case playTickMsg:
		if !m.playing {
			return m, nil
		}
		at := time.Time(msg)
		elapsed := at.Sub(m.lastTick).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}
		m.lastTick = at
		if m.editor.AdvancePlayhead(m.editor.Playhead() + elapsed) {
			m.playing = false
			m.setStatus("Oynatma bitti", false)
			return m, nil
		}
		return m, playTick()

	case spinner.TickMsg:
		if !m.playing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m editorModel) handleMouse(msg tea.MouseMsg) editorModel {
	x := m.columnX(msg.X)
	e := m.editor

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			e.ZoomToPlayhead(e.View().Zoom + 1)
			return m
		case tea.MouseButtonWheelDown:
			e.ZoomToPlayhead(e.View().Zoom - 1)
			return m
		case tea.MouseButtonLeft:
		default:
			return m
		}
		switch msg.Y {
		case editorRowRuler:
			e.SetPlayhead(e.XToTime(x))
		case editorRowMarkers, editorRowTrack:
			m.pressed = true
			e.PointerDown(x)
		}

	case tea.MouseActionMotion:
		if e.State() == timeline.StateDragging && e.UpdateDrag(x) {
			m.dirty = true
		}

	case tea.MouseActionRelease:
		if !m.pressed {
			e.EndDrag()
			return m
		}
		m.pressed = false
		e.EndDrag()
		// Bırakma tıklama sayılır; sürüklemeden sonra Click kendini bastırır.
		e.Click(x)
	}
	return m
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if !key.Matches(msg, m.keys.Quit) {
		m.quitArmed = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.dirty && !m.quitArmed && msg.String() != "ctrl+c" {
			m.quitArmed = true
			m.setStatus("Kaydedilmemiş değişiklikler var. Çıkmak için tekrar q, kaydetmek için s", true)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Play):
		if m.playing {
			m.playing = false
			return m, nil
		}
		if e.Playhead() >= e.Model().Duration() {
			e.SetPlayhead(0)
		}
		m.playing = true
		m.lastTick = m.now()
		return m, tea.Batch(playTick(), m.spinner.Tick)

	case key.Matches(msg, m.keys.SeekBack):
		m.seek(-editorSeekStep)
	case key.Matches(msg, m.keys.SeekFwd):
		m.seek(editorSeekStep)
	case key.Matches(msg, m.keys.StepBack):
		m.seek(-editorFineStep)
	case key.Matches(msg, m.keys.StepFwd):
		m.seek(editorFineStep)
	case key.Matches(msg, m.keys.Home):
		e.SetPlayhead(e.Model().EditedToSource(0))
		e.FollowPlayhead()
	case key.Matches(msg, m.keys.End):
		e.SetPlayhead(e.Model().Duration())
		e.FollowPlayhead()

	case key.Matches(msg, m.keys.Cut):
		if e.AddCutAtPlayhead() {
			m.dirty = true
			m.setStatus(fmt.Sprintf("Kesim eklendi: %s", timeline.FormatClock(e.Playhead())), false)
		} else {
			m.setStatus("Bu konuma kesim eklenemez", true)
		}

	case key.Matches(msg, m.keys.Select):
		if !e.SelectAtTime(e.Playhead()) {
			m.setStatus("Seçilebilir segment yok", true)
		}

	case key.Matches(msg, m.keys.Delete):
		sel, ok := e.Model().Selected()
		if ok && e.DeleteSelected() {
			m.dirty = true
			m.setStatus(fmt.Sprintf("Silindi: %s - %s", timeline.FormatClock(sel.Start), timeline.FormatClock(sel.End)), false)
		} else {
			m.setStatus("Önce bir segment seçin", true)
		}

	case key.Matches(msg, m.keys.Clear):
		e.Model().ClearSelection()

	case key.Matches(msg, m.keys.ZoomIn):
		e.ZoomToPlayhead(e.View().Zoom + 1)
	case key.Matches(msg, m.keys.ZoomOut):
		e.ZoomToPlayhead(e.View().Zoom - 1)
	case key.Matches(msg, m.keys.ScrollBack):
		e.SetScrollPercent(e.ScrollPercent() - editorScrollStep)
	case key.Matches(msg, m.keys.ScrollFwd):
		e.SetScrollPercent(e.ScrollPercent() + editorScrollStep)

	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Copy):
		m.copySegments()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// seek oynatma imlecini düzenlenmiş zamanda delta kadar kaydırır.
func (m *editorModel) seek(delta float64) {
	e := m.editor
	model := e.Model()
	edited := model.SourceToEdited(e.Playhead()) + delta
	if edited < 0 {
		edited = 0
	}
	if edited >= model.EditedDuration() {
		e.SetPlayhead(model.Duration())
	} else {
		e.SetPlayhead(model.EditedToSource(edited))
	}
	e.FollowPlayhead()
}

func (m *editorModel) save() {
	f := project.FromModel(m.editor.Model(), m.input)
	if filepath.Dir(m.projectPath) == filepath.Dir(m.input) {
		f.Input = filepath.Base(m.input)
	}
	if err := project.Save(m.projectPath, f); err != nil {
		m.setStatus(fmt.Sprintf("Proje kaydedilemedi: %v", err), true)
		return
	}
	m.dirty = false
	m.setStatus(fmt.Sprintf("Kaydedildi: %s", m.projectPath), false)
}

// clipboardText segment listesini ve EDL'i düz metin olarak üretir.
func (m editorModel) clipboardText() string {
	segments := m.editor.ComputeKeepSegments()
	var b strings.Builder
	for _, s := range segments {
		fmt.Fprintf(&b, "%.3f-%.3f\n", s.Start, s.End)
	}
	if len(segments) > 0 {
		b.WriteString("\n")
		title := strings.TrimSuffix(filepath.Base(m.input), filepath.Ext(m.input))
		b.WriteString(export.GenerateEDL(segments, title, m.input, m.fps))
	}
	return b.String()
}

func (m *editorModel) copySegments() {
	segments := m.editor.ComputeKeepSegments()
	if len(segments) == 0 {
		m.setStatus("Kopyalanacak segment yok", true)
		return
	}
	if err := m.copyToClip(m.clipboardText()); err != nil {
		m.setStatus(fmt.Sprintf("Panoya kopyalanamadı: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("%d segment panoya kopyalandı", len(segments)), false)
}

func (m *editorModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func init() {
	editCmd.Flags().StringVar(&editEdits.Project, "project", "", "Proje dosyası (varsayılan: video.videocut.json)")
	editCmd.Flags().StringVar(&editEdits.Cuts, "cut", "", "Başlangıç kesimleri (örn: 12.5,1:03)")
	editCmd.Flags().StringVar(&editEdits.Remove, "remove", "", "Başlangıçta silinecek aralıklar (örn: 0:05-0:08)")
	rootCmd.AddCommand(editCmd)
}
