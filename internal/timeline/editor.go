package timeline

import "math"

const (
	// DragTolerancePx kesim tutamacını yakalama ve snap toleransı (piksel).
	DragTolerancePx = 8.0
	// ClickSuppressPx bu mesafeden fazla sürükleme sonraki tıklamayı bastırır.
	ClickSuppressPx = 3.0
)

// State etkileşim durum makinesinin durumu.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// DragSession yalnızca tutamaca basılmasından bırakılmasına kadar yaşar.
type DragSession struct {
	CutIndex int
	OriginX  float64
}

// View viewport'un dışarıya açılan görünümüdür.
type View struct {
	Zoom     float64 `json:"zoom"`
	Start    float64 `json:"viewportStart"`
	Duration float64 `json:"viewportDuration"`
}

// Editor düzenleme modelini, viewport'u ve sürükleme oturumunu tek bir
// nesnede toplar. Çizim katmanı iz genişliğini (piksel) ve oynatma konumunu
// sağlar; tüm koordinat dönüşümleri buradan yapılır.
//
// Editor eşzamanlı kullanım için güvenli değildir.
type Editor struct {
	model         *Model
	view          Viewport
	width         float64
	playhead      float64
	drag          *DragSession
	suppressClick bool
}

// NewEditor boş bir editor oluşturur.
func NewEditor() *Editor {
	return &Editor{
		model: NewModel(0),
		view:  NewViewport(),
	}
}

// Load yeni bir medya kaynağı için tüm durumu sıfırlar.
func (e *Editor) Load(duration float64) {
	e.model.Load(duration)
	e.view = NewViewport()
	e.drag = nil
	e.suppressClick = false
	e.playhead = 0
}

// Model sorgular için düzenleme modelini döner.
func (e *Editor) Model() *Model { return e.model }

func (e *Editor) Loaded() bool { return e.model.Duration() > 0 }

// SetWidth iz genişliğini piksel olarak ayarlar.
func (e *Editor) SetWidth(px float64) {
	if math.IsNaN(px) || px < 0 {
		px = 0
	}
	e.width = px
}

func (e *Editor) Width() float64 { return e.width }

// SetPlayhead oynatma konumunu (kaynak zamanı) ayarlar.
func (e *Editor) SetPlayhead(t float64) {
	if math.IsNaN(t) {
		return
	}
	e.playhead = clamp(t, 0, e.model.Duration())
}

func (e *Editor) Playhead() float64 { return e.playhead }

// AdvancePlayhead oynatma sırasında konumu günceller: silinmiş alana düşen
// konum aralığın sonuna atlatılır ve pencere imleci takip eder.
// Medyanın sonuna gelindiyse true döner.
func (e *Editor) AdvancePlayhead(t float64) bool {
	e.SetPlayhead(t)
	next, stop := e.model.NextPlayable(e.playhead)
	e.playhead = next
	e.FollowPlayhead()
	return stop || (e.Loaded() && e.playhead >= e.model.Duration())
}

// View mevcut viewport değerlerini döner.
func (e *Editor) View() View {
	ed := e.model.EditedDuration()
	return View{
		Zoom:     e.view.Zoom(),
		Start:    e.view.Start(),
		Duration: e.view.Duration(ed),
	}
}

func (e *Editor) viewDuration() float64 {
	return e.view.Duration(e.model.EditedDuration())
}

// TimeToX kaynak zamanını iz üzerindeki piksel konumuna çevirir.
func (e *Editor) TimeToX(t float64) float64 {
	rel := (e.model.SourceToEdited(t) - e.view.Start()) / math.Max(e.viewDuration(), 1e-6)
	return rel * e.width
}

// XToTime piksel konumunu kaynak zamanına çevirir.
func (e *Editor) XToTime(x float64) float64 {
	edited := e.view.Start() + (x/math.Max(e.width, 1))*e.viewDuration()
	return e.model.EditedToSource(edited)
}

// State durum makinesinin mevcut durumunu döner.
func (e *Editor) State() State {
	if e.drag != nil {
		return StateDragging
	}
	return StateIdle
}

// Drag aktif sürükleme oturumunu döner.
func (e *Editor) Drag() (DragSession, bool) {
	if e.drag == nil {
		return DragSession{}, false
	}
	return *e.drag, true
}

// HitTestCut x'e tolerans içinde en yakın görünür kesimin indeksini döner, yoksa -1.
func (e *Editor) HitTestCut(x float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range e.model.cuts {
		if e.model.IsInRemoved(c) {
			continue // silinmiş alandaki kesimler sürüklenemez
		}
		d := math.Abs(e.TimeToX(c) - x)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if bestDist <= DragTolerancePx {
		return best
	}
	return -1
}

// PointerDown bir kesim tutamacı yakalandıysa sürüklemeyi başlatır.
func (e *Editor) PointerDown(x float64) bool {
	if !e.Loaded() {
		return false
	}
	idx := e.HitTestCut(x)
	if idx == -1 {
		return false
	}
	return e.BeginDrag(idx, x)
}

// BeginDrag cutIndex için sürükleme oturumu açar.
func (e *Editor) BeginDrag(cutIndex int, originX float64) bool {
	if cutIndex < 0 || cutIndex >= len(e.model.cuts) {
		return false
	}
	if e.model.IsInRemoved(e.model.cuts[cutIndex]) {
		return false
	}
	e.drag = &DragSession{CutIndex: cutIndex, OriginX: originX}
	e.suppressClick = false
	return true
}

// UpdateDrag işaretçi hareketinde kesimi snap ve komşu sınırlarıyla taşır.
func (e *Editor) UpdateDrag(x float64) bool {
	if e.drag == nil {
		return false
	}
	if math.Abs(x-e.drag.OriginX) > ClickSuppressPx {
		e.suppressClick = true
	}
	t := e.snap(e.XToTime(x), x)
	return e.model.MoveCut(e.drag.CutIndex, t)
}

// EndDrag işaretçi bırakıldığında veya izden çıkıldığında oturumu kapatır.
func (e *Editor) EndDrag() {
	e.drag = nil
}

// snap adayı önce oynatma imlecine, sonra en yakın cetvel işaretine çeker.
func (e *Editor) snap(t, x float64) float64 {
	dur := e.model.Duration()
	ph := math.Min(e.playhead, dur)
	if math.Abs(e.TimeToX(ph)-x) <= DragTolerancePx {
		return ph
	}
	step := ChooseTickStep(e.viewDuration())
	grid := clamp(math.Round(t/step)*step, 0, dur)
	if math.Abs(e.TimeToX(grid)-x) <= DragTolerancePx {
		return grid
	}
	return clamp(t, 0, dur)
}

// Click sürükleme sonrası bastırılmamışsa x'teki segmenti seçer.
// Dönüş değeri silme işleminin etkin olup olmadığıdır.
func (e *Editor) Click(x float64) bool {
	if !e.Loaded() {
		return false
	}
	if e.suppressClick {
		e.suppressClick = false
		_, ok := e.model.Selected()
		return ok
	}
	return e.SelectAtTime(e.XToTime(x))
}

// SelectAtTime kaynak zamanı t'deki segmenti seçer.
func (e *Editor) SelectAtTime(t float64) bool {
	return e.model.SelectAtTime(t)
}

// DeleteSelected seçimi siler ve küçülen süreye göre viewport'u düzeltir.
func (e *Editor) DeleteSelected() bool {
	if !e.model.DeleteSelected() {
		return false
	}
	e.view.Clamp(e.model.EditedDuration())
	return true
}

// ApplyEdits mevcut medya süresini koruyarak kesimleri ve silinmiş
// aralıkları baştan kurar. Seçim ve sürükleme oturumu temizlenir.
func (e *Editor) ApplyEdits(cuts []float64, removed []Range) {
	m := e.model
	m.cuts = nil
	m.removed = nil
	m.selected = nil
	for _, c := range cuts {
		m.AddCut(c)
	}
	for _, r := range removed {
		m.AddRemoved(r)
	}
	e.drag = nil
	e.suppressClick = false
	e.view.Clamp(m.EditedDuration())
}

// AddCutAtPlayhead oynatma konumuna kesim ekler.
func (e *Editor) AddCutAtPlayhead() bool {
	return e.model.AddCut(e.playhead)
}

// SetZoom zoom'u değiştirir; anchor (kaynak zamanı) ekrandaki yerini korur.
func (e *Editor) SetZoom(z, anchor float64) {
	ed := e.model.EditedDuration()
	e.view.ZoomAt(z, e.model.SourceToEdited(anchor), ed)
}

// ZoomToPlayhead zoom'u değiştirir ve pencereyi oynatma imlecine ortalar.
func (e *Editor) ZoomToPlayhead(z float64) {
	ed := e.model.EditedDuration()
	e.view.SetZoom(z)
	e.view.CenterOn(e.model.SourceToEdited(e.playhead), ed)
}

// SetScrollPercent pencereyi [0, 100] yüzdesine kaydırır.
func (e *Editor) SetScrollPercent(p float64) {
	e.view.ScrollTo(p, e.model.EditedDuration())
}

// ScrollPercent mevcut kaydırma yüzdesidir.
func (e *Editor) ScrollPercent() float64 {
	return e.view.ScrollPercent(e.model.EditedDuration())
}

// FollowPlayhead oynatma imleci görünür bölgeden çıktıysa pencereyi kaydırır.
func (e *Editor) FollowPlayhead() bool {
	ed := e.model.EditedDuration()
	return e.view.Follow(e.model.SourceToEdited(e.playhead), ed)
}

// ComputeKeepSegments dönüştürücüye verilecek segment listesini döner.
func (e *Editor) ComputeKeepSegments() []Range {
	return e.model.KeepSegments()
}

// Ticks görünen pencere için cetvel işaretlerini döner.
func (e *Editor) Ticks() []Tick {
	ed := e.model.EditedDuration()
	vd := e.view.Duration(ed)
	eStart := e.view.Start()
	eEnd := math.Min(ed, eStart+vd)
	step := ChooseTickStep(vd)
	first := math.Ceil(eStart/step) * step

	var ticks []Tick
	for k := 0; ; k++ {
		edited := first + float64(k)*step
		if edited > eEnd+1e-6 {
			break
		}
		src := e.model.EditedToSource(math.Min(edited, eEnd))
		ticks = append(ticks, Tick{
			Edited: edited,
			Source: src,
			X:      e.TimeToX(src),
			Major:  isMajorTick(edited, step),
		})
	}
	return ticks
}

// Snapshot editor durumunun serileştirilebilir görüntüsü.
type Snapshot struct {
	Duration       float64   `json:"duration"`
	EditedDuration float64   `json:"editedDuration"`
	Cuts           []float64 `json:"cuts"`
	HiddenCuts     []int     `json:"hiddenCuts,omitempty"`
	Removed        []Range   `json:"removed"`
	Active         []Range   `json:"activeRanges"`
	Selected       *Range    `json:"selected"`
	Playhead       float64   `json:"playhead"`
	View           View      `json:"viewport"`
	ScrollPercent  float64   `json:"scrollPercent"`
	State          string    `json:"state"`
	Width          float64   `json:"width"`
}

// Snapshot mevcut durumu döner.
func (e *Editor) Snapshot() Snapshot {
	s := Snapshot{
		Duration:       e.model.Duration(),
		EditedDuration: e.model.EditedDuration(),
		Cuts:           e.model.Cuts(),
		Removed:        e.model.MergedRemoved(),
		Active:         e.model.ActiveRanges(),
		Playhead:       e.playhead,
		View:           e.View(),
		ScrollPercent:  e.ScrollPercent(),
		State:          e.State().String(),
		Width:          e.width,
	}
	for i, c := range s.Cuts {
		if e.model.IsInRemoved(c) {
			s.HiddenCuts = append(s.HiddenCuts, i)
		}
	}
	if sel, ok := e.model.Selected(); ok {
		s.Selected = &sel
	}
	if s.Cuts == nil {
		s.Cuts = []float64{}
	}
	if s.Removed == nil {
		s.Removed = []Range{}
	}
	if s.Active == nil {
		s.Active = []Range{}
	}
	return s
}
