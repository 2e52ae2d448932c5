package timeline

import (
	"math"
	"sort"
)

const (
	// MinGap iki kesim arasındaki minimum mesafe (s).
	MinGap = 0.02
	// CutTolerance mevcut bir kesime bu kadar yakın yeni kesim eklenmez.
	CutTolerance = 0.02
	// cutEdgeInset kesimlerin 0 ve süre sınırlarından uzaklığı.
	cutEdgeInset = 0.001
	// playbackSkipOffset silinmiş aralığın sonundan sonra atlanacak pay.
	playbackSkipOffset = 0.001
)

// Model kesimleri, silinmiş aralıkları ve seçimi tutan düzenleme modelidir.
// Türetilmiş değerler (aktif aralıklar, düzenlenmiş süre) her çağrıda yeniden hesaplanır.
type Model struct {
	duration float64
	cuts     []float64
	removed  []Range
	selected *Range
}

// NewModel verilen süre için boş bir model oluşturur.
func NewModel(duration float64) *Model {
	m := &Model{}
	m.Load(duration)
	return m
}

// Load yeni medya yüklendiğinde modeli sıfırlar.
func (m *Model) Load(duration float64) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		duration = 0
	}
	m.duration = duration
	m.cuts = nil
	m.removed = nil
	m.selected = nil
}

func (m *Model) Duration() float64 { return m.duration }

// Cuts kesimlerin kopyasını döner.
func (m *Model) Cuts() []float64 {
	out := make([]float64, len(m.cuts))
	copy(out, m.cuts)
	return out
}

// Removed silinmiş aralıkların kopyasını döner (birleştirilmemiş olabilir).
func (m *Model) Removed() []Range {
	out := make([]Range, len(m.removed))
	copy(out, m.removed)
	return out
}

// Selected seçili segmenti döner.
func (m *Model) Selected() (Range, bool) {
	if m.selected == nil {
		return Range{}, false
	}
	return *m.selected, true
}

// AddCut t noktasına kesim ekler. Süre yoksa veya yakında başka bir kesim
// varsa işlem yapılmaz ve false döner.
func (m *Model) AddCut(t float64) bool {
	if m.duration <= 0 || math.IsNaN(t) {
		return false
	}
	t = clamp(t, cutEdgeInset, m.duration-cutEdgeInset)
	if t <= 0 || t >= m.duration {
		return false
	}
	for _, c := range m.cuts {
		if math.Abs(c-t) < CutTolerance {
			return false
		}
	}
	m.cuts = append(m.cuts, t)
	sort.Float64s(m.cuts)
	return true
}

// CutBounds i. kesimin sürüklenebileceği aralığı döner.
func (m *Model) CutBounds(i int) (float64, float64, bool) {
	if i < 0 || i >= len(m.cuts) {
		return 0, 0, false
	}
	left := 0.0
	if i > 0 {
		left = m.cuts[i-1]
	}
	right := m.duration
	if i < len(m.cuts)-1 {
		right = m.cuts[i+1]
	}
	return left + MinGap, right - MinGap, true
}

// MoveCut i. kesimi komşularıyla sınırlanmış olarak yeni konuma taşır.
// Kesimlerin sırası asla değişmez.
func (m *Model) MoveCut(i int, t float64) bool {
	lo, hi, ok := m.CutBounds(i)
	if !ok || math.IsNaN(t) {
		return false
	}
	m.cuts[i] = math.Max(lo, math.Min(hi, t))
	return true
}

// AddRemoved aralığı silinmiş kümeye ekler. Süre dışına taşan kısım kırpılır.
func (m *Model) AddRemoved(r Range) bool {
	r.Start = clamp(r.Start, 0, m.duration)
	r.End = clamp(r.End, 0, m.duration)
	if r.End <= r.Start {
		return false
	}
	m.removed = Merge(append(m.removed, r))
	return true
}

// DeleteSelected seçili segmenti silinmiş kümeye ekler ve seçimi temizler.
// Seçim yoksa false döner.
func (m *Model) DeleteSelected() bool {
	if m.selected == nil {
		return false
	}
	sel := *m.selected
	m.selected = nil
	m.removed = Merge(append(m.removed, sel))
	return true
}

// MergedRemoved silinmiş aralıkların birleştirilmiş halini döner.
func (m *Model) MergedRemoved() []Range {
	return Merge(m.removed)
}

// ActiveRanges silinmiş aralıkların [0, duration) içindeki tümleyenini döner.
func (m *Model) ActiveRanges() []Range {
	if m.duration <= 0 {
		return nil
	}
	rem := m.MergedRemoved()
	if len(rem) == 0 {
		return []Range{{Start: 0, End: m.duration}}
	}
	ranges := make([]Range, 0, len(rem)+1)
	cur := 0.0
	for _, r := range rem {
		if r.Start > cur {
			ranges = append(ranges, Range{Start: cur, End: r.Start})
		}
		cur = math.Max(cur, r.End)
	}
	if cur < m.duration {
		ranges = append(ranges, Range{Start: cur, End: m.duration})
	}
	return ranges
}

// EditedDuration aktif aralıkların toplam uzunluğudur.
func (m *Model) EditedDuration() float64 {
	return TotalLength(m.ActiveRanges())
}

// RemovedAt t noktasını içeren birleştirilmiş silinmiş aralığı döner.
func (m *Model) RemovedAt(t float64) (Range, bool) {
	for _, r := range m.MergedRemoved() {
		if r.Contains(t) {
			return r, true
		}
	}
	return Range{}, false
}

// IsInRemoved t silinmiş bir aralıktaysa true döner.
func (m *Model) IsInRemoved(t float64) bool {
	_, ok := m.RemovedAt(t)
	return ok
}

// Boundaries [0, kesimler..., duration] listesini döner.
func (m *Model) Boundaries() []float64 {
	b := make([]float64, 0, len(m.cuts)+2)
	b = append(b, 0)
	b = append(b, m.cuts...)
	b = append(b, m.duration)
	return b
}

// PickSegmentAtTime t'yi çevreleyen iki sınır arasındaki segmenti döner.
// t tam bir kesimin üzerindeyse soldaki segment seçilir; 0 ve duration
// noktaları bir segmente çözülmez.
func (m *Model) PickSegmentAtTime(t float64) (Range, bool) {
	if m.duration <= 0 || math.IsNaN(t) {
		return Range{}, false
	}
	b := m.Boundaries()
	for i := 0; i < len(b)-1; i++ {
		if t > b[i] && t < b[i+1] {
			return Range{Start: b[i], End: b[i+1]}, true
		}
	}
	for i := 1; i < len(b)-1; i++ {
		if t == b[i] {
			return Range{Start: b[i-1], End: b[i]}, true
		}
	}
	return Range{}, false
}

// ClampSelectionToActive segment tamamen tek bir silinmiş aralığın içindeyse
// seçilemez; aksi halde segment aynen döner. Kısmi çakışmaya izin verilir.
func (m *Model) ClampSelectionToActive(seg Range) (Range, bool) {
	for _, r := range m.MergedRemoved() {
		if r.Covers(seg) {
			return Range{}, false
		}
	}
	return seg, true
}

// SelectAtTime t'deki segmenti seçer. Silinmiş alana yapılan tıklama seçimi
// temizler. Silme işlemi mümkünse true döner.
func (m *Model) SelectAtTime(t float64) bool {
	m.selected = nil
	if m.duration <= 0 || m.IsInRemoved(t) {
		return false
	}
	seg, ok := m.PickSegmentAtTime(t)
	if !ok {
		return false
	}
	seg, ok = m.ClampSelectionToActive(seg)
	if !ok {
		return false
	}
	m.selected = &seg
	return true
}

// ClearSelection seçimi kaldırır.
func (m *Model) ClearSelection() {
	m.selected = nil
}

// KeepSegments dışa aktarımda korunacak kaynak aralıklarını sırayla döner.
func (m *Model) KeepSegments() []Range {
	return m.ActiveRanges()
}

// NextPlayable oynatma konumu silinmiş bir aralıktaysa atlanacak konumu döner.
// stop=true ise medyanın sonuna ulaşılmıştır ve oynatma durmalıdır.
func (m *Model) NextPlayable(t float64) (next float64, stop bool) {
	r, ok := m.RemovedAt(t)
	if !ok {
		return t, false
	}
	next = math.Min(r.End+playbackSkipOffset, m.duration)
	if next < m.duration {
		return next, false
	}
	return m.duration, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
