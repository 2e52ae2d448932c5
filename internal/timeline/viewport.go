package timeline

import "math"

const (
	MinZoom = 1.0
	MaxZoom = 12.0
	// followMargin oynatma imleci bu oranın dışına çıkınca pencere kayar.
	followMargin = 0.15
)

// Viewport düzenlenmiş zaman çizelgesinin görünen penceresidir.
// Tüm değerler düzenlenmiş zaman cinsindendir.
type Viewport struct {
	zoom  float64
	start float64
}

// NewViewport 1x zoom ile başlayan bir viewport döner.
func NewViewport() Viewport {
	return Viewport{zoom: MinZoom}
}

func (v Viewport) Zoom() float64 {
	if v.zoom < MinZoom {
		return MinZoom
	}
	return v.zoom
}

func (v Viewport) Start() float64 { return v.start }

// Duration görünen pencerenin süresidir.
func (v Viewport) Duration(edited float64) float64 {
	return edited / math.Max(v.Zoom(), 1e-6)
}

// MaxStart pencerenin başlayabileceği en büyük konumdur.
func (v Viewport) MaxStart(edited float64) float64 {
	return math.Max(0, edited-v.Duration(edited))
}

// Clamp pencereyi [0, edited] içine sığdırır. Her zaman çağrılabilir.
func (v *Viewport) Clamp(edited float64) {
	if math.IsNaN(v.start) {
		v.start = 0
	}
	v.start = math.Min(math.Max(0, v.start), v.MaxStart(edited))
}

// SetZoom zoom'u [1, 12] aralığına sınırlayarak ayarlar.
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) || z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	v.zoom = z
}

// ZoomAt zoom'u değiştirir ve anchor'ın ekrandaki konumunu korur.
// Anchor pencere dışındaysa pencere anchor'a ortalanır.
func (v *Viewport) ZoomAt(z, anchor, edited float64) {
	oldDur := v.Duration(edited)
	frac := 0.5
	if oldDur > 0 && anchor >= v.start && anchor <= v.start+oldDur {
		frac = (anchor - v.start) / oldDur
	}
	v.SetZoom(z)
	v.start = anchor - frac*v.Duration(edited)
	v.Clamp(edited)
}

// CenterOn pencereyi e etrafında ortalar.
func (v *Viewport) CenterOn(e, edited float64) {
	v.start = math.Max(0, e-v.Duration(edited)/2)
	v.Clamp(edited)
}

// ScrollTo [0, 100] yüzdesini [0, MaxStart] aralığına doğrusal eşler.
func (v *Viewport) ScrollTo(percent, edited float64) {
	if math.IsNaN(percent) {
		percent = 0
	}
	percent = clamp(percent, 0, 100)
	v.start = percent / 100 * v.MaxStart(edited)
	v.Clamp(edited)
}

// ScrollPercent mevcut kaydırma yüzdesini döner.
func (v Viewport) ScrollPercent(edited float64) float64 {
	maxStart := v.MaxStart(edited)
	if maxStart <= 0 {
		return 0
	}
	return v.start / maxStart * 100
}

// Follow imleç pencerenin iç %70'lik bölümünden çıktığında pencereyi imlece
// ortalar. Pencere kaydıysa true döner.
func (v *Viewport) Follow(e, edited float64) bool {
	v.Clamp(edited)
	dur := v.Duration(edited)
	start := v.start
	end := start + dur
	margin := dur * followMargin
	if e >= start+margin && e <= end-margin {
		return false
	}
	v.CenterOn(e, edited)
	return v.start != start
}
