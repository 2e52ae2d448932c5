package timeline

import (
	"fmt"
	"math"
)

// Tick zaman cetvelindeki tek bir işarettir.
type Tick struct {
	Edited float64 `json:"edited"`
	Source float64 `json:"source"`
	X      float64 `json:"x"`
	Major  bool    `json:"major"`
}

// ChooseTickStep görünen pencere süresine göre cetvel adımını seçer.
func ChooseTickStep(dur float64) float64 {
	switch {
	case dur <= 10:
		return 1
	case dur <= 30:
		return 5
	case dur <= 60:
		return 10
	case dur <= 3*60:
		return 15
	case dur <= 10*60:
		return 30
	default:
		return 60
	}
}

// FormatClock saniyeyi m:ss olarak biçimlendirir.
func FormatClock(s float64) string {
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return "0:00"
	}
	m := int(s / 60)
	sec := int(math.Mod(s, 60))
	return fmt.Sprintf("%d:%02d", m, sec)
}

func isMajorTick(e, step float64) bool {
	return int64(math.Round(e))%int64(step*2) == 0
}
