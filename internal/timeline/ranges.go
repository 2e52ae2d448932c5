package timeline

import "sort"

// Range kaynak zamanında [Start, End) aralığıdır (saniye).
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Len aralık uzunluğunu döner; boş aralıkta 0.
func (r Range) Len() float64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains t değerinin [Start, End) içinde olup olmadığını kontrol eder.
func (r Range) Contains(t float64) bool {
	return t >= r.Start && t < r.End
}

// Covers seg aralığının tamamen r içinde kalıp kalmadığını kontrol eder.
func (r Range) Covers(seg Range) bool {
	return seg.Start >= r.Start && seg.End <= r.End
}

// Merge çakışan veya bitişik aralıkları birleştirir.
// Çıktı sıralı ve ayrıktır, girdinin birleşimini birebir kapsar.
// Girdi slice'ı değiştirilmez.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	cloned := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.End > r.Start {
			cloned = append(cloned, r)
		}
	}
	if len(cloned) == 0 {
		return nil
	}

	sort.Slice(cloned, func(i, j int) bool {
		if cloned[i].Start == cloned[j].Start {
			return cloned[i].End < cloned[j].End
		}
		return cloned[i].Start < cloned[j].Start
	})

	merged := []Range{cloned[0]}
	for _, r := range cloned[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// TotalLength aralık uzunluklarının toplamını döner.
func TotalLength(ranges []Range) float64 {
	total := 0.0
	for _, r := range ranges {
		total += r.Len()
	}
	return total
}
