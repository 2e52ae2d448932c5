package timeline

// SourceToEdited kaynak zamanını düzenlenmiş zaman çizelgesindeki konuma çevirir.
// Silinmiş alana düşen zaman, boşluğun başladığı düzenlenmiş konuma çöker;
// sonda kalan silinmiş alan EditedDuration'a eşlenir.
func (m *Model) SourceToEdited(s float64) float64 {
	s = clamp(s, 0, m.duration)
	acc := 0.0
	for _, r := range m.ActiveRanges() {
		if s < r.Start {
			return acc
		}
		if s <= r.End {
			return acc + (s - r.Start)
		}
		acc += r.Len()
	}
	return acc
}

// EditedToSource düzenlenmiş zamanı kaynak zamanına çevirir.
// İki aktif aralığın birleştiği noktada sonraki aralığın başı döner; böylece
// aktif kaynak zamanı için SourceToEdited'ın tersi olur.
func (m *Model) EditedToSource(e float64) float64 {
	ranges := m.ActiveRanges()
	e = clamp(e, 0, TotalLength(ranges))
	acc := 0.0
	for i, r := range ranges {
		length := r.Len()
		if e < acc+length || (i == len(ranges)-1 && e <= acc+length) {
			return r.Start + (e - acc)
		}
		acc += length
	}
	return m.duration
}
