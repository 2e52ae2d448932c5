// Package subtitle zamanlı altyazı metinlerini SRT olarak biçimlendirir ve
// kaynak zamanından düzenlenmiş zamana taşır.
package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cue tek bir altyazı satırıdır. Zamanlar saniye cinsindendir.
type Cue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Mapper kaynak zamanını düzenlenmiş zamana çeviren bileşendir (timeline.Model).
type Mapper interface {
	SourceToEdited(s float64) float64
}

// minCueLength bu süreden kısa kalan cue'lar atılır.
const minCueLength = 0.001

// FormatTimestamp saniyeyi HH:MM:SS,mmm olarak biçimlendirir.
func FormatTimestamp(sec float64) string {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// RenderSRT cue listesini SRT metnine çevirir. Boş metinli cue'lar atlanır,
// numaralandırma 1'den başlar.
func RenderSRT(cues []Cue) string {
	var b strings.Builder
	n := 0
	for _, c := range cues {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		end := c.End
		if end < c.Start {
			end = c.Start
		}
		n++
		if n > 1 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(n))
		b.WriteString("\n")
		b.WriteString(FormatTimestamp(c.Start))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(end))
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// RemapToEdited kaynak zamanındaki cue'ları düzenlenmiş zamana taşır.
// Tamamen silinmiş alana düşen cue'lar atılır; kısmen silinmiş olanlar
// görünür kısımlarına kısalır.
func RemapToEdited(cues []Cue, m Mapper) []Cue {
	out := make([]Cue, 0, len(cues))
	for _, c := range cues {
		start := m.SourceToEdited(c.Start)
		end := m.SourceToEdited(c.End)
		if end-start < minCueLength {
			continue
		}
		out = append(out, Cue{Start: start, End: end, Text: c.Text})
	}
	return out
}
