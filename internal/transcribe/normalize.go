package transcribe

import (
	"encoding/json"
	"fmt"
	"strings"
)

type rawResult struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	Chunks []struct {
		Timestamp []*float64 `json:"timestamp"`
		Text      string     `json:"text"`
	} `json:"chunks"`
	// whisper.cpp -oj çıktısı
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
	Text string `json:"text"`
}

// normalizeResult tanıyıcı çıktısını segment listesine çevirir.
// Öncelik: segments, chunks, transcription, düz text.
func normalizeResult(data []byte) ([]Segment, error) {
	var raw rawResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("tanıyıcı çıktısı çözülemedi: %w", err)
	}

	var segs []Segment
	switch {
	case raw.Segments != nil:
		for _, s := range raw.Segments {
			segs = append(segs, Segment{Start: s.Start, End: s.End, Text: s.Text})
		}
	case raw.Chunks != nil:
		for _, c := range raw.Chunks {
			seg := Segment{Text: c.Text}
			if len(c.Timestamp) > 0 && c.Timestamp[0] != nil {
				seg.Start = *c.Timestamp[0]
			}
			if len(c.Timestamp) > 1 && c.Timestamp[1] != nil {
				seg.End = *c.Timestamp[1]
			}
			segs = append(segs, seg)
		}
	case raw.Transcription != nil:
		for _, t := range raw.Transcription {
			segs = append(segs, Segment{
				Start: float64(t.Offsets.From) / 1000,
				End:   float64(t.Offsets.To) / 1000,
				Text:  t.Text,
			})
		}
	case strings.TrimSpace(raw.Text) != "":
		segs = []Segment{{Text: raw.Text}}
	}
	return cleanSegments(segs), nil
}
