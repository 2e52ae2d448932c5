// Package transcribe ses örneklerini zamanlı metin segmentlerine çeviren
// konuşma tanıma bileşenlerini içerir.
//
// Tüm uygulamalar aynı Transcriber arayüzünü sağlar: ayrı bir worker süreci,
// OpenAI uyumlu bir HTTP servisi veya tek seferlik bir komut satırı aracı.
// Fallback ile birincil yol başarısız olursa ikincil yol bir kez denenir;
// çağıran hangisinin çalıştığını bilmez.
package transcribe

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mlihgenel/videocut-cli/internal/subtitle"
)

// SampleRate tanıyıcıya verilen PCM örneklerinin örnekleme hızıdır (mono).
const SampleRate = 16000

var (
	// ErrBusy bir istek sürerken ikinci istek geldiğinde döner. İstekler kuyruğa alınmaz.
	ErrBusy = errors.New("transkripsiyon zaten çalışıyor")
	// ErrWorkerUnavailable worker süreci başlatılamadığında veya bağlantı koptuğunda döner.
	ErrWorkerUnavailable = errors.New("transkripsiyon worker'ı kullanılamıyor")
)

// Segment tanıyıcının döndürdüğü zamanlı metin parçasıdır.
type Segment = subtitle.Cue

// Options tanıma seçenekleri.
type Options struct {
	Language string `json:"language,omitempty"`
	Task     string `json:"task,omitempty"` // transcribe veya translate
}

// Transcriber mono PCM örneklerinden sıralı segment listesi üretir.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32, opts Options) ([]Segment, error)
}

// busyGuard eşzamanlı ikinci isteği reddeder.
type busyGuard struct {
	mu sync.Mutex
}

func (g *busyGuard) enter() (func(), error) {
	if !g.mu.TryLock() {
		return nil, ErrBusy
	}
	return g.mu.Unlock, nil
}

func cleanSegments(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		s.Text = strings.TrimSpace(s.Text)
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End < s.Start {
			s.End = s.Start
		}
		out = append(out, s)
	}
	return out
}
