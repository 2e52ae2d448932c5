// Package export korunan segment listesini harici dönüştürücüye (ffmpeg)
// vererek düzenlenmiş çıktıyı üretir.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

const (
	StrategyConcat = "concat"
	StrategyFilter = "filter"

	CodecAuto     = "auto"
	CodecCopy     = "copy"
	CodecReencode = "reencode"
)

// ErrNoSegments korunacak segment kalmadığında döner.
var ErrNoSegments = errors.New("dışa aktarılacak segment yok")

// Job tek bir dışa aktarma işini tanımlar.
type Job struct {
	Input         string
	Output        string
	Segments      []timeline.Range
	Codec         string // copy veya reencode
	Quality       int
	StripMetadata bool
	VideoOnly     bool
	Verbose       bool
}

// Format çıktının hedef formatıdır.
func (j Job) Format() string {
	if f := media.DetectFormat(j.Output); f != "" {
		return f
	}
	return "mp4"
}

// Transcoder segment listesini çıktı dosyasına dönüştüren dış bileşendir.
type Transcoder interface {
	Transcode(ctx context.Context, job Job) error
}

// TranscodeError dönüştürücü hatasını aşama ve segment bilgisiyle taşır.
// Segment aşama bir segmente bağlı değilse -1'dir.
type TranscodeError struct {
	Stage   string
	Segment int
	Output  string
	Err     error
}

func (e *TranscodeError) Error() string {
	var b strings.Builder
	b.WriteString("video dışa aktarma hatası (")
	b.WriteString(e.Stage)
	if e.Segment >= 0 {
		fmt.Fprintf(&b, ", segment %d", e.Segment+1)
	}
	b.WriteString(")")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String()
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// NormalizeStrategy geçersiz değerlerde boş döner.
func NormalizeStrategy(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", StrategyConcat:
		return StrategyConcat
	case StrategyFilter:
		return StrategyFilter
	default:
		return ""
	}
}

// NormalizeCodec geçersiz değerlerde boş döner.
func NormalizeCodec(codec string) string {
	switch c := strings.ToLower(strings.TrimSpace(codec)); c {
	case "":
		return CodecAuto
	case CodecAuto, CodecCopy, CodecReencode:
		return c
	default:
		return ""
	}
}

// ResolveCodec istenen codec modunu kaynak ve hedef formata göre çözer.
// Dönen not kullanıcıya gösterilmek içindir.
func ResolveCodec(input, output, requested string) (string, string, error) {
	codec := NormalizeCodec(requested)
	if codec == "" {
		return "", "", fmt.Errorf("gecersiz codec modu: %s (auto|copy|reencode)", requested)
	}

	from := media.DetectFormat(input)
	to := media.DetectFormat(output)

	switch codec {
	case CodecReencode:
		return CodecReencode, "", nil
	case CodecCopy:
		if from != "" && to != "" && from != to {
			return "", "", fmt.Errorf(
				"--codec copy yalnızca aynı formatta güvenlidir (%s -> %s). --codec auto veya --codec reencode kullanın",
				from, to,
			)
		}
		return CodecCopy, "", nil
	default:
		if from == "" || to == "" {
			return CodecReencode, "codec auto: format tespit edilemediği için uyumluluk amaçlı reencode seçildi.", nil
		}
		if from == to {
			return CodecCopy, fmt.Sprintf("codec auto: %s -> %s aynı format, copy seçildi.", from, to), nil
		}
		return CodecReencode, fmt.Sprintf("codec auto: %s -> %s farklı format, reencode seçildi.", from, to), nil
	}
}

// usableSegments sıfır uzunluklu segmentleri atar.
func usableSegments(segments []timeline.Range) []timeline.Range {
	const epsilon = 0.001
	out := make([]timeline.Range, 0, len(segments))
	for _, s := range segments {
		if s.End-s.Start > epsilon {
			out = append(out, s)
		}
	}
	return out
}
