package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlihgenel/videocut-cli/internal/media"
)

// Komut argümanlarında yer tutucular.
const (
	PlaceholderInput  = "{input}"
	PlaceholderOutput = "{output}"
	PlaceholderLang   = "{lang}"
)

// DefaultCommandArgs whisper.cpp CLI için varsayılan argümanlardır.
var DefaultCommandArgs = []string{"-f", PlaceholderInput, "-oj", "-of", PlaceholderOutput, "-l", PlaceholderLang}

// CommandTranscriber her istek için tek seferlik bir tanıma aracı çalıştırır.
// Araç {output}.json dosyasına sonuç yazmalıdır.
type CommandTranscriber struct {
	Command string
	Args    []string
	Run     media.Runner

	guard busyGuard
}

// NewCommandTranscriber komut ve argümanlarla tanıyıcı döner. args boşsa
// DefaultCommandArgs kullanılır.
func NewCommandTranscriber(command string, args []string) *CommandTranscriber {
	if len(args) == 0 {
		args = DefaultCommandArgs
	}
	return &CommandTranscriber{Command: command, Args: args, Run: media.ExecRunner}
}

func (c *CommandTranscriber) Transcribe(ctx context.Context, pcm []float32, opts Options) ([]Segment, error) {
	release, err := c.guard.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if strings.TrimSpace(c.Command) == "" {
		return nil, fmt.Errorf("transkripsiyon komutu tanımlı değil")
	}

	dir, err := os.MkdirTemp("", "videocut-asr-*")
	if err != nil {
		return nil, fmt.Errorf("geçici klasör oluşturulamadı: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "audio.wav")
	f, err := os.Create(input)
	if err != nil {
		return nil, err
	}
	if err := WriteWAV(f, pcm, SampleRate); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	outBase := filepath.Join(dir, "result")
	lang := opts.Language
	if lang == "" {
		lang = "auto"
	}
	args := expandArgs(c.Args, input, outBase, lang)
	if opts.Task == "translate" {
		args = append(args, "-tr")
	}

	run := c.Run
	if run == nil {
		run = media.ExecRunner
	}
	if out, err := run(ctx, c.Command, args...); err != nil {
		return nil, fmt.Errorf("transkripsiyon komutu başarısız: %w\n%s", err, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("transkripsiyon çıktısı okunamadı: %w", err)
	}
	return normalizeResult(data)
}

func expandArgs(args []string, input, output, lang string) []string {
	r := strings.NewReplacer(PlaceholderInput, input, PlaceholderOutput, output, PlaceholderLang, lang)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
