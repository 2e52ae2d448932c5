// Package media ffmpeg/ffprobe ikili dosyalarını bulmak ve kaynak medya
// hakkında bilgi almak için yardımcılar içerir.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ErrNotFound ffmpeg veya ffprobe sistemde bulunamadığında döner.
var ErrNotFound = errors.New("ffmpeg bulunamadı")

// VideoFormats kaynak olarak kabul edilen video formatları.
var VideoFormats = []string{"mp4", "mov", "mkv", "avi", "webm", "m4v", "wmv", "flv"}

// Runner harici bir komutu çalıştırıp birleşik çıktısını döner.
// Testlerde sahte çalıştırıcı verilebilsin diye fonksiyon tipidir.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner komutu os/exec ile çalıştırır.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// NormalizeFormat format adını standartlaştırır (.MP4 → mp4).
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	return strings.TrimPrefix(format, ".")
}

// DetectFormat dosya uzantısından format algılar.
func DetectFormat(filename string) string {
	return NormalizeFormat(filepath.Ext(filename))
}

// IsVideoFile dosya uzantısı desteklenen bir video formatıysa true döner.
func IsVideoFile(path string) bool {
	f := DetectFormat(path)
	for _, v := range VideoFormats {
		if v == f {
			return true
		}
	}
	return false
}

// FindFFmpeg ffmpeg'i arar. Öncelik sırası: açık yol, FFMPEG_PATH, PATH,
// platforma özgü kurulum dizinleri.
func FindFFmpeg(explicit string) (string, error) {
	return findBinary("ffmpeg", explicit, "FFMPEG_PATH")
}

// FindFFprobe ffprobe'u arar. Açık ffmpeg yolu verildiyse önce aynı dizine bakılır.
func FindFFprobe(ffmpegPath string) (string, error) {
	if ffmpegPath != "" {
		sibling := filepath.Join(filepath.Dir(ffmpegPath), "ffprobe"+filepath.Ext(ffmpegPath))
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	return findBinary("ffprobe", "", "FFPROBE_PATH")
}

// IsFFmpegAvailable ffmpeg'in kullanılabilir olup olmadığını döner.
func IsFFmpegAvailable(explicit string) bool {
	_, err := FindFFmpeg(explicit)
	return err == nil
}

func findBinary(name, explicit, envKey string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		if path, err := exec.LookPath(explicit); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, explicit)
	}

	if envPath := os.Getenv(envKey); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	paths := []string{name}
	switch runtime.GOOS {
	case "darwin":
		paths = append(paths, "/opt/homebrew/bin/"+name, "/usr/local/bin/"+name)
	case "linux":
		paths = append(paths, "/usr/bin/"+name, "/usr/local/bin/"+name)
	}
	for _, p := range paths {
		if path, err := exec.LookPath(p); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w (%s)\n\n"+
		"Kurulum:\n"+
		"  macOS:   brew install ffmpeg\n"+
		"  Ubuntu:  sudo apt install ffmpeg\n"+
		"  Windows: https://ffmpeg.org/download.html", ErrNotFound, name)
}

// Prober ffprobe ile kaynak medya bilgilerini okur.
type Prober struct {
	FFprobePath string
	Run         Runner
}

// NewProber sistemdeki ffprobe ile çalışan bir Prober döner.
func NewProber(ffmpegPath string) (*Prober, error) {
	path, err := FindFFprobe(ffmpegPath)
	if err != nil {
		return nil, err
	}
	return &Prober{FFprobePath: path, Run: ExecRunner}, nil
}

// Duration medyanın süresini saniye olarak döner.
func (p *Prober) Duration(ctx context.Context, input string) (float64, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input,
	)
	if err != nil {
		return 0, err
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil || sec <= 0 {
		return 0, fmt.Errorf("süre okunamadı: %q", strings.TrimSpace(out))
	}
	return sec, nil
}

// FrameRate ilk video akışının kare hızını döner (örn. 30000/1001 → 29.97).
func (p *Prober) FrameRate(ctx context.Context, input string) (float64, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input,
	)
	if err != nil {
		return 0, err
	}
	return ParseFrameRate(strings.TrimSpace(out))
}

func (p *Prober) run(ctx context.Context, args ...string) (string, error) {
	run := p.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, p.FFprobePath, args...)
	if err != nil {
		return "", fmt.Errorf("ffprobe hatası: %w\n%s", err, string(out))
	}
	return string(out), nil
}

// ParseFrameRate "num/den" veya ondalık kare hızı değerini çözer.
func ParseFrameRate(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.SplitN(raw, "\n", 2)[0])
	if num, den, ok := strings.Cut(raw, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 || n <= 0 {
			return 0, fmt.Errorf("geçersiz kare hızı: %q", raw)
		}
		return n / d, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("geçersiz kare hızı: %q", raw)
	}
	return v, nil
}
