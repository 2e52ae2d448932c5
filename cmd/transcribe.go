package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/config"
	"github.com/mlihgenel/videocut-cli/internal/logging"
	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/subtitle"
	"github.com/mlihgenel/videocut-cli/internal/transcribe"
	"github.com/mlihgenel/videocut-cli/internal/ui"
)

const (
	backendAuto    = "auto"
	backendWorker  = "worker"
	backendHTTP    = "http"
	backendCommand = "command"

	defaultHTTPEndpoint  = "https://api.openai.com/v1"
	defaultWhisperBinary = "whisper-cli"
)

var (
	transcribeBackend  string
	transcribeLanguage string
	transcribeTask     string
	transcribeOut      string
	transcribeFormat   string
	transcribeEdited   bool
	transcribeEdits    editFlags
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <video-dosyasi>",
	Short: "Videodaki konuşmayı zamanlı metne çevirir (SRT/JSON)",
	Long: `Ses izini 16 kHz mono örneklere çevirir ve yapılandırılmış konuşma
tanıma arka ucuna verir. Arka uçlar:
  - worker:  uzun ömürlü süreç (stdin/stdout JSON satırları)
  - http:    OpenAI uyumlu /audio/transcriptions servisi
  - command: tek seferlik komut (varsayılan whisper.cpp "whisper-cli")
  - auto:    yapılandırmaya göre seçer; birincil başarısız olursa ikinciyi dener

--edited verildiğinde cue'lar düzenlenmiş zamana taşınır; silinen
aralıklara düşen cue'lar atılır.

Örnekler:
  videocut transcribe kayit.mp4 --language tr
  videocut transcribe kayit.mp4 --backend http --out kayit.srt
  videocut transcribe kayit.mp4 --edited --remove "0:10-0:20" --out kisa.srt
  videocut transcribe kayit.mp4 --format json --task translate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		if !fileExists(input) {
			return fmt.Errorf("dosya bulunamadi: %s", input)
		}
		format := strings.ToLower(strings.TrimSpace(transcribeFormat))
		if format != "srt" && format != "json" {
			return fmt.Errorf("geçersiz format: %s (srt|json)", transcribeFormat)
		}
		if !cmd.Flags().Changed("language") && activeConfig.Transcribe.Language != "" {
			transcribeLanguage = activeConfig.Transcribe.Language
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ffmpegPath, err := media.FindFFmpeg(activeConfig.FFmpegPath)
		if err != nil {
			return err
		}
		t, closeFn, err := buildTranscriber(transcribeBackend, activeConfig.Transcribe, appLogger)
		if err != nil {
			return err
		}
		defer closeFn()

		var mapper subtitle.Mapper
		if transcribeEdited {
			session, err := loadEditSession(ctx, input, transcribeEdits, probeDuration(activeConfig.FFmpegPath))
			if err != nil {
				return err
			}
			mapper = session.Model
		}

		started := time.Now()
		ui.PrintInfo("Ses izi çıkarılıyor...")
		pcm, err := transcribe.ExtractPCM(ctx, media.ExecRunner, ffmpegPath, input)
		if err != nil {
			return err
		}
		ui.PrintInfo(fmt.Sprintf("Konuşma tanınıyor (%s ses)...", timeFromSamples(len(pcm))))
		cues, err := t.Transcribe(ctx, pcm, transcribe.Options{Language: transcribeLanguage, Task: transcribeTask})
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if mapper != nil {
			cues = subtitle.RemapToEdited(cues, mapper)
		}

		data, err := renderTranscript(format, cues)
		if err != nil {
			return err
		}
		out := strings.TrimSpace(transcribeOut)
		if out == "" {
			out = defaultTranscriptPath(input, format, transcribeEdited)
		}
		if out == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("transkript yazılamadı: %w", err)
		}

		ui.PrintSuccess(fmt.Sprintf("%d cue yazıldı: %s", len(cues), out))
		ui.PrintDuration(time.Since(started))
		return nil
	},
}

// buildTranscriber yapılandırmadan tanıyıcı kurar. Dönen kapatma fonksiyonu
// worker sürecini sonlandırır ve her zaman çağrılabilir.
func buildTranscriber(backend string, cfg config.TranscribeConfig, logger *slog.Logger) (transcribe.Transcriber, func() error, error) {
	noop := func() error { return nil }
	logger = logging.WithComponent(logger, "transcribe")

	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" || backend == backendAuto {
		backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	}

	newWorker := func() (*transcribe.WorkerTranscriber, error) {
		if strings.TrimSpace(cfg.WorkerCommand) == "" {
			return nil, fmt.Errorf("worker arka ucu için transcribe.worker_command ayarlanmalı")
		}
		return transcribe.NewWorkerTranscriber(cfg.WorkerCommand, cfg.WorkerArgs, logger), nil
	}
	newHTTP := func() transcribe.Transcriber {
		endpoint := strings.TrimSpace(cfg.HTTPEndpoint)
		if endpoint == "" {
			endpoint = defaultHTTPEndpoint
		}
		return transcribe.NewHTTPTranscriber(endpoint, cfg.APIKey(), cfg.HTTPModel)
	}
	newCommand := func() transcribe.Transcriber {
		command := strings.TrimSpace(cfg.Command)
		if command == "" {
			command = defaultWhisperBinary
		}
		return transcribe.NewCommandTranscriber(command, cfg.CommandArgs)
	}

	switch backend {
	case backendWorker:
		w, err := newWorker()
		if err != nil {
			return nil, noop, err
		}
		return w, w.Close, nil
	case backendHTTP:
		return newHTTP(), noop, nil
	case backendCommand:
		return newCommand(), noop, nil
	case "", backendAuto:
		// worker varsa birincil odur; ikincil yol HTTP (anahtar varsa) veya komuttur.
		var secondary transcribe.Transcriber
		if strings.TrimSpace(cfg.HTTPEndpoint) != "" || cfg.APIKey() != "" {
			secondary = newHTTP()
		} else {
			secondary = newCommand()
		}
		if strings.TrimSpace(cfg.WorkerCommand) == "" {
			return secondary, noop, nil
		}
		w, err := newWorker()
		if err != nil {
			return nil, noop, err
		}
		return &transcribe.Fallback{Primary: w, Secondary: secondary, Logger: logger}, w.Close, nil
	default:
		return nil, noop, fmt.Errorf("geçersiz arka uç: %s (auto|worker|http|command)", backend)
	}
}

func renderTranscript(format string, cues []subtitle.Cue) ([]byte, error) {
	if format == "json" {
		if cues == nil {
			cues = []subtitle.Cue{}
		}
		data, err := json.MarshalIndent(cues, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return []byte(subtitle.RenderSRT(cues)), nil
}

func defaultTranscriptPath(input, format string, edited bool) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if edited {
		base += "_edited"
	}
	return base + "." + format
}

func timeFromSamples(n int) string {
	return ui.FormatDuration(time.Duration(float64(n) / transcribe.SampleRate * float64(time.Second)))
}

func init() {
	transcribeCmd.Flags().StringVar(&transcribeBackend, "backend", backendAuto, "Tanıma arka ucu: auto, worker, http, command")
	transcribeCmd.Flags().StringVarP(&transcribeLanguage, "language", "l", "", "Konuşma dili (örn: tr, en; boş: otomatik)")
	transcribeCmd.Flags().StringVar(&transcribeTask, "task", "transcribe", "Görev: transcribe veya translate")
	transcribeCmd.Flags().StringVar(&transcribeOut, "out", "", "Çıktı dosyası (- : stdout)")
	transcribeCmd.Flags().StringVar(&transcribeFormat, "format", "srt", "Çıktı formatı: srt veya json")
	transcribeCmd.Flags().BoolVar(&transcribeEdited, "edited", false, "Cue'ları düzenlenmiş zamana taşı")
	transcribeCmd.Flags().StringVar(&transcribeEdits.Project, "project", "", "Proje dosyası (--edited ile)")
	transcribeCmd.Flags().StringVar(&transcribeEdits.Cuts, "cut", "", "Kesim noktaları (zamanlamayı etkilemez, örn: 0:05)")
	transcribeCmd.Flags().StringVar(&transcribeEdits.Remove, "remove", "", "Silinen aralıklar (--edited ile, örn: 0:05-0:08)")

	rootCmd.AddCommand(transcribeCmd)
}
