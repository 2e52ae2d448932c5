package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/batch"
	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/logging"
	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/ui"
	cutwatch "github.com/mlihgenel/videocut-cli/internal/watch"
)

var (
	watchEdits      editFlags
	watchFrom       string
	watchTo         string
	watchRecursive  bool
	watchStrategy   string
	watchCodec      string
	watchQuality    int
	watchOnConflict string
	watchRetry      int
	watchRetryDelay time.Duration
	watchInterval   time.Duration
	watchSettle     time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dizin>",
	Short: "Klasöre düşen yeni kayıtlara aynı düzenlemeyi uygular",
	Long: `Belirtilen klasörü izler ve yeni/değişen videolara aynı kesim kararlarını
uygulayıp dışa aktarır. Kararlar --remove/--cut bayraklarından veya şablon
olarak kullanılan bir proje dosyasından (--project) gelir.

fsnotify kullanılabiliyorsa olay tabanlı, değilse polling ile çalışır.
Adında "_edited_" geçen dosyalar (dışa aktarma çıktıları) işlenmez. Bir
videonun yanındaki proje dosyası (video.videocut.json) kaydedildiğinde o video
proje kararlarıyla yeniden dışa aktarılır.

Örnekler:
  videocut watch ./kayitlar --remove "0-3"
  videocut watch ./kayitlar --from mov --remove "0-5" --codec reencode --to mp4
  videocut watch ./kayitlar --project sablon.videocut.yaml --recursive`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceDir := args[0]
		if !watchEdits.inline() && strings.TrimSpace(watchEdits.Project) == "" {
			return fmt.Errorf("--remove, --cut veya --project belirtilmeli")
		}

		if err := validateWatchTiming(watchInterval, watchSettle); err != nil {
			return err
		}
		target, err := resolveWatchTarget(watchTo)
		if err != nil {
			return err
		}

		applyQualityDefault(cmd, "quality", &watchQuality)
		applyOnConflictDefault(cmd, "on-conflict", &watchOnConflict)
		applyCodecDefault(cmd, "codec", &watchCodec)
		applyStrategyDefault(cmd, "strategy", &watchStrategy)
		applyRetryDefaults(cmd, "retry", &watchRetry, "retry-delay", &watchRetryDelay)

		conflictPolicy := export.NormalizeConflictPolicy(watchOnConflict)
		if conflictPolicy == "" {
			return fmt.Errorf("gecersiz on-conflict politikasi: %s", watchOnConflict)
		}
		if export.NormalizeCodec(watchCodec) == "" {
			return fmt.Errorf("gecersiz codec modu: %s (auto|copy|reencode)", watchCodec)
		}

		transcoder, err := export.NewFFmpegTranscoder(activeConfig.FFmpegPath, watchStrategy, appLogger)
		if err != nil {
			return err
		}

		w, err := cutwatch.New(cutwatch.Options{
			Root:      sourceDir,
			Format:    watchFrom,
			Recursive: watchRecursive,
			Settle:    watchSettle,
			Logger:    logging.WithComponent(appLogger, "watch"),
		})
		if err != nil {
			ui.PrintWarning(fmt.Sprintf("Olay tabanlı izleme başlatılamadı, polling kullanılacak: %s", err.Error()))
		}
		defer w.Close()
		if err := w.Bootstrap(); err != nil {
			return err
		}

		pool := batch.NewPool(workers, transcoder)
		pool.SetRetry(watchRetry, watchRetryDelay)

		label := "tüm videolar"
		if f := media.NormalizeFormat(watchFrom); f != "" {
			label = "." + f
		}
		ui.PrintInfo(fmt.Sprintf("İzleme başladı: %s (%s, mod: %s)", sourceDir, label, w.Mode()))
		ui.PrintInfo("Durdurmak için Ctrl+C kullanın.")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		probe := probeDuration(activeConfig.FFmpegPath)

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
			case <-w.Events():
			case <-ctx.Done():
				ui.PrintInfo("İzleme durduruldu.")
				return nil
			}

			recordings, err := w.Poll(time.Now())
			if err != nil {
				ui.PrintError(fmt.Sprintf("İzleme hatası: %s", err.Error()))
				continue
			}
			if len(recordings) == 0 {
				continue
			}

			jobs := buildWatchJobs(ctx, recordings, target, conflictPolicy, probe)
			if len(jobs) == 0 {
				continue
			}

			startedAt := time.Now()
			results := pool.Execute(ctx, jobs)
			summary := batch.GetSummary(results, time.Since(startedAt))
			ui.PrintBatchSummary(summary.Total, summary.Succeeded, summary.Skipped, summary.Failed, summary.Duration)

			if len(summary.Errors) > 0 {
				ui.PrintError("Başarısız işler:")
				for _, e := range summary.Errors {
					fmt.Fprintf(ui.Out, "  %s %s: %s (deneme: %d)\n", ui.IconError, e.InputFile, e.Error, e.Attempts)
				}
				fmt.Fprintln(ui.Out)
			}
		}
	},
}

// buildWatchJobs hazır kayıtlar için dışa aktarma işleri kurar. Videonun
// yanında editörde kaydedilmiş bir proje varsa şablon kararların yerine o
// kullanılır.
func buildWatchJobs(ctx context.Context, recordings []cutwatch.Recording, target, policy string, probe durationFunc) []batch.Job {
	jobs := make([]batch.Job, 0, len(recordings))
	reserved := make(map[string]struct{}, len(recordings))
	now := time.Now()
	for _, rec := range recordings {
		f := rec.Path
		flags := watchEdits
		if rec.Project != "" {
			flags = editFlags{Project: rec.Project}
		}
		ui.PrintInfo(fmt.Sprintf("%s %s (%s)", ui.IconVideo, filepath.Base(f), watchReasonLabel(rec.Reason)))

		session, err := loadEditSession(ctx, f, flags, probe)
		if err != nil {
			ui.PrintError(fmt.Sprintf("%s: %s", f, err.Error()))
			continue
		}
		base := export.BuildOutputPath(f, target, outputDir, "", now)
		output, skipReason, err := batch.ReserveOutput(base, policy, reserved)
		if err != nil {
			ui.PrintError(fmt.Sprintf("Çıktı yolu oluşturulamadı: %s", err.Error()))
			continue
		}
		codec, _, err := export.ResolveCodec(f, output, watchCodec)
		if err != nil {
			ui.PrintError(err.Error())
			continue
		}
		jobs = append(jobs, batch.Job{
			Export: export.Job{
				Input:    f,
				Output:   output,
				Segments: session.Model.KeepSegments(),
				Codec:    codec,
				Quality:  watchQuality,
				Verbose:  verbose,
			},
			SkipReason: skipReason,
		})
	}
	return jobs
}

// validateWatchTiming tarama aralığının ve bekleme süresinin pozitif olduğunu denetler.
func validateWatchTiming(interval, settle time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("geçersiz --interval: %s (pozitif olmalı)", interval)
	}
	if settle < 0 {
		return fmt.Errorf("geçersiz --settle: %s (negatif olamaz)", settle)
	}
	return nil
}

// resolveWatchTarget --to değerini normalize eder; boşsa kaynak format korunur.
func resolveWatchTarget(format string) (string, error) {
	target := media.NormalizeFormat(format)
	if target == "" {
		return "", nil
	}
	if !media.IsVideoFile("x." + target) {
		return "", fmt.Errorf("desteklenmeyen hedef format: %s", format)
	}
	return target, nil
}

func watchReasonLabel(reason string) string {
	switch reason {
	case cutwatch.ReasonProject:
		return "proje güncellendi"
	case cutwatch.ReasonModified:
		return "dosya değişti"
	default:
		return "yeni kayıt"
	}
}

func init() {
	watchCmd.Flags().StringVar(&watchEdits.Project, "project", "", "Şablon proje dosyası")
	watchCmd.Flags().StringVar(&watchEdits.Cuts, "cut", "", "Kesim noktaları (örn: 0:05,1:20)")
	watchCmd.Flags().StringVar(&watchEdits.Remove, "remove", "", "Silinecek aralıklar (örn: 0-3,0:50-1:00)")
	watchCmd.Flags().StringVarP(&watchFrom, "from", "f", "", "Sadece bu formattaki videoları izle (boş: tümü)")
	watchCmd.Flags().StringVar(&watchTo, "to", "", "Hedef format (örn: mp4; varsayılan: kaynak)")
	watchCmd.Flags().BoolVarP(&watchRecursive, "recursive", "r", false, "Alt dizinleri de izle")
	watchCmd.Flags().StringVar(&watchStrategy, "strategy", export.StrategyConcat, "Birleştirme stratejisi: concat veya filter")
	watchCmd.Flags().StringVar(&watchCodec, "codec", export.CodecAuto, "Codec modu: auto, copy veya reencode")
	watchCmd.Flags().IntVarP(&watchQuality, "quality", "q", 0, "Reencode modunda kalite seviyesi (1-100)")
	watchCmd.Flags().StringVar(&watchOnConflict, "on-conflict", export.ConflictVersioned, "Çakışma politikası: overwrite, skip, versioned")
	watchCmd.Flags().IntVar(&watchRetry, "retry", 0, "Başarısız işler için otomatik tekrar sayısı")
	watchCmd.Flags().DurationVar(&watchRetryDelay, "retry-delay", 500*time.Millisecond, "Retry denemeleri arası bekleme (örn: 500ms, 2s)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "Klasör tarama aralığı")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 1500*time.Millisecond, "Dosyanın stabil sayılması için bekleme süresi")

	rootCmd.AddCommand(watchCmd)
}
