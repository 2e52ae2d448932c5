package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/server"
	"github.com/mlihgenel/videocut-cli/internal/transcribe"
	"github.com/mlihgenel/videocut-cli/internal/ui"
)

var (
	serveAddr     string
	serveStrategy string
	serveConflict string
	serveBackend  string
	serveNoASR    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Tarayıcı istemcileri için yerel HTTP API başlatır",
	Long: `Düzenleme oturumlarını HTTP üzerinden yöneten yerel bir API başlatır.
Zaman çizelgesi durumu, kesim/sürükleme/silme komutları, dışa aktarma ve
transkripsiyon işleri bu API üzerinden yürütülür.

Yanıtlar tarayıcıda SharedArrayBuffer kullanılabilsin diye
Cross-Origin-Opener-Policy ve Cross-Origin-Embedder-Policy başlıklarını taşır.

Örnekler:
  videocut serve
  videocut serve --addr 127.0.0.1:9000 --strategy filter
  videocut serve --no-transcribe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("addr") && activeConfig.Server.Addr != "" {
			serveAddr = activeConfig.Server.Addr
		}
		applyStrategyDefault(cmd, "strategy", &serveStrategy)
		applyOnConflictDefault(cmd, "on-conflict", &serveConflict)
		if export.NormalizeConflictPolicy(serveConflict) == "" {
			return fmt.Errorf("gecersiz on-conflict politikasi: %s", serveConflict)
		}

		cfg := server.Config{
			Addr:       serveAddr,
			Logger:     appLogger,
			OutputDir:  outputDir,
			OnConflict: serveConflict,
			Version:    appVersion,
			StartTime:  time.Now(),
		}

		ffmpegPath, err := media.FindFFmpeg(activeConfig.FFmpegPath)
		if err != nil {
			ui.PrintWarning("ffmpeg bulunamadı: süre ölçümü, dışa aktarma ve transkripsiyon kapalı.")
		} else {
			if prober, err := media.NewProber(ffmpegPath); err == nil {
				cfg.Prober = prober
			} else {
				ui.PrintWarning(err.Error())
			}
			t, err := export.NewFFmpegTranscoder(ffmpegPath, serveStrategy, appLogger)
			if err != nil {
				return err
			}
			cfg.Transcoder = t
		}

		if !serveNoASR && ffmpegPath != "" {
			t, closeFn, err := buildTranscriber(serveBackend, activeConfig.Transcribe, appLogger)
			if err != nil {
				ui.PrintWarning(fmt.Sprintf("Transkripsiyon kapalı: %s", err.Error()))
			} else {
				defer closeFn()
				cfg.Transcriber = t
				cfg.ExtractPCM = func(ctx context.Context, input string) ([]float32, error) {
					return transcribe.ExtractPCM(ctx, media.ExecRunner, ffmpegPath, input)
				}
				// worker sürecini ilk istekten önce ısıt
				if w, ok := t.(*transcribe.WorkerTranscriber); ok {
					go func() {
						if err := w.Init(context.Background()); err != nil {
							appLogger.Warn("worker init failed", "error", err)
						}
					}()
				}
			}
		}

		srv := server.NewServer(cfg)
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()
		ui.PrintInfo(fmt.Sprintf("API dinleniyor: http://%s", srv.Addr()))
		ui.PrintInfo("Durdurmak için Ctrl+C kullanın.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		ui.PrintInfo("Sunucu durduruldu.")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8787", "Dinlenecek adres")
	serveCmd.Flags().StringVar(&serveStrategy, "strategy", export.StrategyConcat, "Dışa aktarma stratejisi: concat veya filter")
	serveCmd.Flags().StringVar(&serveConflict, "on-conflict", export.ConflictVersioned, "Çakışma politikası: overwrite, skip, versioned")
	serveCmd.Flags().StringVar(&serveBackend, "backend", backendAuto, "Tanıma arka ucu: auto, worker, http, command")
	serveCmd.Flags().BoolVar(&serveNoASR, "no-transcribe", false, "Transkripsiyon uç noktalarını kapat")

	rootCmd.AddCommand(serveCmd)
}
