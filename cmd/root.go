package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/config"
	"github.com/mlihgenel/videocut-cli/internal/logging"
)

var (
	verbose    bool
	outputDir  string
	workers    int
	configPath string
	logLevel   string

	activeConfig     = config.Default()
	activeConfigPath string
	appLogger        = logging.Discard()

	appVersion = "dev"
	appCommit  = ""
	appDate    = ""
)

// SetVersionInfo build-time version bilgisini ayarlar
func SetVersionInfo(version, commit, date string) {
	if strings.TrimSpace(version) != "" {
		appVersion = version
	}
	appCommit = strings.TrimSpace(commit)
	appDate = strings.TrimSpace(date)
	if appDate == "" || appDate == "unknown" {
		appDate = time.Now().Format("2006-01-02 15:04:05")
	}
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	commit := appCommit
	if commit == "" || commit == "none" {
		commit = "-"
	}
	return fmt.Sprintf(
		"VideoCut CLI v%s\nCommit: %s\nTarih:  %s\nGo:     %s\nOS:     %s/%s\n",
		appVersion, commit, appDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

var rootCmd = &cobra.Command{
	Use:   "videocut",
	Short: "VideoCut CLI - tahribatsız video kesme aracı",
	Long: `VideoCut CLI — Videolarınızı kaynağa dokunmadan düzenleyin.

Kesim noktaları ve silinen aralıklar bir proje dosyasında tutulur; dışa
aktarma sırasında yalnızca korunan segmentler ffmpeg ile birleştirilir.

Komutlar:
  edit        Terminalde zaman çizelgesi editörü
  export      Kesim kararlarını uygulayıp yeni video üret
  transcribe  Konuşmayı zamanlı metne (SRT) çevir
  serve       Tarayıcı istemcileri için yerel HTTP API
  watch       Klasöre düşen kayıtlara aynı düzenlemeyi uygula

Örnekler:
  videocut edit kayit.mp4
  videocut export kayit.mp4 --remove "0:05-0:08,1:20-1:25"
  videocut export kayit.mp4 --project kayit.videocut.json --profile precise
  videocut export ./kayitlar --remove "0-3" --workers 2
  videocut transcribe kayit.mp4 --language tr --out kayit.srt
  videocut serve --addr 127.0.0.1:8787`,
	Version: appVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadActiveConfig(cmd)
	},
}

// Execute CLI'ı çalıştırır
func Execute() error {
	return rootCmd.Execute()
}

// loadActiveConfig yapılandırma dosyasını ve logger'ı hazırlar.
func loadActiveConfig(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, path, err := config.Load(configPath, cwd)
	if err != nil {
		return err
	}
	activeConfig = cfg
	activeConfigPath = path

	if err := applyRootDefaults(cmd); err != nil {
		return err
	}

	level := activeConfig.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	} else if verbose {
		level = "debug"
	}
	appLogger = logging.NewLogger(level, activeConfig.LogFormat, os.Stderr)
	slog.SetDefault(appLogger)
	if activeConfigPath != "" {
		appLogger.Debug("config loaded", "path", logging.SanitizePath(activeConfigPath))
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Detaylı çıktı modu")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Çıktı dizini (varsayılan: kaynak dizin)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Paralel worker sayısı (toplu dışa aktarmada, 0: otomatik)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Yapılandırma dosyası (varsayılan: .videocut.yaml veya ~/.videocut/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log seviyesi: debug, info, warn, error")

	SetVersionInfo(appVersion, appCommit, appDate)

	// Hata mesajlarını özelleştir
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Hata: %s\n\n", err.Error())
		cmd.Usage()
		return err
	})
}
