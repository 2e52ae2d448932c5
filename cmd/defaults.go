package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/profile"
)

const (
	envOutput     = "VIDEOCUT_OUTPUT"
	envWorkers    = "VIDEOCUT_WORKERS"
	envQuality    = "VIDEOCUT_QUALITY"
	envConflict   = "VIDEOCUT_ON_CONFLICT"
	envCodec      = "VIDEOCUT_CODEC"
	envStrategy   = "VIDEOCUT_STRATEGY"
	envRetry      = "VIDEOCUT_RETRY"
	envRetryDelay = "VIDEOCUT_RETRY_DELAY"
	envReport     = "VIDEOCUT_REPORT"
)

// Öncelik: bayrak > ortam değişkeni > yapılandırma dosyası > bayrak varsayılanı.

func applyRootDefaults(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("output") {
		if v := strings.TrimSpace(os.Getenv(envOutput)); v != "" {
			outputDir = v
		} else if activeConfig != nil && strings.TrimSpace(activeConfig.OutputDir) != "" {
			outputDir = strings.TrimSpace(activeConfig.OutputDir)
		}
	}

	if !cmd.Flags().Changed("workers") {
		if v, ok := readEnvInt(envWorkers); ok && v > 0 {
			workers = v
		} else if activeConfig != nil && activeConfig.Workers > 0 {
			workers = activeConfig.Workers
		}
	}

	return nil
}

func applyQualityDefault(cmd *cobra.Command, flagName string, value *int) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	if v, ok := readEnvInt(envQuality); ok && v >= 0 {
		*value = v
		return
	}
	if activeConfig != nil && activeConfig.Quality > 0 {
		*value = activeConfig.Quality
	}
}

func applyStringDefault(cmd *cobra.Command, flagName, envName, configValue string, value *string) {
	if cmd.Flags().Changed(flagName) {
		return
	}
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		*value = strings.ToLower(v)
		return
	}
	if strings.TrimSpace(configValue) != "" {
		*value = strings.ToLower(strings.TrimSpace(configValue))
	}
}

func applyOnConflictDefault(cmd *cobra.Command, flagName string, value *string) {
	applyStringDefault(cmd, flagName, envConflict, activeConfig.OnConflict, value)
}

func applyCodecDefault(cmd *cobra.Command, flagName string, value *string) {
	applyStringDefault(cmd, flagName, envCodec, activeConfig.Codec, value)
}

func applyStrategyDefault(cmd *cobra.Command, flagName string, value *string) {
	applyStringDefault(cmd, flagName, envStrategy, activeConfig.Strategy, value)
}

func applyReportDefault(cmd *cobra.Command, flagName string, value *string) {
	applyStringDefault(cmd, flagName, envReport, activeConfig.Report, value)
}

func applyRetryDefaults(cmd *cobra.Command, retryFlag string, retryValue *int, delayFlag string, delayValue *time.Duration) {
	if !cmd.Flags().Changed(retryFlag) {
		if v, ok := readEnvInt(envRetry); ok && v >= 0 {
			*retryValue = v
		}
	}

	if !cmd.Flags().Changed(delayFlag) {
		if v, ok := readEnvDuration(envRetryDelay); ok {
			*delayValue = v
		}
	}
}

// exportSettings bir dışa aktarma komutunun profil ile birleşen ayarlarıdır.
type exportSettings struct {
	Strategy      string
	Codec         string
	Quality       int
	OnConflict    string
	Report        string
	StripMetadata bool
}

// applyProfile profil alanlarını yalnızca kullanıcının açıkça vermediği
// bayraklara uygular.
func applyProfile(cmd *cobra.Command, p profile.Definition, s *exportSettings) {
	changed := cmd.Flags().Changed
	if p.Strategy != "" && !changed("strategy") {
		s.Strategy = p.Strategy
	}
	if p.Codec != "" && !changed("codec") {
		s.Codec = p.Codec
	}
	if p.Quality != nil && !changed("quality") {
		s.Quality = *p.Quality
	}
	if p.OnConflict != "" && !changed("on-conflict") {
		s.OnConflict = p.OnConflict
	}
	if p.Report != "" && !changed("report") {
		s.Report = p.Report
	}
	if p.StripMetadata != nil && !changed("strip-metadata") {
		s.StripMetadata = *p.StripMetadata
	}
}

func readEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
