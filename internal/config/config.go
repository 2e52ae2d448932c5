// Package config videocut varsayılanlarını YAML dosyalarından okur.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config komutların varsayılan değerlerini tutar. Boş alanlar bayrak
// varsayılanlarına bırakılır.
type Config struct {
	OutputDir  string `yaml:"output_dir"`
	OnConflict string `yaml:"on_conflict"`
	Codec      string `yaml:"codec"`
	Strategy   string `yaml:"strategy"`
	Quality    int    `yaml:"quality"`
	Workers    int    `yaml:"workers"`
	Report     string `yaml:"report"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	FFmpegPath string `yaml:"ffmpeg_path"`

	Transcribe TranscribeConfig `yaml:"transcribe"`
	Server     ServerConfig     `yaml:"server"`
}

// TranscribeConfig konuşma tanıma arka uçlarının ayarları.
type TranscribeConfig struct {
	Backend       string   `yaml:"backend"` // worker, http, command
	WorkerCommand string   `yaml:"worker_command"`
	WorkerArgs    []string `yaml:"worker_args"`
	Command       string   `yaml:"command"`
	CommandArgs   []string `yaml:"command_args"`
	HTTPEndpoint  string   `yaml:"http_endpoint"`
	HTTPModel     string   `yaml:"http_model"`
	APIKeyEnv     string   `yaml:"api_key_env"`
	Language      string   `yaml:"language"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default boş bir yapılandırma döner.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Transcribe: TranscribeConfig{
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Server: ServerConfig{Addr: "127.0.0.1:8787"},
	}
}

// APIKey HTTP tanıyıcı için anahtarı ortam değişkeninden okur.
func (t TranscribeConfig) APIKey() string {
	if strings.TrimSpace(t.APIKeyEnv) == "" {
		return ""
	}
	return os.Getenv(t.APIKeyEnv)
}

// Load yapılandırmayı bulur ve okur. explicit verilmişse yalnızca o dosya
// kullanılır; yoksa currentDir'den yukarı doğru proje dosyası, o da yoksa
// kullanıcı dosyası aranır. Hiçbiri yoksa Default ve boş yol döner.
func Load(explicit, currentDir string) (*Config, string, error) {
	path, err := resolveConfigPath(explicit, currentDir)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}

	cfg, err := parseFile(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// UserConfigPath kullanıcı düzeyi yapılandırma dosyasının yolunu döner
// (~/.videocut/config.yaml).
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, userConfigDirName, userConfigFileName), nil
}

// Save yapılandırmayı YAML olarak yazar.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("yapılandırma dosyası bulunamadı: %s", path)
		}
		return nil, fmt.Errorf("yapılandırma okunamadı: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: geçersiz YAML: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.OnConflict = strings.ToLower(strings.TrimSpace(c.OnConflict))
	c.Codec = strings.ToLower(strings.TrimSpace(c.Codec))
	c.Strategy = strings.ToLower(strings.TrimSpace(c.Strategy))
	c.Report = strings.ToLower(strings.TrimSpace(c.Report))
	c.Transcribe.Backend = strings.ToLower(strings.TrimSpace(c.Transcribe.Backend))

	if c.Workers < 0 {
		return fmt.Errorf("workers 0 veya daha büyük olmalı")
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality 0-100 aralığında olmalı")
	}
	switch c.Transcribe.Backend {
	case "", "worker", "http", "command":
	default:
		return fmt.Errorf("geçersiz transcribe.backend: %s", c.Transcribe.Backend)
	}
	return nil
}
