// Package project düzenleme kararlarını (kesimler ve silinen aralıklar)
// diske yazıp geri okur. Video dosyası hiçbir zaman değiştirilmez.
package project

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

const (
	// CurrentVersion proje dosyası biçim sürümüdür.
	CurrentVersion = 1
	// FileSuffix videonun yanındaki proje dosyasının son ekidir.
	FileSuffix = ".videocut.json"
)

// File tek bir videonun düzenleme kararlarını tutar.
type File struct {
	Version  int              `json:"version" yaml:"version"`
	Input    string           `json:"input" yaml:"input"`
	Output   string           `json:"output,omitempty" yaml:"output,omitempty"`
	Duration float64          `json:"duration,omitempty" yaml:"duration,omitempty"`
	Cuts     []float64        `json:"cuts,omitempty" yaml:"cuts,omitempty"`
	Removed  []timeline.Range `json:"removed" yaml:"removed"`
}

// FromModel modelin anlık kararlarından proje dosyası üretir.
func FromModel(m *timeline.Model, input string) File {
	return File{
		Version:  CurrentVersion,
		Input:    input,
		Duration: m.Duration(),
		Cuts:     m.Cuts(),
		Removed:  m.MergedRemoved(),
	}
}

// Apply kararları modele yükler. Model verilen süreyle sıfırlanır; dosyadaki
// süre farklıysa (video yeniden kodlanmışsa) aralıklar yeni süreye kırpılır.
func (f File) Apply(m *timeline.Model, duration float64) {
	m.Load(duration)
	for _, c := range f.Cuts {
		m.AddCut(c)
	}
	for _, r := range f.Removed {
		r.End = math.Min(r.End, duration)
		m.AddRemoved(r)
	}
}

// Validate dosya içeriğini doğrular.
func (f File) Validate() error {
	if strings.TrimSpace(f.Input) == "" {
		return fmt.Errorf("input zorunlu")
	}
	if f.Version > CurrentVersion {
		return fmt.Errorf("desteklenmeyen proje sürümü: %d", f.Version)
	}
	for i, r := range f.Removed {
		if math.IsNaN(r.Start) || math.IsNaN(r.End) || r.Start < 0 || r.End <= r.Start {
			return fmt.Errorf("removed[%d] geçersiz aralık: %v-%v", i, r.Start, r.End)
		}
		if f.Duration > 0 && r.Start >= f.Duration {
			return fmt.Errorf("removed[%d] video süresinin dışında: %v", i, r.Start)
		}
	}
	for i, c := range f.Cuts {
		if math.IsNaN(c) || c < 0 {
			return fmt.Errorf("cuts[%d] geçersiz: %v", i, c)
		}
	}
	return nil
}

// Load proje dosyasını uzantısına göre JSON veya YAML olarak okur.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	var f File
	if isYAML(path) {
		err = yaml.Unmarshal(data, &f)
	} else {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return File{}, fmt.Errorf("proje dosyası okunamadı: %w", err)
	}
	if f.Version == 0 {
		f.Version = CurrentVersion
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	// Göreli input yolu dosyanın bulunduğu dizine göredir.
	if !filepath.IsAbs(f.Input) {
		f.Input = filepath.Join(filepath.Dir(path), f.Input)
	}
	return f, nil
}

// Save proje dosyasını uzantısına göre JSON veya YAML olarak yazar.
func Save(path string, f File) error {
	if f.Version == 0 {
		f.Version = CurrentVersion
	}
	if err := f.Validate(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath video için varsayılan proje dosyası yolunu döner
// (video.mp4 -> video.videocut.json).
func DefaultPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + FileSuffix
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ApplyToEditor kararları açık bir editöre yükler; medya süresi ve oynatma
// konumu korunur.
func (f File) ApplyToEditor(e *timeline.Editor) {
	e.ApplyEdits(f.Cuts, f.Removed)
}
