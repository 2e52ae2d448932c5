package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/project"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

// durationFunc medya süresini ölçer; testlerde sabit değer döndürülür.
type durationFunc func(ctx context.Context, input string) (float64, error)

// editFlags düzenleme kararlarının komut satırından gelen kaynaklarıdır.
type editFlags struct {
	Project string
	Cuts    string
	Remove  string
}

func (f editFlags) inline() bool {
	return strings.TrimSpace(f.Cuts) != "" || strings.TrimSpace(f.Remove) != ""
}

// editSession bir videonun yüklenmiş düzenleme modelidir.
type editSession struct {
	Input       string
	Model       *timeline.Model
	ProjectPath string
}

func probeDuration(ffmpegPath string) durationFunc {
	return func(ctx context.Context, input string) (float64, error) {
		p, err := media.NewProber(ffmpegPath)
		if err != nil {
			return 0, err
		}
		return p.Duration(ctx, input)
	}
}

// loadEditSession videonun süresini ölçer ve kararları sırayla uygular:
// proje dosyası (açıkça verilen veya videonun yanındaki), ardından --cut ve
// --remove bayrakları. Süre ölçülemezse proje dosyasındaki süre kullanılır.
func loadEditSession(ctx context.Context, input string, flags editFlags, probe durationFunc) (*editSession, error) {
	if _, err := os.Stat(input); err != nil {
		return nil, fmt.Errorf("dosya bulunamadi: %s", input)
	}

	var file *project.File
	projectPath := strings.TrimSpace(flags.Project)
	if projectPath == "" && !flags.inline() {
		if candidate := project.DefaultPath(input); fileExists(candidate) {
			projectPath = candidate
		}
	}
	if projectPath != "" {
		f, err := project.Load(projectPath)
		if err != nil {
			return nil, err
		}
		file = &f
	}

	duration, err := probe(ctx, input)
	if err != nil || duration <= 0 {
		if file == nil || file.Duration <= 0 {
			if err == nil {
				err = errors.New("süre sıfır")
			}
			return nil, fmt.Errorf("video süresi okunamadı: %w", err)
		}
		duration = file.Duration
	}

	m := timeline.NewModel(duration)
	if file != nil {
		file.Apply(m, duration)
	}

	if strings.TrimSpace(flags.Cuts) != "" {
		cuts, err := parseCutsSpec(flags.Cuts)
		if err != nil {
			return nil, err
		}
		for _, c := range cuts {
			m.AddCut(c)
		}
	}
	if strings.TrimSpace(flags.Remove) != "" {
		ranges, err := parseRangesSpec(flags.Remove)
		if err != nil {
			return nil, err
		}
		for _, r := range ranges {
			if r.Start >= duration {
				return nil, fmt.Errorf("aralık video süresinin dışında: %s", timeline.FormatClock(r.Start))
			}
			m.AddRemoved(r)
		}
	}

	return &editSession{Input: input, Model: m, ProjectPath: projectPath}, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
