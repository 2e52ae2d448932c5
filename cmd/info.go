package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/ui"
)

var (
	infoOutputFormat string
	infoEdits        editFlags
)

// videoInfo bir videonun ve kayıtlı düzenlemesinin özetidir.
type videoInfo struct {
	FileName       string  `json:"file_name"`
	Path           string  `json:"path"`
	Format         string  `json:"format"`
	Size           int64   `json:"size"`
	Duration       float64 `json:"duration"`
	FrameRate      float64 `json:"frame_rate,omitempty"`
	Project        string  `json:"project,omitempty"`
	Cuts           int     `json:"cuts"`
	RemovedRanges  int     `json:"removed_ranges"`
	EditedDuration float64 `json:"edited_duration"`
}

var infoCmd = &cobra.Command{
	Use:   "info <video-dosyasi>",
	Short: "Video ve kayıtlı düzenleme hakkında bilgi göster",
	Long: `Videonun format, boyut, süre ve kare hızı bilgilerini gösterir. Videonun
yanında bir proje dosyası varsa (veya --project verilirse) kesim sayısı ve
düzenlenmiş süre de listelenir.

Örnekler:
  videocut info kayit.mp4
  videocut info kayit.mp4 --remove "0-3"
  videocut info kayit.mp4 --output-format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		isJSON, err := resolveOutputFormat(infoOutputFormat)
		if err != nil {
			return err
		}
		info, err := collectVideoInfo(context.Background(), args[0], infoEdits, activeConfig.FFmpegPath)
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if isJSON {
			return printJSON(info)
		}
		printVideoInfo(info)
		return nil
	},
}

func collectVideoInfo(ctx context.Context, path string, flags editFlags, ffmpegPath string) (videoInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return videoInfo{}, fmt.Errorf("dosya bulunamadi: %s", path)
	}
	session, err := loadEditSession(ctx, path, flags, probeDuration(ffmpegPath))
	if err != nil {
		return videoInfo{}, err
	}

	info := videoInfo{
		FileName:       filepath.Base(path),
		Path:           path,
		Format:         strings.ToUpper(media.DetectFormat(path)),
		Size:           stat.Size(),
		Duration:       session.Model.Duration(),
		Project:        session.ProjectPath,
		Cuts:           len(session.Model.Cuts()),
		RemovedRanges:  len(session.Model.MergedRemoved()),
		EditedDuration: session.Model.EditedDuration(),
	}
	if p, err := media.NewProber(ffmpegPath); err == nil {
		if fps, err := p.FrameRate(ctx, path); err == nil {
			info.FrameRate = fps
		}
	}
	return info, nil
}

func printVideoInfo(info videoInfo) {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#10B981"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E2E8F0")).
		Width(18)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#64748B"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#334155")).
		Padding(1, 2).
		MarginTop(1)

	var lines []string
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%s  %s", ui.IconVideo, info.FileName)))
	lines = append(lines, dimStyle.Render(strings.Repeat("─", 40)))

	lines = append(lines, formatInfoLine(labelStyle, valueStyle, "Format", info.Format))
	lines = append(lines, formatInfoLine(labelStyle, valueStyle, "Boyut", formatBytes(info.Size)))
	lines = append(lines, formatInfoLine(labelStyle, valueStyle, "Süre", export.FormatSecondsHuman(info.Duration)))
	if info.FrameRate > 0 {
		lines = append(lines, formatInfoLine(labelStyle, valueStyle, "FPS", fmt.Sprintf("%.2f", info.FrameRate)))
	}

	if info.Project != "" || info.Cuts > 0 || info.RemovedRanges > 0 {
		lines = append(lines, dimStyle.Render(strings.Repeat("─", 40)))
		if info.Project != "" {
			lines = append(lines, formatInfoLine(labelStyle, valueStyle, "Proje", filepath.Base(info.Project)))
		}
		lines = append(lines, formatInfoLine(labelStyle, valueStyle, "Kesim", fmt.Sprintf("%d", info.Cuts)))
		lines = append(lines, formatInfoLine(labelStyle, valueStyle, "Silinen aralık", fmt.Sprintf("%d", info.RemovedRanges)))
		lines = append(lines, formatInfoLine(labelStyle, valueStyle, "Düzenlenmiş süre", export.FormatSecondsHuman(info.EditedDuration)))
	}

	fmt.Fprintln(ui.Out, boxStyle.Render(strings.Join(lines, "\n")))
}

func formatInfoLine(labelStyle, valueStyle lipgloss.Style, label, value string) string {
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	addOutputFormatFlag(infoCmd, &infoOutputFormat)
	infoCmd.Flags().StringVar(&infoEdits.Project, "project", "", "Proje dosyası")
	infoCmd.Flags().StringVar(&infoEdits.Cuts, "cut", "", "Kesim noktaları (örn: 0:05,1:20)")
	infoCmd.Flags().StringVar(&infoEdits.Remove, "remove", "", "Silinecek aralıklar (örn: 0:05-0:08)")
	rootCmd.AddCommand(infoCmd)
}
