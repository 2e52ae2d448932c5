package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocut-cli/internal/installer"
	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/ui"
)

var (
	doctorInstall      bool
	doctorOutputFormat string
)

// doctorReport harici araçların ve yapılandırmanın durumudur.
type doctorReport struct {
	Config         string                 `json:"config,omitempty"`
	PackageManager string                 `json:"package_manager,omitempty"`
	Tools          []installer.ToolStatus `json:"tools"`
	Worker         *installer.ToolStatus  `json:"worker,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Gerekli araçları (ffmpeg, tanıyıcı) denetle",
	Long: `ffmpeg/ffprobe ve konuşma tanıyıcı araçlarının kurulu olup olmadığını
denetler. --install ile eksik araçlar paket yöneticisiyle kurulur.

Örnekler:
  videocut doctor
  videocut doctor --install`,
	RunE: func(cmd *cobra.Command, args []string) error {
		isJSON, err := resolveOutputFormat(doctorOutputFormat)
		if err != nil {
			return err
		}

		report := buildDoctorReport(exec.LookPath)
		if doctorInstall {
			installMissingTools(cmd.Context(), report)
			report = buildDoctorReport(exec.LookPath)
		}
		if isJSON {
			return printJSON(report)
		}
		printDoctorReport(report)
		return nil
	},
}

func buildDoctorReport(lookPath installer.LookPathFunc) doctorReport {
	report := doctorReport{
		Config:         activeConfigPath,
		PackageManager: installer.DetectPackageManager(),
		Tools:          installer.Check(installer.Tools(), lookPath),
	}

	// Yapılandırmadaki açık ffmpeg yolu PATH aramasından önce gelir.
	if path, err := media.FindFFmpeg(activeConfig.FFmpegPath); err == nil && strings.TrimSpace(activeConfig.FFmpegPath) != "" {
		for i := range report.Tools {
			if report.Tools[i].Tool == installer.ToolFFmpeg {
				report.Tools[i].Path = path
				report.Tools[i].Found = true
			}
		}
	}

	if command := strings.TrimSpace(activeConfig.Transcribe.WorkerCommand); command != "" {
		st := installer.ToolStatus{Tool: "worker", Binaries: []string{command}}
		if path, err := lookPath(command); err == nil {
			st.Path = path
			st.Found = true
		}
		report.Worker = &st
	}
	return report
}

func installMissingTools(ctx context.Context, report doctorReport) {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, st := range report.Tools {
		if st.Found {
			continue
		}
		ui.PrintInfo(fmt.Sprintf("%s kuruluyor...", st.Tool))
		desc, err := installer.InstallTool(ctx, st.Tool)
		if err != nil {
			ui.PrintError(err.Error())
			continue
		}
		ui.PrintSuccess(fmt.Sprintf("Kuruldu: %s", desc))
	}
}

func printDoctorReport(report doctorReport) {
	rows := make([][]string, 0, len(report.Tools)+1)
	statuses := report.Tools
	if report.Worker != nil {
		statuses = append(statuses, *report.Worker)
	}
	for _, st := range statuses {
		state := ui.IconSuccess + " hazır"
		where := st.Path
		if !st.Found {
			state = ui.IconError + " eksik"
			where = strings.Join(st.Binaries, ", ")
			if info := installer.GetInstallInfo(st.Tool); info.Supported {
				where += "  (" + info.Description + ")"
			} else if info.ManualURL != "" {
				where += "  (" + info.ManualURL + ")"
			}
		}
		rows = append(rows, []string{st.Tool, state, where})
	}
	ui.PrintTable([]string{"Araç", "Durum", "Konum"}, rows)

	if report.Config != "" {
		ui.PrintInfo(fmt.Sprintf("Yapılandırma: %s", report.Config))
	}
	if report.PackageManager == "" {
		ui.PrintWarning("Paket yöneticisi bulunamadı; eksik araçları elle kurun.")
	}
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorInstall, "install", false, "Eksik araçları paket yöneticisiyle kur")
	addOutputFormatFlag(doctorCmd, &doctorOutputFormat)
	rootCmd.AddCommand(doctorCmd)
}
