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
	"github.com/mlihgenel/videocut-cli/internal/media"
	"github.com/mlihgenel/videocut-cli/internal/profile"
	"github.com/mlihgenel/videocut-cli/internal/project"
	"github.com/mlihgenel/videocut-cli/internal/subtitle"
	"github.com/mlihgenel/videocut-cli/internal/transcribe"
	"github.com/mlihgenel/videocut-cli/internal/ui"
)

var (
	exportEdits       editFlags
	exportProfile     string
	exportStrategy    string
	exportCodec       string
	exportQuality     int
	exportTo          string
	exportOutputFile  string
	exportConflict    string
	exportReport      string
	exportBatchReport string
	exportStripMD     bool
	exportVideoOnly   bool
	exportDryRun      bool
	exportEDL         bool
	exportSRT         bool
	exportSave        bool
	exportRecursive   bool
	exportRetry       int
	exportRetryDelay  time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export <video-dosyasi|dizin>...",
	Short: "Kesim kararlarını uygulayıp düzenlenmiş videoyu üretir",
	Long: `Silinen aralıkların dışında kalan segmentleri ffmpeg ile birleştirerek yeni
bir video üretir. Kaynak dosya değiştirilmez.

Kararlar şu sırayla okunur: --project (veya videonun yanındaki
<ad>.videocut.json), ardından --cut ve --remove bayrakları.

Stratejiler:
  - concat: her segment ayrı kesilir, concat demuxer ile birleştirilir
  - filter: tek geçişte trim/atrim filtre grafiği (her zaman reencode)

Çıktı adı: <kaynak>_edited_<YYYY-MM-DD>.<uzantı>

Örnekler:
  videocut export kayit.mp4 --remove "0:05-0:08,1:20-1:25"
  videocut export kayit.mp4 --remove "5-8" --dry-run
  videocut export kayit.mp4 --project kayit.videocut.json --profile precise
  videocut export kayit.mp4 --remove "0-2" --edl --report pdf
  videocut export ./kayitlar --remove "0-3" --workers 2 --batch-report json
  videocut export kayit.mov --remove "10-20" --to mp4 --codec reencode --quality 80`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveExportSettings(cmd)
		if err != nil {
			return err
		}

		inputs, err := collectExportInputs(args, exportRecursive)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			ui.PrintWarning("Dışa aktarılacak video bulunamadı.")
			return nil
		}
		if len(inputs) > 1 && strings.TrimSpace(exportOutputFile) != "" {
			return fmt.Errorf("--output-file yalnızca tek video ile kullanılabilir")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		probe := probeDuration(activeConfig.FFmpegPath)
		planned, err := planExports(ctx, inputs, settings, probe, time.Now())
		if err != nil {
			return err
		}

		if exportDryRun {
			for _, p := range planned {
				printExportPlan(p)
			}
			ui.PrintInfo("İşlemi uygulamak için --dry-run flag'ini kaldırın.")
			return nil
		}

		transcoder, err := export.NewFFmpegTranscoder(activeConfig.FFmpegPath, settings.Strategy, appLogger)
		if err != nil {
			return err
		}
		return runExports(ctx, planned, settings, transcoder)
	},
}

// plannedExport tek bir videonun dışa aktarma planıdır.
type plannedExport struct {
	Session *editSession
	Plan    export.Plan
	Job     batch.Job
}

func resolveExportSettings(cmd *cobra.Command) (exportSettings, error) {
	applyQualityDefault(cmd, "quality", &exportQuality)
	applyOnConflictDefault(cmd, "on-conflict", &exportConflict)
	applyCodecDefault(cmd, "codec", &exportCodec)
	applyStrategyDefault(cmd, "strategy", &exportStrategy)
	applyReportDefault(cmd, "report", &exportReport)
	applyRetryDefaults(cmd, "retry", &exportRetry, "retry-delay", &exportRetryDelay)

	s := exportSettings{
		Strategy:      exportStrategy,
		Codec:         exportCodec,
		Quality:       exportQuality,
		OnConflict:    exportConflict,
		Report:        exportReport,
		StripMetadata: exportStripMD,
	}
	if strings.TrimSpace(exportProfile) != "" {
		p, err := profile.Resolve(exportProfile)
		if err != nil {
			return s, err
		}
		applyProfile(cmd, p, &s)
	}

	if s.Strategy = export.NormalizeStrategy(s.Strategy); s.Strategy == "" {
		return s, fmt.Errorf("gecersiz strateji: %s (concat|filter)", exportStrategy)
	}
	if export.NormalizeCodec(s.Codec) == "" {
		return s, fmt.Errorf("gecersiz codec modu: %s (auto|copy|reencode)", s.Codec)
	}
	if s.OnConflict = export.NormalizeConflictPolicy(s.OnConflict); s.OnConflict == "" {
		return s, fmt.Errorf("gecersiz on-conflict politikasi: %s", exportConflict)
	}
	if s.Report = export.NormalizeReportFormat(s.Report); s.Report == "" {
		return s, fmt.Errorf("gecersiz report formati: %s (off|txt|json|md|html|pdf)", exportReport)
	}
	if batch.NormalizeReportFormat(exportBatchReport) == "" {
		return s, fmt.Errorf("gecersiz batch-report formati: %s (off|txt|json)", exportBatchReport)
	}
	if s.Quality < 0 || s.Quality > 100 {
		return s, fmt.Errorf("kalite 0-100 arasında olmalı: %d", s.Quality)
	}
	// filter stratejisi filtre grafiği kullandığı için akış kopyalanamaz.
	if s.Strategy == export.StrategyFilter && export.NormalizeCodec(s.Codec) == export.CodecCopy {
		return s, fmt.Errorf("--strategy filter ile --codec copy kullanılamaz")
	}
	return s, nil
}

// collectExportInputs dosya ve dizin argümanlarını video listesine açar.
func collectExportInputs(args []string, recursive bool) ([]string, error) {
	var inputs []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		inputs = append(inputs, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("dosya bulunamadi: %s", arg)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		files, err := batch.CollectVideos(arg, "", recursive)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if strings.Contains(filepath.Base(f), "_edited_") {
				continue
			}
			add(f)
		}
	}
	return inputs, nil
}

func planExports(ctx context.Context, inputs []string, s exportSettings, probe durationFunc, now time.Time) ([]plannedExport, error) {
	reserved := make(map[string]struct{}, len(inputs))
	planned := make([]plannedExport, 0, len(inputs))

	for _, input := range inputs {
		session, err := loadEditSession(ctx, input, exportEdits, probe)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}

		target := media.NormalizeFormat(exportTo)
		base := export.BuildOutputPath(input, target, outputDir, exportOutputFile, now)
		output, skipReason, err := batch.ReserveOutput(base, s.OnConflict, reserved)
		if err != nil {
			return nil, err
		}
		codec, note, err := export.ResolveCodec(input, output, s.Codec)
		if err != nil {
			return nil, err
		}
		if s.Strategy == export.StrategyFilter {
			codec = export.CodecReencode
		}

		plan := export.NewPlan(session.Model, input, output)
		plan.Strategy = s.Strategy
		plan.Codec = codec
		plan.CodecNote = note
		plan.Quality = s.Quality
		plan.ConflictPolicy = s.OnConflict
		plan.WouldSkip = skipReason != ""
		plan.CreatedAt = now

		planned = append(planned, plannedExport{
			Session: session,
			Plan:    plan,
			Job: batch.Job{
				Export: export.Job{
					Input:         input,
					Output:        output,
					Segments:      session.Model.KeepSegments(),
					Codec:         codec,
					Quality:       s.Quality,
					StripMetadata: s.StripMetadata,
					VideoOnly:     exportVideoOnly,
					Verbose:       verbose,
				},
				SkipReason: skipReason,
			},
		})
	}
	return planned, nil
}

func printExportPlan(p plannedExport) {
	plan := p.Plan
	ui.PrintInfo("Ön izleme modu (--dry-run) — işlem yapılmayacak.")
	ui.PrintExport(plan.Input, plan.Output)
	if p.Session.ProjectPath != "" {
		ui.PrintInfo(fmt.Sprintf("Proje dosyası: %s", p.Session.ProjectPath))
	}
	if plan.CodecNote != "" {
		ui.PrintInfo(plan.CodecNote)
	}
	ui.PrintInfo(fmt.Sprintf(
		"Plan: strateji=%s, codec=%s, kalite=%d, on-conflict=%s",
		plan.Strategy, strings.ToUpper(plan.Codec), plan.Quality, plan.ConflictPolicy,
	))
	if plan.WouldSkip {
		ui.PrintWarning("Bu işlem on-conflict=skip nedeniyle atlanacak.")
	}
	ui.PrintInfo(fmt.Sprintf("Kaynak süre: %s", export.FormatSecondsHuman(plan.Duration)))

	rows := make([][]string, 0, len(plan.Removed)+len(plan.Keep))
	for i, r := range plan.Removed {
		rows = append(rows, []string{fmt.Sprintf("Sil[%d]", i+1), export.FormatSecondsHuman(r.Start), export.FormatSecondsHuman(r.End), export.FormatSecondsHuman(r.Len())})
	}
	for i, r := range plan.Keep {
		rows = append(rows, []string{fmt.Sprintf("Keep[%d]", i+1), export.FormatSecondsHuman(r.Start), export.FormatSecondsHuman(r.End), export.FormatSecondsHuman(r.Len())})
	}
	ui.PrintTable([]string{"Segment", "Başlangıç", "Bitiş", "Uzunluk"}, rows)

	ui.PrintInfo(fmt.Sprintf("Toplam silinecek süre: %s", export.FormatSecondsHuman(plan.RemovedDuration())))
	ui.PrintInfo(fmt.Sprintf("Tahmini çıktı süresi: %s", export.FormatSecondsHuman(plan.EditedDuration)))
	if len(plan.Keep) == 0 {
		ui.PrintWarning("Korunacak segment kalmadı; dışa aktarma başarısız olacak.")
	}
}

func runExports(ctx context.Context, planned []plannedExport, s exportSettings, t export.Transcoder) error {
	jobs := make([]batch.Job, len(planned))
	for i, p := range planned {
		jobs[i] = p.Job
	}

	pool := batch.NewPool(workers, t)
	pool.SetRetry(exportRetry, exportRetryDelay)
	if len(jobs) == 1 {
		pool.OnStatus = func(job batch.Job, status export.Status, message string) {
			switch status {
			case export.StatusError:
				ui.PrintError(message)
			case export.StatusDone:
				ui.PrintSuccess(message)
			default:
				ui.PrintInfo(message)
			}
		}
		ui.PrintExport(jobs[0].Export.Input, jobs[0].Export.Output)
		if planned[0].Plan.CodecNote != "" {
			ui.PrintInfo(planned[0].Plan.CodecNote)
		}
	} else {
		ui.PrintInfo(fmt.Sprintf("%d video bulundu", len(jobs)))
		pb := ui.NewProgressBar(len(jobs), "Dışa aktarılıyor")
		pool.OnProgress = func(completed, total int) {
			pb.Update(completed)
		}
	}

	startedAt := time.Now()
	results := pool.Execute(ctx, jobs)
	endedAt := time.Now()
	summary := batch.GetSummary(results, endedAt.Sub(startedAt))

	for i, r := range results {
		if r.Skipped {
			ui.PrintWarning(fmt.Sprintf("Çıktı dosyası mevcut, atlandı: %s", r.Job.Export.Output))
			continue
		}
		if !r.Success {
			continue
		}
		if err := writeExportSidecars(ctx, planned[i], s); err != nil {
			ui.PrintWarning(err.Error())
		}
	}

	if len(jobs) == 1 {
		ui.PrintDuration(summary.Duration)
	} else {
		ui.PrintBatchSummary(summary.Total, summary.Succeeded, summary.Skipped, summary.Failed, summary.Duration)
		if len(summary.Errors) > 0 {
			ui.PrintError("Başarısız işler:")
			for _, e := range summary.Errors {
				fmt.Fprintf(ui.Out, "  %s %s: %s (deneme: %d)\n", ui.IconError, e.InputFile, e.Error, e.Attempts)
			}
			fmt.Fprintln(ui.Out)
		}
		if err := writeBatchReport(summary, results, startedAt, endedAt); err != nil {
			ui.PrintWarning(err.Error())
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d video dışa aktarılamadı", summary.Failed)
	}
	return nil
}

// writeExportSidecars başarılı bir çıktının yanına rapor, EDL, altyazı ve
// proje dosyasını yazar.
func writeExportSidecars(ctx context.Context, p plannedExport, s exportSettings) error {
	output := p.Job.Export.Output
	base := strings.TrimSuffix(output, filepath.Ext(output))

	if s.Report != export.ReportOff {
		data, err := export.RenderReport(s.Report, p.Plan)
		if err != nil {
			return fmt.Errorf("rapor üretilemedi: %w", err)
		}
		path := base + ".report." + s.Report
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("rapor yazılamadı: %w", err)
		}
		ui.PrintInfo(fmt.Sprintf("Rapor: %s", path))
	}

	if exportEDL {
		fps := 0.0
		if prober, err := media.NewProber(activeConfig.FFmpegPath); err == nil {
			if v, err := prober.FrameRate(ctx, p.Session.Input); err == nil {
				fps = v
			}
		}
		title := filepath.Base(base)
		path := base + ".edl"
		edl := export.GenerateEDL(p.Plan.Keep, title, p.Session.Input, fps)
		if err := os.WriteFile(path, []byte(edl), 0644); err != nil {
			return fmt.Errorf("EDL yazılamadı: %w", err)
		}
		ui.PrintInfo(fmt.Sprintf("EDL: %s", path))
	}

	if exportSRT {
		if err := writeEditedSubtitles(ctx, p, base+".srt"); err != nil {
			return err
		}
	}

	if exportSave && p.Session.ProjectPath == "" {
		// Proje dosyası videonun yanında durduğu için input dosya adı olarak yazılır.
		f := project.FromModel(p.Session.Model, filepath.Base(p.Session.Input))
		f.Output = output
		path := project.DefaultPath(p.Session.Input)
		if err := project.Save(path, f); err != nil {
			return fmt.Errorf("proje kaydedilemedi: %w", err)
		}
		ui.PrintInfo(fmt.Sprintf("Proje: %s", path))
	}
	return nil
}

func writeEditedSubtitles(ctx context.Context, p plannedExport, path string) error {
	ffmpegPath, err := media.FindFFmpeg(activeConfig.FFmpegPath)
	if err != nil {
		return err
	}
	t, closeFn, err := buildTranscriber(backendAuto, activeConfig.Transcribe, appLogger)
	if err != nil {
		return fmt.Errorf("altyazı üretilemedi: %w", err)
	}
	defer closeFn()

	ui.PrintInfo("Altyazı için konuşma tanınıyor...")
	pcm, err := transcribe.ExtractPCM(ctx, media.ExecRunner, ffmpegPath, p.Session.Input)
	if err != nil {
		return fmt.Errorf("altyazı üretilemedi: %w", err)
	}
	cues, err := t.Transcribe(ctx, pcm, transcribe.Options{Language: activeConfig.Transcribe.Language})
	if err != nil {
		return fmt.Errorf("altyazı üretilemedi: %w", err)
	}
	srt := subtitle.RenderSRT(subtitle.RemapToEdited(cues, p.Session.Model))
	if err := os.WriteFile(path, []byte(srt), 0644); err != nil {
		return fmt.Errorf("altyazı yazılamadı: %w", err)
	}
	ui.PrintInfo(fmt.Sprintf("Altyazı: %s", path))
	return nil
}

func writeBatchReport(summary batch.Summary, results []batch.JobResult, startedAt, endedAt time.Time) error {
	format := batch.NormalizeReportFormat(exportBatchReport)
	if format == batch.ReportOff {
		return nil
	}
	content, err := batch.RenderReport(format, summary, results, startedAt, endedAt)
	if err != nil {
		return err
	}
	dir := outputDir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("videocut-batch-%s.%s", startedAt.Format("20060102-150405"), format))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("toplu rapor yazılamadı: %w", err)
	}
	ui.PrintInfo(fmt.Sprintf("Toplu rapor: %s", path))
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportEdits.Project, "project", "", "Proje dosyası (.videocut.json/.yaml)")
	exportCmd.Flags().StringVar(&exportEdits.Cuts, "cut", "", "Kesim noktaları (örn: 0:05,1:20)")
	exportCmd.Flags().StringVar(&exportEdits.Remove, "remove", "", "Silinecek aralıklar (örn: 0:05-0:08,1:20-1:25)")
	exportCmd.Flags().StringVar(&exportProfile, "profile", "", "Hazır profil: "+strings.Join(profile.Names(), ", "))
	exportCmd.Flags().StringVar(&exportStrategy, "strategy", export.StrategyConcat, "Birleştirme stratejisi: concat veya filter")
	exportCmd.Flags().StringVar(&exportCodec, "codec", export.CodecAuto, "Codec modu: auto, copy veya reencode")
	exportCmd.Flags().IntVarP(&exportQuality, "quality", "q", 0, "Reencode modunda kalite seviyesi (1-100)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Hedef format (örn: mp4, mov; varsayılan: kaynak)")
	exportCmd.Flags().StringVar(&exportOutputFile, "output-file", "", "Tam çıktı dosya yolu (tek video)")
	exportCmd.Flags().StringVar(&exportConflict, "on-conflict", export.ConflictVersioned, "Çakışma politikası: overwrite, skip, versioned")
	exportCmd.Flags().StringVar(&exportReport, "report", export.ReportOff, "Plan raporu: off, txt, json, md, html, pdf")
	exportCmd.Flags().StringVar(&exportBatchReport, "batch-report", batch.ReportOff, "Toplu iş raporu: off, txt, json")
	exportCmd.Flags().BoolVar(&exportStripMD, "strip-metadata", false, "Metadata bilgisini temizle")
	exportCmd.Flags().BoolVar(&exportVideoOnly, "video-only", false, "Ses izini çıkar")
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "Ön izleme/plan modu: işlem yapmadan etkiyi gösterir")
	exportCmd.Flags().BoolVar(&exportEDL, "edl", false, "Çıktının yanına CMX3600 EDL yaz")
	exportCmd.Flags().BoolVar(&exportSRT, "srt", false, "Düzenlenmiş zamana göre altyazı üret (tanıyıcı gerekir)")
	exportCmd.Flags().BoolVar(&exportSave, "save-project", false, "Kararları videonun yanına proje dosyası olarak kaydet")
	exportCmd.Flags().BoolVarP(&exportRecursive, "recursive", "r", false, "Dizin argümanlarında alt dizinleri de tara")
	exportCmd.Flags().IntVar(&exportRetry, "retry", 0, "Başarısız işler için otomatik tekrar sayısı")
	exportCmd.Flags().DurationVar(&exportRetryDelay, "retry-delay", 500*time.Millisecond, "Retry denemeleri arası bekleme (örn: 500ms, 2s)")

	rootCmd.AddCommand(exportCmd)
}
