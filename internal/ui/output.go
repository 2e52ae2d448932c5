// Package ui komut satırı çıktısı için renkli yazdırma yardımcılarını içerir.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Color ANSI renk kodları
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
)

// Icons kullanıcı dostu ikonlar
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️ "
	IconInfo    = "ℹ️ "
	IconCut     = "✂️ "
	IconVideo   = "🎬"
	IconBatch   = "📦"
	IconDone    = "🎉"
	IconTime    = "⏱️ "
	IconText    = "📝"
)

// Out tüm yardımcıların yazdığı hedeftir.
var Out io.Writer = os.Stdout

// PrintBanner uygulama başlığını yazdırır
func PrintBanner(version string) {
	title := fmt.Sprintf("VideoCut CLI  %s", version)
	fmt.Fprintln(Out, Cyan+Bold+`
  ╔═══════════════════════════════════════════════╗
  ║  `+fmt.Sprintf("%-45s", title)+`║
  ║  Tahribatsız video kesme aracı                ║
  ╚═══════════════════════════════════════════════╝`+Reset)
	fmt.Fprintln(Out)
}

func PrintSuccess(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconSuccess, Green, msg, Reset)
}

func PrintError(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconError, Red, msg, Reset)
}

func PrintWarning(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconWarning, Yellow, msg, Reset)
}

func PrintInfo(msg string) {
	fmt.Fprintf(Out, "%s %s%s%s\n", IconInfo, Blue, msg, Reset)
}

// PrintExport dışa aktarma işlemi mesajı
func PrintExport(input, output string) {
	fmt.Fprintf(Out, "%s %s%s%s → %s%s%s\n", IconCut, Dim, input, Reset, Green, output, Reset)
}

// PrintDuration süre bilgisi
func PrintDuration(d time.Duration) {
	fmt.Fprintf(Out, "%s  Süre: %s%s%s\n", IconTime, Cyan, FormatDuration(d), Reset)
}

// ProgressBar ilerleme çubuğu gösterir
type ProgressBar struct {
	Total   int
	Current int
	Width   int
	Label   string
}

// NewProgressBar yeni bir progress bar oluşturur
func NewProgressBar(total int, label string) *ProgressBar {
	return &ProgressBar{
		Total: total,
		Width: 40,
		Label: label,
	}
}

// Update ilerlemeyi günceller
func (pb *ProgressBar) Update(current int) {
	if pb.Total <= 0 {
		return
	}
	if current > pb.Total {
		current = pb.Total
	}
	pb.Current = current
	percentage := float64(current) / float64(pb.Total) * 100
	filled := int(float64(pb.Width) * float64(current) / float64(pb.Total))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.Width-filled)

	fmt.Fprintf(Out, "\r  %s%s%s [%s%s%s] %s%.0f%%%s (%d/%d)",
		Bold, pb.Label, Reset,
		Green, bar, Reset,
		Cyan, percentage, Reset,
		current, pb.Total)

	if current >= pb.Total {
		fmt.Fprintln(Out)
	}
}

// PrintTable basit bir kutu çizgili tablo yazdırır.
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && displayWidth(cell) > colWidths[i] {
				colWidths[i] = displayWidth(cell)
			}
		}
	}

	line := func(left, mid, right string) string {
		parts := make([]string, len(colWidths))
		for i, w := range colWidths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return "  " + left + strings.Join(parts, mid) + right
	}
	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-displayWidth(s))
	}

	fmt.Fprintln(Out, line("┌", "┬", "┐"))
	header := "  │"
	for i, h := range headers {
		header += " " + Bold + pad(h, colWidths[i]) + Reset + " │"
	}
	fmt.Fprintln(Out, header)
	fmt.Fprintln(Out, line("├", "┼", "┤"))
	for _, row := range rows {
		out := "  │"
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			out += " " + pad(cell, colWidths[i]) + " │"
		}
		fmt.Fprintln(Out, out)
	}
	fmt.Fprintln(Out, line("└", "┴", "┘"))
}

// PrintBatchSummary toplu iş özetini yazdırır
func PrintBatchSummary(total, succeeded, skipped, failed int, duration time.Duration) {
	fmt.Fprintln(Out)
	fmt.Fprintf(Out, "  %s %sToplu Dışa Aktarma Tamamlandı%s\n", IconDone, Bold, Reset)
	fmt.Fprintln(Out, "  "+strings.Repeat("─", 40))
	fmt.Fprintf(Out, "  Toplam:    %s%d%s video\n", Cyan, total, Reset)
	fmt.Fprintf(Out, "  Başarılı:  %s%d%s video\n", Green, succeeded, Reset)
	if skipped > 0 {
		fmt.Fprintf(Out, "  Atlanan:   %s%d%s video\n", Yellow, skipped, Reset)
	}
	if failed > 0 {
		fmt.Fprintf(Out, "  Başarısız: %s%d%s video\n", Red, failed, Reset)
	}
	fmt.Fprintf(Out, "  Süre:      %s%s%s\n", Yellow, FormatDuration(duration), Reset)
	fmt.Fprintln(Out)
}

// FormatDuration süreyi okunabilir formata çevirir
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// displayWidth rune sayısıdır; tabloda Türkçe karakterler kaymasın diye.
func displayWidth(s string) int {
	return len([]rune(s))
}
