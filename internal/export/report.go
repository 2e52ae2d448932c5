package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

const (
	ReportOff  = "off"
	ReportTXT  = "txt"
	ReportJSON = "json"
	ReportMD   = "md"
	ReportHTML = "html"
	ReportPDF  = "pdf"
)

// Plan bir dışa aktarma işinin ön izleme/rapor bilgisidir.
type Plan struct {
	Input          string           `json:"input"`
	Output         string           `json:"output"`
	Strategy       string           `json:"strategy"`
	Codec          string           `json:"codec"`
	CodecNote      string           `json:"codec_note,omitempty"`
	Quality        int              `json:"quality"`
	ConflictPolicy string           `json:"on_conflict"`
	WouldSkip      bool             `json:"would_skip,omitempty"`
	Duration       float64          `json:"duration"`
	EditedDuration float64          `json:"edited_duration"`
	Removed        []timeline.Range `json:"removed"`
	Keep           []timeline.Range `json:"keep"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewPlan modelden plan üretir.
func NewPlan(m *timeline.Model, input, output string) Plan {
	return Plan{
		Input:          input,
		Output:         output,
		Duration:       m.Duration(),
		EditedDuration: m.EditedDuration(),
		Removed:        m.MergedRemoved(),
		Keep:           m.KeepSegments(),
		CreatedAt:      time.Now(),
	}
}

// RemovedDuration silinen toplam süredir.
func (p Plan) RemovedDuration() float64 {
	return timeline.TotalLength(p.Removed)
}

// NormalizeReportFormat rapor formatını normalize eder; geçersizse boş döner.
func NormalizeReportFormat(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", ReportOff:
		return ReportOff
	case ReportTXT, ReportJSON, ReportMD, ReportHTML, ReportPDF:
		return f
	case "markdown":
		return ReportMD
	default:
		return ""
	}
}

// RenderReport planı istenen formatta üretir.
func RenderReport(format string, plan Plan) ([]byte, error) {
	switch NormalizeReportFormat(format) {
	case ReportOff:
		return nil, nil
	case ReportTXT:
		return []byte(renderTXTReport(plan)), nil
	case ReportJSON:
		return renderJSONReport(plan)
	case ReportMD:
		return []byte(renderMarkdownReport(plan)), nil
	case ReportHTML:
		return renderHTMLReport(plan)
	case ReportPDF:
		return renderPDFReport(plan)
	default:
		return nil, fmt.Errorf("gecersiz report formati: %s", format)
	}
}

// FormatSecondsHuman saniyeyi HH:MM:SS[.mmm] olarak biçimlendirir.
func FormatSecondsHuman(value float64) string {
	if value < 0 {
		value = 0
	}
	millis := int64(value*1000 + 0.5)
	hours := millis / 3600000
	minutes := (millis % 3600000) / 60000
	seconds := (millis % 60000) / 1000
	ms := millis % 1000

	if ms == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, ms)
}

func renderTXTReport(p Plan) string {
	var b strings.Builder
	b.WriteString("Export Plan\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Created:   %s\n", p.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Input:     %s\n", p.Input)
	fmt.Fprintf(&b, "Output:    %s\n", p.Output)
	fmt.Fprintf(&b, "Strategy:  %s\n", p.Strategy)
	fmt.Fprintf(&b, "Codec:     %s\n", p.Codec)
	fmt.Fprintf(&b, "Source:    %s\n", FormatSecondsHuman(p.Duration))
	fmt.Fprintf(&b, "Edited:    %s\n", FormatSecondsHuman(p.EditedDuration))
	fmt.Fprintf(&b, "Removed:   %s\n", FormatSecondsHuman(p.RemovedDuration()))
	if p.WouldSkip {
		b.WriteString("Skipped:   output exists (on-conflict=skip)\n")
	}

	b.WriteString("\nRemoved ranges:\n")
	for i, r := range p.Removed {
		fmt.Fprintf(&b, "- [%d] %s -> %s\n", i+1, FormatSecondsHuman(r.Start), FormatSecondsHuman(r.End))
	}
	b.WriteString("\nKeep segments:\n")
	for i, r := range p.Keep {
		fmt.Fprintf(&b, "- [%d] %s -> %s (%s)\n", i+1, FormatSecondsHuman(r.Start), FormatSecondsHuman(r.End), FormatSecondsHuman(r.Len()))
	}
	return b.String()
}

func renderJSONReport(p Plan) ([]byte, error) {
	if p.Removed == nil {
		p.Removed = []timeline.Range{}
	}
	if p.Keep == nil {
		p.Keep = []timeline.Range{}
	}
	return json.MarshalIndent(p, "", "  ")
}

func renderMarkdownReport(p Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dışa Aktarma Planı: %s\n\n", filepath.Base(p.Input))
	b.WriteString("| Alan | Değer |\n|---|---|\n")
	fmt.Fprintf(&b, "| Kaynak | `%s` |\n", p.Input)
	fmt.Fprintf(&b, "| Çıktı | `%s` |\n", p.Output)
	fmt.Fprintf(&b, "| Strateji | %s |\n", p.Strategy)
	fmt.Fprintf(&b, "| Codec | %s |\n", p.Codec)
	fmt.Fprintf(&b, "| Kaynak süre | %s |\n", FormatSecondsHuman(p.Duration))
	fmt.Fprintf(&b, "| Düzenlenmiş süre | %s |\n", FormatSecondsHuman(p.EditedDuration))
	fmt.Fprintf(&b, "| Silinen süre | %s |\n", FormatSecondsHuman(p.RemovedDuration()))
	if p.CodecNote != "" {
		fmt.Fprintf(&b, "\n> %s\n", p.CodecNote)
	}

	b.WriteString("\n## Korunan segmentler\n\n")
	b.WriteString("| # | Başlangıç | Bitiş | Uzunluk |\n|---|---|---|---|\n")
	for i, r := range p.Keep {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, FormatSecondsHuman(r.Start), FormatSecondsHuman(r.End), FormatSecondsHuman(r.Len()))
	}

	if len(p.Removed) > 0 {
		b.WriteString("\n## Silinen aralıklar\n\n")
		b.WriteString("| # | Başlangıç | Bitiş |\n|---|---|---|\n")
		for i, r := range p.Removed {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, FormatSecondsHuman(r.Start), FormatSecondsHuman(r.End))
		}
	}
	return b.String()
}

func renderHTMLReport(p Plan) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Table),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="UTF-8">
<title>Dışa Aktarma Planı</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; line-height: 1.6; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px 12px; text-align: left; }
th { background: #f8f8f8; }
blockquote { border-left: 4px solid #ddd; margin: 0; padding-left: 16px; color: #666; }
</style>
</head>
<body>
`)
	if err := md.Convert([]byte(renderMarkdownReport(p)), &buf); err != nil {
		return nil, fmt.Errorf("markdown dönüşüm hatası: %w", err)
	}
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes(), nil
}

func renderPDFReport(p Plan) ([]byte, error) {
	pdf, hasUTF8 := newReportPDF()
	text := func(s string) string {
		if hasUTF8 {
			return s
		}
		return transliterateToLatin(s)
	}
	setFont := func(style string, size float64) {
		if hasUTF8 {
			pdf.SetFont("Sans", style, size)
		} else {
			pdf.SetFont("Helvetica", style, size)
		}
	}

	pdf.AddPage()
	setFont("B", 16)
	pdf.CellFormat(0, 10, text("Dışa Aktarma Planı"), "", 1, "", false, 0, "")
	pdf.Ln(2)

	setFont("", 10)
	rows := [][2]string{
		{"Kaynak", p.Input},
		{"Çıktı", p.Output},
		{"Strateji", p.Strategy},
		{"Codec", p.Codec},
		{"Kaynak süre", FormatSecondsHuman(p.Duration)},
		{"Düzenlenmiş süre", FormatSecondsHuman(p.EditedDuration)},
		{"Silinen süre", FormatSecondsHuman(p.RemovedDuration())},
	}
	for _, row := range rows {
		setFont("B", 10)
		pdf.CellFormat(45, 7, text(row[0]), "", 0, "", false, 0, "")
		setFont("", 10)
		pdf.CellFormat(0, 7, text(row[1]), "", 1, "", false, 0, "")
	}

	pdf.Ln(4)
	setFont("B", 12)
	pdf.CellFormat(0, 8, text("Korunan segmentler"), "", 1, "", false, 0, "")
	setFont("B", 9.5)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(200, 200, 200)
	widths := []float64{15, 50, 50, 50}
	for i, h := range []string{"#", "Başlangıç", "Bitiş", "Uzunluk"} {
		pdf.CellFormat(widths[i], 7, " "+text(h), "1", 0, "", true, 0, "")
	}
	pdf.Ln(7)
	setFont("", 9.5)
	for i, r := range p.Keep {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			FormatSecondsHuman(r.Start),
			FormatSecondsHuman(r.End),
			FormatSecondsHuman(r.Len()),
		}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 7, " "+c, "1", 0, "", false, 0, "")
		}
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf oluşturulamadı: %w", err)
	}
	return buf.Bytes(), nil
}

// newReportPDF sistemde UTF-8 bir font bulursa onu yükler.
func newReportPDF() (*gofpdf.Fpdf, bool) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	fontPath := findSystemFont()
	if fontPath == "" {
		return pdf, false
	}
	pdf.SetFontLocation(filepath.Dir(fontPath))
	file := filepath.Base(fontPath)
	pdf.AddUTF8Font("Sans", "", file)
	pdf.AddUTF8Font("Sans", "B", file)
	if pdf.Err() {
		// Font yüklenemediyse çekirdek fontlarla yeniden başla.
		pdf = gofpdf.New("P", "mm", "A4", "")
		pdf.SetMargins(20, 20, 20)
		pdf.SetAutoPageBreak(true, 20)
		return pdf, false
	}
	return pdf, true
}

func findSystemFont() string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/Library/Fonts/Arial.ttf",
		}
	case "linux":
		candidates = []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
		}
	case "windows":
		candidates = []string{
			"C:\\Windows\\Fonts\\arial.ttf",
			"C:\\Windows\\Fonts\\segoeui.ttf",
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func transliterateToLatin(s string) string {
	replacer := strings.NewReplacer(
		"ç", "c", "Ç", "C",
		"ğ", "g", "Ğ", "G",
		"ı", "i", "İ", "I",
		"ö", "o", "Ö", "O",
		"ş", "s", "Ş", "S",
		"ü", "u", "Ü", "U",
	)
	return replacer.Replace(s)
}
