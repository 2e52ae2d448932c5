package batch

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mlihgenel/videocut-cli/internal/export"
	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

const (
	ReportOff  = "off"
	ReportTXT  = "txt"
	ReportJSON = "json"
)

// Sonuç durumları.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// ItemReport tek bir videonun dışa aktarma sonucudur.
type ItemReport struct {
	Input       string  `json:"input"`
	Output      string  `json:"output"`
	Status      string  `json:"status"`
	Segments    int     `json:"segments"`
	KeptSeconds float64 `json:"kept_seconds"`
	Attempts    int     `json:"attempts,omitempty"`
	DurationMS  int64   `json:"duration_ms"`
	OutputSize  int64   `json:"output_size,omitempty"`
	Error       string  `json:"error,omitempty"`
	SkipReason  string  `json:"skip_reason,omitempty"`
}

// Report toplu dışa aktarmanın özetidir.
type Report struct {
	StartedAt   time.Time    `json:"started_at"`
	EndedAt     time.Time    `json:"ended_at"`
	Duration    string       `json:"duration"`
	Total       int          `json:"total"`
	Succeeded   int          `json:"succeeded"`
	Skipped     int          `json:"skipped"`
	Failed      int          `json:"failed"`
	KeptSeconds float64      `json:"kept_seconds"`
	OutputBytes int64        `json:"output_bytes"`
	Items       []ItemReport `json:"items"`
}

// NormalizeReportFormat rapor formatını normalize eder.
func NormalizeReportFormat(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "":
		return ReportOff
	case ReportOff, ReportTXT, ReportJSON:
		return f
	default:
		return ""
	}
}

// BuildReport iş sonuçlarından rapor oluşturur. Süre ve boyut toplamları
// yalnızca başarılı işleri kapsar.
func BuildReport(summary Summary, results []JobResult, startedAt, endedAt time.Time) Report {
	r := Report{
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Duration:  summary.Duration.String(),
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
		Items:     make([]ItemReport, 0, len(results)),
	}
	for _, res := range results {
		job := res.Job.Export
		item := ItemReport{
			Input:       job.Input,
			Output:      job.Output,
			Segments:    len(job.Segments),
			KeptSeconds: timeline.TotalLength(job.Segments),
			Attempts:    res.Attempts,
			DurationMS:  res.Duration.Milliseconds(),
			OutputSize:  res.OutputSize,
		}
		switch {
		case res.Success:
			item.Status = StatusSuccess
			r.KeptSeconds += item.KeptSeconds
			r.OutputBytes += res.OutputSize
		case res.Skipped:
			item.Status = StatusSkipped
			item.SkipReason = res.SkipReason
		default:
			item.Status = StatusFailed
			if res.Error != nil {
				item.Error = res.Error.Error()
			}
		}
		r.Items = append(r.Items, item)
	}
	return r
}

// RenderReport toplu dışa aktarma sonucu için rapor metni üretir.
func RenderReport(format string, summary Summary, results []JobResult, startedAt, endedAt time.Time) (string, error) {
	normalized := NormalizeReportFormat(format)
	if normalized == "" {
		return "", fmt.Errorf("geçersiz rapor formatı: %s", format)
	}
	if normalized == ReportOff {
		return "", nil
	}

	report := BuildReport(summary, results, startedAt, endedAt)
	if normalized == ReportJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	}
	return renderTXTReport(report), nil
}

func renderTXTReport(r Report) string {
	var b strings.Builder
	b.WriteString("Batch Export Report\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "Started:   %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Ended:     %s\n", r.EndedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration:  %s\n", r.Duration)
	fmt.Fprintf(&b, "Result:    %d total, %d succeeded, %d skipped, %d failed\n", r.Total, r.Succeeded, r.Skipped, r.Failed)
	fmt.Fprintf(&b, "Kept:      %s\n\n", export.FormatSecondsHuman(r.KeptSeconds))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tINPUT\tOUTPUT\tSEGMENTS\tKEPT\tNOTE")
	for _, it := range r.Items {
		note := ""
		switch {
		case it.Error != "":
			note = fmt.Sprintf("%s (attempts=%d)", it.Error, it.Attempts)
		case it.SkipReason != "":
			note = it.SkipReason
		case it.OutputSize > 0:
			note = fmt.Sprintf("%d bytes", it.OutputSize)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", it.Status, it.Input, it.Output, it.Segments, export.FormatSecondsHuman(it.KeptSeconds), note)
	}
	tw.Flush()
	return b.String()
}
