package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })
	return &buf
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.50s"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestPrintTableAlignsUnicode(t *testing.T) {
	buf := capture(t)
	PrintTable([]string{"#", "Başlangıç"}, [][]string{{"1", "0:05"}, {"2", "1:10"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 table lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "  ┌") || !strings.HasSuffix(lines[5], "┘") {
		t.Fatalf("unexpected table border:\n%s", buf.String())
	}
	if !strings.Contains(lines[3], "│ 1 │ 0:05      │") {
		t.Fatalf("row not padded to header width: %q", lines[3])
	}
}

func TestProgressBarFinishes(t *testing.T) {
	buf := capture(t)
	pb := NewProgressBar(2, "Dışa aktarılıyor")
	pb.Update(1)
	pb.Update(5)
	out := buf.String()
	if !strings.Contains(out, "(1/2)") || !strings.Contains(out, "(2/2)") || !strings.HasSuffix(out, "\n") {
		t.Fatalf("unexpected progress output: %q", out)
	}
	if pb.Current != 2 {
		t.Fatalf("current must clamp to total, got %d", pb.Current)
	}
}

func TestPrintBatchSummaryOmitsZeroCounts(t *testing.T) {
	buf := capture(t)
	PrintBatchSummary(3, 3, 0, 0, time.Second)
	if strings.Contains(buf.String(), "Başarısız") || strings.Contains(buf.String(), "Atlanan") {
		t.Fatalf("zero counts must be hidden:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Toplu Dışa Aktarma Tamamlandı") {
		t.Fatalf("missing header:\n%s", buf.String())
	}
}
