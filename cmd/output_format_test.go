package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mlihgenel/videocut-cli/internal/ui"
)

func TestNormalizeOutputFormat(t *testing.T) {
	if got := NormalizeOutputFormat(""); got != OutputFormatText {
		t.Fatalf("expected text for empty, got %s", got)
	}
	if got := NormalizeOutputFormat("TEXT"); got != OutputFormatText {
		t.Fatalf("expected text for TEXT, got %s", got)
	}
	if got := NormalizeOutputFormat("json"); got != OutputFormatJSON {
		t.Fatalf("expected json, got %s", got)
	}
	if got := NormalizeOutputFormat("yaml"); got != "" {
		t.Fatalf("expected empty for invalid format, got %s", got)
	}
}

func TestResolveOutputFormat(t *testing.T) {
	if isJSON, err := resolveOutputFormat("json"); err != nil || !isJSON {
		t.Fatalf("expected json, got %v %v", isJSON, err)
	}
	if _, err := resolveOutputFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := ui.Out
	ui.Out = &buf
	t.Cleanup(func() { ui.Out = prev })
	return &buf
}

func TestPrintJSONWritesToUIOut(t *testing.T) {
	buf := captureOutput(t)
	if err := printJSON(map[string]int{"cuts": 2}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"cuts": 2`) {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
