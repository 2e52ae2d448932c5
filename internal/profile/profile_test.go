package profile

import (
	"strings"
	"testing"

	"github.com/mlihgenel/videocut-cli/internal/export"
)

func TestResolveBuiltins(t *testing.T) {
	for _, name := range Names() {
		p, err := Resolve(strings.ToUpper(name))
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", name, err)
		}
		if p.Name != name {
			t.Fatalf("Resolve(%s) returned %q", name, p.Name)
		}
		if export.NormalizeStrategy(p.Strategy) == "" || export.NormalizeCodec(p.Codec) == "" {
			t.Fatalf("profile %s has invalid strategy or codec", name)
		}
		if export.NormalizeConflictPolicy(p.OnConflict) == "" || export.NormalizeReportFormat(p.Report) == "" {
			t.Fatalf("profile %s has invalid conflict policy or report", name)
		}
	}
}

func TestPreciseProfileReencodes(t *testing.T) {
	p, err := Resolve("precise")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.Strategy != export.StrategyFilter || p.Codec != export.CodecReencode || p.Quality == nil || *p.Quality != 85 {
		t.Fatalf("unexpected precise profile: %+v", p)
	}
}

func TestResolveInvalid(t *testing.T) {
	if _, err := Resolve("unknown-profile"); err == nil || !strings.Contains(err.Error(), "quick") {
		t.Fatalf("expected error listing available profiles, got %v", err)
	}
	if _, err := Resolve("  "); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 4 || names[0] != "archive" || names[3] != "social" {
		t.Fatalf("unexpected names: %v", names)
	}
}
