// Package profile dışa aktarma için hazır ayar setlerini tanımlar.
package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mlihgenel/videocut-cli/internal/export"
)

// Definition dışa aktarma profili alanlarını tutar.
// Boş string ve nil pointer alanlar "profil bu alanı zorlamıyor" anlamına gelir.
type Definition struct {
	Name          string
	Description   string
	Strategy      string
	Codec         string
	Quality       *int
	OnConflict    string
	Report        string
	StripMetadata *bool
}

var builtins = map[string]Definition{
	"quick": {
		Name:        "quick",
		Description: "Yeniden kodlamadan hızlı kesim (anahtar kare hassasiyetinde)",
		Strategy:    export.StrategyConcat,
		Codec:       export.CodecCopy,
		OnConflict:  export.ConflictVersioned,
		Report:      export.ReportOff,
	},
	"precise": {
		Name:        "precise",
		Description: "Kare hassasiyetinde kesim, tek geçişte yeniden kodlama",
		Strategy:    export.StrategyFilter,
		Codec:       export.CodecReencode,
		Quality:     intPtr(85),
		OnConflict:  export.ConflictVersioned,
		Report:      export.ReportTXT,
	},
	"social": {
		Name:          "social",
		Description:   "Paylaşım için küçük dosya, metadata temizlenir",
		Strategy:      export.StrategyConcat,
		Codec:         export.CodecReencode,
		Quality:       intPtr(70),
		OnConflict:    export.ConflictVersioned,
		Report:        export.ReportOff,
		StripMetadata: boolPtr(true),
	},
	"archive": {
		Name:          "archive",
		Description:   "Yüksek kalite, ayrıntılı PDF raporu",
		Strategy:      export.StrategyConcat,
		Codec:         export.CodecReencode,
		Quality:       intPtr(100),
		OnConflict:    export.ConflictSkip,
		Report:        export.ReportPDF,
		StripMetadata: boolPtr(false),
	},
}

// Resolve isimden profile döner.
func Resolve(name string) (Definition, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Definition{}, fmt.Errorf("profil adı boş")
	}
	p, ok := builtins[key]
	if !ok {
		return Definition{}, fmt.Errorf("profil bulunamadı: %s (mevcut: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names built-in profil isimlerini alfabetik döner.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
