package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mlihgenel/videocut-cli/internal/timeline"
)

// parseTimeValue saniye ("12.5"), m:ss veya h:mm:ss biçimindeki zamanı
// saniyeye çevirir. Ondalık ayırıcı olarak virgül de kabul edilir.
func parseTimeValue(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if normalized == "" {
		return 0, fmt.Errorf("boş değer")
	}

	if strings.Contains(normalized, ":") {
		parts := strings.Split(normalized, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, fmt.Errorf("zaman formatı hatalı: %s", raw)
		}

		parsed := make([]float64, len(parts))
		for i, part := range parts {
			p := strings.TrimSpace(part)
			if p == "" {
				return 0, fmt.Errorf("zaman formatı hatalı: %s", raw)
			}
			v, err := strconv.ParseFloat(p, 64)
			if err != nil || v < 0 {
				return 0, fmt.Errorf("zaman formatı hatalı: %s", raw)
			}
			parsed[i] = v
		}

		if len(parsed) == 2 {
			if parsed[1] >= 60 {
				return 0, fmt.Errorf("saniye 60'tan küçük olmalı: %s", raw)
			}
			return parsed[0]*60 + parsed[1], nil
		}

		if parsed[1] >= 60 || parsed[2] >= 60 {
			return 0, fmt.Errorf("dakika/saniye 60'tan küçük olmalı: %s", raw)
		}
		return parsed[0]*3600 + parsed[1]*60 + parsed[2], nil
	}

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("geçersiz sayı: %s", raw)
	}
	return v, nil
}

// parseRangesSpec "5-8,0:20-0:25" biçimindeki aralık listesini çözer.
// Çakışan aralıklar birleştirilir.
func parseRangesSpec(spec string) ([]timeline.Range, error) {
	tokens := strings.Split(spec, ",")
	ranges := make([]timeline.Range, 0, len(tokens))

	for _, token := range tokens {
		raw := strings.TrimSpace(token)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("geçersiz aralık: %s (örn: 0:05-0:08)", raw)
		}

		startSec, err := parseTimeValue(parts[0])
		if err != nil {
			return nil, fmt.Errorf("geçersiz aralık başlangıcı: %s", strings.TrimSpace(parts[0]))
		}
		endSec, err := parseTimeValue(parts[1])
		if err != nil {
			return nil, fmt.Errorf("geçersiz aralık bitişi: %s", strings.TrimSpace(parts[1]))
		}
		if endSec <= startSec {
			return nil, fmt.Errorf("aralıkta bitiş başlangıçtan büyük olmalı: %s", raw)
		}

		ranges = append(ranges, timeline.Range{Start: startSec, End: endSec})
	}

	if len(ranges) == 0 {
		return nil, fmt.Errorf("en az bir aralık belirtmelisiniz (--remove)")
	}
	return timeline.Merge(ranges), nil
}

// parseCutsSpec virgülle ayrılmış kesim noktalarını çözer.
func parseCutsSpec(spec string) ([]float64, error) {
	var cuts []float64
	for _, token := range strings.Split(spec, ",") {
		raw := strings.TrimSpace(token)
		if raw == "" {
			continue
		}
		v, err := parseTimeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("geçersiz kesim noktası: %s", raw)
		}
		cuts = append(cuts, v)
	}
	return cuts, nil
}
