package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ConflictOverwrite = "overwrite"
	ConflictSkip      = "skip"
	ConflictVersioned = "versioned"
)

// OutputName dışa aktarma çıktısının dosya adını üretir:
// <kaynak>_edited_<YYYY-MM-DD>.<uzantı>
func OutputName(input, targetFormat string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if base == "" || base == "." {
		base = "video"
	}
	ext := strings.TrimPrefix(strings.TrimSpace(targetFormat), ".")
	if ext == "" {
		ext = strings.TrimPrefix(filepath.Ext(input), ".")
	}
	if ext == "" {
		ext = "mp4"
	}
	return fmt.Sprintf("%s_edited_%s.%s", base, now.Format("2006-01-02"), strings.ToLower(ext))
}

// BuildOutputPath çıktı yolunu belirler. explicit verilmişse aynen kullanılır,
// outputDir boşsa kaynağın dizinine yazılır.
func BuildOutputPath(input, targetFormat, outputDir, explicit string, now time.Time) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	name := OutputName(input, targetFormat, now)
	if strings.TrimSpace(outputDir) != "" {
		return filepath.Join(outputDir, name)
	}
	return filepath.Join(filepath.Dir(input), name)
}

// NormalizeConflictPolicy geçersiz değerlerde boş, boş değerde varsayılan policy döner.
func NormalizeConflictPolicy(policy string) string {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case ConflictOverwrite:
		return ConflictOverwrite
	case ConflictSkip:
		return ConflictSkip
	case ConflictVersioned, "":
		return ConflictVersioned
	default:
		return ""
	}
}

// ResolveOutputPathConflict hedef dosya adı çakışmasını verilen policy'ye göre çözer.
// skip=true dönerse iş atlanmalıdır.
func ResolveOutputPathConflict(path, policy string) (resolvedPath string, skip bool, err error) {
	normalized := NormalizeConflictPolicy(policy)
	if normalized == "" {
		return "", false, fmt.Errorf("geçersiz on-conflict politikası: %s", policy)
	}

	exists, err := FileExists(path)
	if err != nil || !exists {
		return path, false, err
	}
	switch normalized {
	case ConflictOverwrite:
		return path, false, nil
	case ConflictSkip:
		return path, true, nil
	}
	resolved, err := VersionedPath(path, FileExists)
	return resolved, false, err
}

// VersionedPath "ad (n).uzantı" adaylarından taken'ın boş bulduğu ilkini döner.
func VersionedPath(path string, taken func(string) (bool, error)) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i < 100000; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		busy, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !busy {
			return candidate, nil
		}
	}
	return "", errors.New("uygun sürümlü dosya adı bulunamadı")
}

// FileExists yolun diskte var olup olmadığını söyler.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
