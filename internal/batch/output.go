package batch

import (
	"fmt"

	"github.com/mlihgenel/videocut-cli/internal/export"
)

// SkipOutputExists çıktı zaten varken skip politikasında kullanılan atlama nedenidir.
const SkipOutputExists = "output_exists"

// ReserveOutput çıktı yolunu diskteki dosyalar ve aynı toplu işte daha önce
// ayrılmış yollarla çakışmayacak şekilde çözer. Dönen yol reserved'e eklenir.
// Atlanacak işler için boş olmayan bir neden döner.
func ReserveOutput(path, policy string, reserved map[string]struct{}) (string, string, error) {
	normalized := export.NormalizeConflictPolicy(policy)
	if normalized == "" {
		return "", "", fmt.Errorf("geçersiz on-conflict politikası: %s", policy)
	}

	taken := func(p string) (bool, error) {
		if _, ok := reserved[p]; ok {
			return true, nil
		}
		return export.FileExists(p)
	}

	switch normalized {
	case export.ConflictSkip:
		busy, err := taken(path)
		if err != nil {
			return "", "", err
		}
		if busy {
			return path, SkipOutputExists, nil
		}
	case export.ConflictOverwrite:
		// Disk üzerindeki dosya ezilebilir; aynı toplu işteki iki iş ezilemez.
		if _, ok := reserved[path]; !ok {
			break
		}
		fallthrough
	default:
		busy, err := taken(path)
		if err != nil {
			return "", "", err
		}
		if busy {
			if path, err = export.VersionedPath(path, taken); err != nil {
				return "", "", err
			}
		}
	}

	reserved[path] = struct{}{}
	return path, "", nil
}
