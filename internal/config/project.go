package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	projectConfigFileName = ".videocut.yaml"
	userConfigDirName     = ".videocut"
	userConfigFileName    = "config.yaml"
)

// resolveConfigPath okunacak yapılandırma dosyasını seçer. Sıra: explicit,
// currentDir'den köke kadar ilk .videocut.yaml, kullanıcı dosyası. Hiçbiri
// yoksa boş yol döner.
func resolveConfigPath(explicit, currentDir string) (string, error) {
	if p := strings.TrimSpace(explicit); p != "" {
		return p, nil
	}

	found, err := findProjectConfigPath(currentDir)
	if err != nil || found != "" {
		return found, err
	}

	user, err := UserConfigPath()
	if err != nil {
		// Ev dizini yoksa kullanıcı dosyası da yoktur.
		return "", nil
	}
	if ok, _ := isRegularFile(user); ok {
		return user, nil
	}
	return "", nil
}

func findProjectConfigPath(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", errors.New("geçersiz çalışma dizini")
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, projectConfigFileName)
		ok, err := isRegularFile(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
		if filepath.Dir(dir) == dir {
			return "", nil
		}
	}
}

func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
